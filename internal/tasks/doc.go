// Package tasks resolves checklist items to their backing task instances.
package tasks
