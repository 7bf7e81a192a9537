// Package services defines shared utilities consumed by the workflow engine
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp song IDs, stage names, acting users, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent API status codes.
//
// Use these helpers when wiring new service logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
