// Package daemon coordinates the long-running labeldesk process.
//
// It wires configuration, the song store, the workflow manager, and the HTTP
// API into a single lifecycle with flock-based locking to prevent multiple
// instances. The daemon owns startup and shutdown; the actual workflow
// semantics live in the api, transition, and workflow packages.
package daemon
