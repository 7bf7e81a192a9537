// Package api exposes the song-workflow operations consumed by the daemon's
// HTTP surface and the CLI. Services translate store records into
// transport-friendly DTOs and tag failures with the shared service error
// markers so callers can map them onto status codes.
package api
