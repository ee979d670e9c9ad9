// Package fusion provides the Go client SDK for the OOMOL Fusion API.
//
// The Client submits asynchronous compute tasks, polls them to
// completion, and uploads input files to OOMOL cloud storage. Small
// files go up in a single presigned request; large files are split
// into parts and uploaded concurrently through the storage backend's
// multipart protocol, with per-part retry and aggregated progress
// reporting.
//
// All blocking operations take a context.Context and return typed
// errors from the errors subpackage so callers can branch on error
// kind rather than message text.
package fusion
