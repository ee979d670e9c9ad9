// Package upload handles file uploads to OOMOL cloud storage.
// This includes single-shot presigned uploads and multipart uploads.
//
// The package automatically selects the upload strategy based on the
// configured size threshold and handles concurrent part uploads with
// per-part retry and aggregated progress reporting.
package upload
