// Package fusiontypes provides shared type definitions for the Fusion SDK.
package fusiontypes

import (
	"net/http"
	"time"
)

// TaskState represents the execution state of a submitted task.
type TaskState string

// Task states reported by the Fusion API.
const (
	// TaskStatePending means the task is queued but not yet running.
	TaskStatePending TaskState = "pending"

	// TaskStateProcessing means the task is currently executing.
	TaskStateProcessing TaskState = "processing"

	// TaskStateCompleted means the task finished successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateFailed means the task finished unsuccessfully.
	TaskStateFailed TaskState = "failed"

	// TaskStateError means the task aborted with a server-side error.
	TaskStateError TaskState = "error"
)

// Terminal reports whether the state is one the server will never leave.
func (s TaskState) Terminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed || s == TaskStateError
}

// SubmitRequest describes a task submission.
type SubmitRequest struct {
	// Service is the service name to invoke (e.g. "fal-nano-banana-pro").
	Service string

	// Inputs holds the dynamic input parameters for the service.
	Inputs map[string]any
}

// TaskStatus is a single point-in-time status probe of a task.
type TaskStatus struct {
	// State is the current task state.
	State TaskState

	// Data is the task result payload, present once completed.
	Data any

	// Error is the server-reported error message, present on failure.
	Error string

	// Progress is the task progress percentage, 0-100.
	Progress float64
}

// TaskResult is the final result of a completed task.
type TaskResult struct {
	// Data is the task result payload.
	Data any

	// SessionID identifies the task session that produced the result.
	SessionID string

	// Service is the service name that processed the task.
	Service string
}

// ProgressFunc receives task progress percentages (0-100) while waiting
// for a task to complete.
type ProgressFunc func(percentage float64)

// ProgressUpdate is the payload delivered to an upload progress
// callback. It is a closed variant type: single-shot uploads report a
// bare Percentage, multipart uploads report an UploadProgress snapshot.
// Callers switch on the concrete type:
//
//	func(u fusiontypes.ProgressUpdate) {
//	    switch p := u.(type) {
//	    case fusiontypes.Percentage:
//	        fmt.Printf("%.0f%%\n", float64(p))
//	    case fusiontypes.UploadProgress:
//	        fmt.Printf("%d/%d chunks\n", p.UploadedChunks, p.TotalChunks)
//	    }
//	}
type ProgressUpdate interface {
	progressUpdate()
}

// Percentage is the bare-number progress variant emitted by single-shot
// uploads (fixed 50/100 milestones).
type Percentage float64

func (Percentage) progressUpdate() {}

// UploadProgress is an immutable progress snapshot emitted as each
// multipart chunk completes.
type UploadProgress struct {
	// UploadedBytes is the number of bytes uploaded so far.
	UploadedBytes int64

	// TotalBytes is the total number of bytes to upload.
	TotalBytes int64

	// Percentage is UploadedBytes/TotalBytes*100, rounded to 2 decimals.
	Percentage float64

	// UploadedChunks is the number of chunks uploaded so far.
	UploadedChunks int

	// TotalChunks is the total number of chunks.
	TotalChunks int
}

func (UploadProgress) progressUpdate() {}

// UploadProgressFunc receives upload progress updates. Snapshots are
// delivered under the coordinator's lock, so observed counters are
// monotonically non-decreasing; the callback must not block for long.
type UploadProgressFunc func(update ProgressUpdate)

// Configuration types for functional options

// ClientConfig holds configuration for the Fusion client.
type ClientConfig struct {
	BaseURL         string
	PollingInterval time.Duration
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// UploadConfig holds configuration for upload operations via
// functional options.
type UploadConfig struct {
	OnProgress           UploadProgressFunc
	MaxConcurrentUploads int
	MultipartThreshold   int64
	Retries              int
}

// RunConfig holds configuration for task wait operations via
// functional options.
type RunConfig struct {
	OnProgress ProgressFunc
}

// Option is a functional option for configuring the Fusion client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring file uploads.
	UploadOption func(*UploadConfig)
	// RunOption is a functional option for configuring task waits.
	RunOption func(*RunConfig)
)
