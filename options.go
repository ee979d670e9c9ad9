package fusion

import (
	"net/http"
	"time"

	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
)

// Default values applied by New and the upload operations.
const (
	// DefaultBaseURL is the production Fusion API endpoint.
	DefaultBaseURL = "https://fusion-api.oomol.com/v1"

	// DefaultPollingInterval is the pause between task status probes.
	DefaultPollingInterval = 2 * time.Second

	// DefaultTimeout is the maximum time to wait for a task to finish.
	DefaultTimeout = 300 * time.Second

	// DefaultMaxConcurrentUploads is the multipart chunk upload parallelism.
	DefaultMaxConcurrentUploads = 3

	// DefaultMultipartThreshold is the size at which uploads switch from
	// the single-shot path to the multipart protocol (5 MiB).
	DefaultMultipartThreshold = 5 * 1024 * 1024

	// DefaultRetries is the number of retries per failed transfer.
	DefaultRetries = 3
)

// WithBaseURL overrides the Fusion API endpoint.
func WithBaseURL(baseURL string) fusiontypes.Option {
	return func(cfg *fusiontypes.ClientConfig) {
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}
}

// WithPollingInterval overrides the pause between task status probes.
func WithPollingInterval(interval time.Duration) fusiontypes.Option {
	return func(cfg *fusiontypes.ClientConfig) {
		if interval > 0 {
			cfg.PollingInterval = interval
		}
	}
}

// WithTimeout overrides the maximum time Wait and Run block for a task
// to reach a terminal state.
func WithTimeout(timeout time.Duration) fusiontypes.Option {
	return func(cfg *fusiontypes.ClientConfig) {
		if timeout > 0 {
			cfg.Timeout = timeout
		}
	}
}

// WithHTTPClient supplies a custom HTTP client, for proxies or custom
// transports. The same client is used for API calls and storage transfers.
func WithHTTPClient(httpClient *http.Client) fusiontypes.Option {
	return func(cfg *fusiontypes.ClientConfig) {
		if httpClient != nil {
			cfg.HTTPClient = httpClient
		}
	}
}

// WithProgress registers a callback for upload progress updates.
func WithProgress(fn fusiontypes.UploadProgressFunc) fusiontypes.UploadOption {
	return func(cfg *fusiontypes.UploadConfig) {
		cfg.OnProgress = fn
	}
}

// WithMaxConcurrentUploads overrides how many multipart chunks upload
// in parallel.
func WithMaxConcurrentUploads(n int) fusiontypes.UploadOption {
	return func(cfg *fusiontypes.UploadConfig) {
		if n > 0 {
			cfg.MaxConcurrentUploads = n
		}
	}
}

// WithMultipartThreshold overrides the size at which uploads switch to
// the multipart protocol.
func WithMultipartThreshold(threshold int64) fusiontypes.UploadOption {
	return func(cfg *fusiontypes.UploadConfig) {
		if threshold > 0 {
			cfg.MultipartThreshold = threshold
		}
	}
}

// WithRetries overrides the number of retries per failed transfer.
// Zero disables retrying.
func WithRetries(retries int) fusiontypes.UploadOption {
	return func(cfg *fusiontypes.UploadConfig) {
		if retries >= 0 {
			cfg.Retries = retries
		}
	}
}

// WithRunProgress registers a callback for task progress percentages
// while waiting for completion.
func WithRunProgress(fn fusiontypes.ProgressFunc) fusiontypes.RunOption {
	return func(cfg *fusiontypes.RunConfig) {
		cfg.OnProgress = fn
	}
}
