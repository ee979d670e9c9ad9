package upload

import (
	"context"
	"errors"
	"net/http"
	"time"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
	"github.com/oomol-lab/fusion-sdk-go/internal/api"
)

const (
	// defaultPartSize is used when the create response omits partSize (5 MiB).
	defaultPartSize = 5 * 1024 * 1024

	// transferTimeout bounds each round trip to a presigned storage URL.
	transferTimeout = 300 * time.Second
)

// Uploader handles uploads with automatic strategy selection.
type Uploader struct {
	api api.API

	// httpClient talks to presigned storage URLs. It carries no
	// authorization headers; the URLs embed their own credentials.
	httpClient *http.Client

	// backoffUnit is the base of the linear retry backoff. Tests
	// shrink it to keep retry paths fast.
	backoffUnit time.Duration
}

// New creates a new Uploader instance.
func New(apiClient api.API, httpClient *http.Client) *Uploader {
	return &Uploader{
		api:         apiClient,
		httpClient:  httpClient,
		backoffUnit: time.Second,
	}
}

// Upload uploads the payload under the given file name and returns the
// download URL. Payloads below the configured multipart threshold go
// through the single-shot path; everything else uses the multipart
// protocol.
func (u *Uploader) Upload(
	ctx context.Context,
	data []byte,
	fileName, fileSuffix, contentType string,
	cfg *fusiontypes.UploadConfig,
) (string, error) {
	if int64(len(data)) < cfg.MultipartThreshold {
		return u.uploadSingle(ctx, data, fileName, fileSuffix, contentType, cfg)
	}

	return u.uploadMultipart(ctx, data, fileName, fileSuffix, contentType, cfg)
}

// withFile attaches the file name to the innermost *errors.Error in the
// chain, if it does not already carry one.
func withFile(err error, fileName string) error {
	var e *fusionerrors.Error
	if errors.As(err, &e) && e.File == "" {
		e.File = fileName
	}

	return err
}
