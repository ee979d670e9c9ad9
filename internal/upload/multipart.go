package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
	"github.com/oomol-lab/fusion-sdk-go/internal/api"
)

// uploadMultipart drives the multipart protocol: create a session,
// presign one URL per chunk, upload chunks concurrently, then complete
// the session. Any chunk exhausting its retries aborts the whole
// upload; the complete call is never made in that case.
func (u *Uploader) uploadMultipart(
	ctx context.Context,
	data []byte,
	fileName, fileSuffix, contentType string,
	cfg *fusiontypes.UploadConfig,
) (string, error) {
	session, err := u.api.CreateMultipartUpload(ctx, fileSuffix, int64(len(data)))
	if err != nil {
		return "", withFile(err, fileName)
	}

	partSize := session.PartSize
	if partSize <= 0 {
		partSize = defaultPartSize
	}

	chunks := planChunks(data, partSize)

	partNumbers := make([]int, len(chunks))
	for i := range chunks {
		partNumbers[i] = chunks[i].number
	}

	targets, err := u.api.GeneratePresignedURLs(ctx, session.UploadID, session.Key, partNumbers)
	if err != nil {
		return "", withFile(err, fileName)
	}

	if len(targets) != len(chunks) {
		return "", fusionerrors.NewFileError("uploadMultipart", fileName, fusionerrors.ErrProtocol).
			WithMessage(fmt.Sprintf("expected %d presigned URLs, got %d", len(chunks), len(targets)))
	}

	var (
		mu            sync.Mutex
		uploadedBytes int64
		completed     = make([]api.CompletedPart, 0, len(chunks))
	)

	totalBytes := int64(len(data))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrentUploads)

	for i := range chunks {
		part := chunks[i]
		target := targets[i].UploadURL

		g.Go(func() error {
			etag, err := u.uploadChunk(gctx, target, part.data, contentType, cfg.Retries)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", part.number, err)
			}

			mu.Lock()
			defer mu.Unlock()

			uploadedBytes += int64(len(part.data))
			completed = append(completed, api.CompletedPart{PartNumber: part.number, Etag: etag})

			if cfg.OnProgress != nil {
				cfg.OnProgress(fusiontypes.UploadProgress{
					UploadedBytes:  uploadedBytes,
					TotalBytes:     totalBytes,
					Percentage:     roundPercent(uploadedBytes, totalBytes),
					UploadedChunks: len(completed),
					TotalChunks:    len(chunks),
				})
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", fusionerrors.NewFileError("uploadMultipart", fileName,
			fmt.Errorf("%w: %w", fusionerrors.ErrUploadAborted, err))
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].PartNumber < completed[j].PartNumber
	})

	downloadURL, err := u.api.CompleteMultipartUpload(ctx, session.UploadID, session.Key, completed)
	if err != nil {
		return "", withFile(err, fileName)
	}

	return downloadURL, nil
}

// uploadChunk PUTs one chunk to its presigned URL with retry and
// returns the unquoted ETag. A 2xx response without an ETag header is
// treated as a failed attempt and retried like any other error.
func (u *Uploader) uploadChunk(
	ctx context.Context,
	target string,
	data []byte,
	contentType string,
	retries int,
) (string, error) {
	var etag string

	err := u.retry(ctx, retries, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, transferTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPut, target, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%w: failed to build request: %v", fusionerrors.ErrTransport, err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := u.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %w", fusionerrors.ErrTransport, err)
		}
		defer resp.Body.Close()

		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("%w: unexpected status %d", fusionerrors.ErrTransport, resp.StatusCode)
		}

		etag = strings.Trim(resp.Header.Get("ETag"), `"`)
		if etag == "" {
			return fmt.Errorf("%w: no ETag in response", fusionerrors.ErrProtocol)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return etag, nil
}

// roundPercent rounds the completion ratio to two decimal places.
func roundPercent(uploaded, total int64) float64 {
	return math.Round(float64(uploaded)/float64(total)*10000) / 100
}
