package upload

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oomol-lab/fusion-sdk-go/internal/api"
)

// mockAPI implements api.API with per-call function fields. Calls with
// a nil field fail loudly so tests only exercise what they stub.
type mockAPI struct {
	generatePresignedURL    func(ctx context.Context, fileSuffix string) (*api.PresignedTarget, error)
	createMultipartUpload   func(ctx context.Context, fileSuffix string, fileSize int64) (*api.MultipartUpload, error)
	generatePresignedURLs   func(ctx context.Context, uploadID, key string, partNumbers []int) ([]api.PresignedPart, error)
	completeMultipartUpload func(ctx context.Context, uploadID, key string, parts []api.CompletedPart) (string, error)
	submitTask              func(ctx context.Context, service string, inputs map[string]any) (*api.SubmitResult, error)
	taskStatus              func(ctx context.Context, service, sessionID string) (*api.TaskStatusResult, error)
}

var errUnexpectedCall = errors.New("unexpected API call")

func (m *mockAPI) GeneratePresignedURL(ctx context.Context, fileSuffix string) (*api.PresignedTarget, error) {
	if m.generatePresignedURL == nil {
		return nil, errUnexpectedCall
	}
	return m.generatePresignedURL(ctx, fileSuffix)
}

func (m *mockAPI) CreateMultipartUpload(ctx context.Context, fileSuffix string, fileSize int64) (*api.MultipartUpload, error) {
	if m.createMultipartUpload == nil {
		return nil, errUnexpectedCall
	}
	return m.createMultipartUpload(ctx, fileSuffix, fileSize)
}

func (m *mockAPI) GeneratePresignedURLs(ctx context.Context, uploadID, key string, partNumbers []int) ([]api.PresignedPart, error) {
	if m.generatePresignedURLs == nil {
		return nil, errUnexpectedCall
	}
	return m.generatePresignedURLs(ctx, uploadID, key, partNumbers)
}

func (m *mockAPI) CompleteMultipartUpload(ctx context.Context, uploadID, key string, parts []api.CompletedPart) (string, error) {
	if m.completeMultipartUpload == nil {
		return "", errUnexpectedCall
	}
	return m.completeMultipartUpload(ctx, uploadID, key, parts)
}

func (m *mockAPI) SubmitTask(ctx context.Context, service string, inputs map[string]any) (*api.SubmitResult, error) {
	if m.submitTask == nil {
		return nil, errUnexpectedCall
	}
	return m.submitTask(ctx, service, inputs)
}

func (m *mockAPI) TaskStatus(ctx context.Context, service, sessionID string) (*api.TaskStatusResult, error) {
	if m.taskStatus == nil {
		return nil, errUnexpectedCall
	}
	return m.taskStatus(ctx, service, sessionID)
}

// newTestUploader builds an Uploader over the mock with millisecond
// backoff so retry paths stay fast.
func newTestUploader(m *mockAPI) *Uploader {
	u := New(m, &http.Client{})
	u.backoffUnit = time.Millisecond
	return u
}
