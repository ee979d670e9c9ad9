// Package api implements the authorized HTTP interface to the Fusion
// backend. It owns the wire contract: request/response JSON shapes,
// required status codes, auth and correlation headers, and the fixed
// per-request timeout.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
)

// requestTimeout bounds every API round trip. Transfers to presigned
// storage URLs are not routed through this client and have their own,
// longer timeout.
const requestTimeout = 30 * time.Second

// API is the set of Fusion backend calls used by the SDK. It exists so
// the upload and task layers can be exercised against fakes.
type API interface {
	// GeneratePresignedURL acquires a single-file presigned upload target.
	GeneratePresignedURL(ctx context.Context, fileSuffix string) (*PresignedTarget, error)

	// CreateMultipartUpload opens a multipart upload session.
	CreateMultipartUpload(ctx context.Context, fileSuffix string, fileSize int64) (*MultipartUpload, error)

	// GeneratePresignedURLs acquires presigned targets for the given part numbers.
	GeneratePresignedURLs(ctx context.Context, uploadID, key string, partNumbers []int) ([]PresignedPart, error)

	// CompleteMultipartUpload finalizes a multipart upload and returns the download URL.
	CompleteMultipartUpload(ctx context.Context, uploadID, key string, parts []CompletedPart) (string, error)

	// SubmitTask submits a task to a service.
	SubmitTask(ctx context.Context, service string, inputs map[string]any) (*SubmitResult, error)

	// TaskStatus probes the current status of a task session.
	TaskStatus(ctx context.Context, service, sessionID string) (*TaskStatusResult, error)
}

// Client is the concrete API implementation. The embedded http.Client
// is shared across all calls for connection pooling and is safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client for the given base URL and bearer token.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// GeneratePresignedURL implements the API interface.
func (c *Client) GeneratePresignedURL(ctx context.Context, fileSuffix string) (*PresignedTarget, error) {
	var resp envelope[PresignedTarget]

	err := c.postJSON(ctx, "file-upload/action/generate-presigned-url",
		singlePresignRequest{FileSuffix: fileSuffix}, &resp)
	if err != nil {
		return nil, fusionerrors.NewError("generatePresignedURL", err)
	}

	if resp.Data.UploadURL == "" || resp.Data.DownloadURL == "" {
		return nil, fusionerrors.NewError("generatePresignedURL", fusionerrors.ErrProtocol).
			WithMessage("invalid presigned URL response")
	}

	return &resp.Data, nil
}

// CreateMultipartUpload implements the API interface.
func (c *Client) CreateMultipartUpload(
	ctx context.Context,
	fileSuffix string,
	fileSize int64,
) (*MultipartUpload, error) {
	var resp envelope[MultipartUpload]

	err := c.postJSON(ctx, "file-upload/action/create-multipart-upload",
		createMultipartRequest{FileSuffix: fileSuffix, FileSize: fileSize}, &resp)
	if err != nil {
		return nil, fusionerrors.NewError("createMultipartUpload", err)
	}

	if resp.Data.UploadID == "" || resp.Data.Key == "" {
		return nil, fusionerrors.NewError("createMultipartUpload", fusionerrors.ErrProtocol).
			WithMessage("invalid multipart upload response")
	}

	return &resp.Data, nil
}

// GeneratePresignedURLs implements the API interface.
func (c *Client) GeneratePresignedURLs(
	ctx context.Context,
	uploadID, key string,
	partNumbers []int,
) ([]PresignedPart, error) {
	var resp envelope[[]PresignedPart]

	err := c.postJSON(ctx, "file-upload/action/generate-presigned-urls",
		presignPartsRequest{UploadID: uploadID, Key: key, PartNumbers: partNumbers}, &resp)
	if err != nil {
		return nil, fusionerrors.NewError("generatePresignedURLs", err)
	}

	return resp.Data, nil
}

// CompleteMultipartUpload implements the API interface.
func (c *Client) CompleteMultipartUpload(
	ctx context.Context,
	uploadID, key string,
	parts []CompletedPart,
) (string, error) {
	var resp envelope[completeMultipartData]

	err := c.postJSON(ctx, "file-upload/action/complete-multipart-upload",
		completeMultipartRequest{UploadID: uploadID, Key: key, Parts: parts}, &resp)
	if err != nil {
		return "", fusionerrors.NewError("completeMultipartUpload", err)
	}

	if resp.Data.DownloadURL == "" {
		return "", fusionerrors.NewError("completeMultipartUpload", fusionerrors.ErrProtocol).
			WithMessage("no download URL in complete response")
	}

	return resp.Data.DownloadURL, nil
}

// SubmitTask implements the API interface.
func (c *Client) SubmitTask(
	ctx context.Context,
	service string,
	inputs map[string]any,
) (*SubmitResult, error) {
	body, err := sonic.Marshal(inputs)
	if err != nil {
		return nil, fusionerrors.NewError("submit", fmt.Errorf("failed to encode inputs: %w", err))
	}

	resp, raw, err := c.do(ctx, http.MethodPost, service+"/submit", body)
	if err != nil {
		return nil, fusionerrors.NewError("submit", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &fusionerrors.TaskSubmitError{
			StatusCode: resp.StatusCode,
			Response:   string(raw),
		}
	}

	var result SubmitResult
	if err := sonic.Unmarshal(raw, &result); err != nil {
		return nil, fusionerrors.NewError("submit", fusionerrors.ErrProtocol).
			WithMessage(fmt.Sprintf("failed to decode response: %v", err))
	}

	return &result, nil
}

// TaskStatus implements the API interface.
func (c *Client) TaskStatus(ctx context.Context, service, sessionID string) (*TaskStatusResult, error) {
	resp, raw, err := c.do(ctx, http.MethodGet, service+"/result/"+sessionID, nil)
	if err != nil {
		return nil, fusionerrors.NewError("taskStatus", err)
	}

	// 202 means the task is still queued or running.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fusionerrors.NewError("taskStatus", fusionerrors.ErrTransport).
			WithMessage(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var result TaskStatusResult
	if err := sonic.Unmarshal(raw, &result); err != nil {
		return nil, fusionerrors.NewError("taskStatus", fusionerrors.ErrProtocol).
			WithMessage(fmt.Sprintf("failed to decode response: %v", err))
	}

	return &result, nil
}

// postJSON performs an authorized POST and decodes the response body
// into out. Any status other than 200 is a transport failure.
func (c *Client) postJSON(ctx context.Context, path string, reqBody, out any) error {
	body, err := sonic.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, raw, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", fusionerrors.ErrTransport, resp.StatusCode)
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", fusionerrors.ErrProtocol, err)
	}

	return nil
}

// do performs one authorized round trip and drains the response body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to build request: %v", fusionerrors.ErrTransport, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Preserve the chain so context cancellation stays detectable.
		return nil, nil, fmt.Errorf("%w: %w", fusionerrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %v", fusionerrors.ErrTransport, err)
	}

	return resp, raw, nil
}
