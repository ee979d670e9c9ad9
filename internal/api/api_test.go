package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "test-token", server.Client())
}

func TestRequestHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"data":{"uploadURL":"https://s3","fields":{},"downloadURL":"https://cdn"}}`))
	})

	_, err := client.GeneratePresignedURL(context.Background(), "png")
	require.NoError(t, err)
}

func TestGeneratePresignedURL(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/file-upload/action/generate-presigned-url", r.URL.Path)

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"fileSuffix":"png"}`, string(body))

			_, _ = w.Write([]byte(`{
				"data": {
					"uploadURL": "https://s3.example.com/upload",
					"fields": {"key": "uploads/x.png"},
					"downloadURL": "https://cdn.example.com/x.png"
				}
			}`))
		})

		target, err := client.GeneratePresignedURL(context.Background(), "png")
		require.NoError(t, err)
		assert.Equal(t, "https://s3.example.com/upload", target.UploadURL)
		assert.Equal(t, "uploads/x.png", target.Fields["key"])
		assert.Equal(t, "https://cdn.example.com/x.png", target.DownloadURL)
	})

	t.Run("missing upload URL", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"downloadURL":"https://cdn"}}`))
		})

		_, err := client.GeneratePresignedURL(context.Background(), "png")
		require.Error(t, err)
		assert.True(t, fusionerrors.IsProtocol(err))
	})

	t.Run("non-200 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.GeneratePresignedURL(context.Background(), "png")
		require.Error(t, err)
		assert.True(t, fusionerrors.IsTransport(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := client.GeneratePresignedURL(context.Background(), "png")
		require.Error(t, err)
		assert.True(t, fusionerrors.IsProtocol(err))
	})
}

func TestCreateMultipartUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/file-upload/action/create-multipart-upload", r.URL.Path)

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"fileSuffix":"zip","fileSize":1048576}`, string(body))

			_, _ = w.Write([]byte(`{"data":{"uploadID":"up-1","key":"k-1","partSize":5242880}}`))
		})

		session, err := client.CreateMultipartUpload(context.Background(), "zip", 1048576)
		require.NoError(t, err)
		assert.Equal(t, "up-1", session.UploadID)
		assert.Equal(t, "k-1", session.Key)
		assert.Equal(t, int64(5242880), session.PartSize)
	})

	t.Run("missing upload ID", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"key":"k-1"}}`))
		})

		_, err := client.CreateMultipartUpload(context.Background(), "zip", 1)
		require.Error(t, err)
		assert.True(t, fusionerrors.IsProtocol(err))
	})
}

func TestGeneratePresignedURLs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file-upload/action/generate-presigned-urls", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"uploadID":"up-1","key":"k-1","partNumbers":[1,2]}`, string(body))

		_, _ = w.Write([]byte(`{"data":[
			{"partNumber":1,"uploadURL":"https://s3/1"},
			{"partNumber":2,"uploadURL":"https://s3/2"}
		]}`))
	})

	parts, err := client.GeneratePresignedURLs(context.Background(), "up-1", "k-1", []int{1, 2})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, 1, parts[0].PartNumber)
	assert.Equal(t, "https://s3/2", parts[1].UploadURL)
}

func TestCompleteMultipartUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/file-upload/action/complete-multipart-upload", r.URL.Path)

			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{
				"uploadID": "up-1",
				"key": "k-1",
				"parts": [{"partNumber":1,"etag":"e1"},{"partNumber":2,"etag":"e2"}]
			}`, string(body))

			_, _ = w.Write([]byte(`{"data":{"downloadURL":"https://cdn.example.com/x.zip"}}`))
		})

		url, err := client.CompleteMultipartUpload(context.Background(), "up-1", "k-1",
			[]CompletedPart{{PartNumber: 1, Etag: "e1"}, {PartNumber: 2, Etag: "e2"}})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/x.zip", url)
	})

	t.Run("missing download URL", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{}}`))
		})

		_, err := client.CompleteMultipartUpload(context.Background(), "up-1", "k-1", nil)
		require.Error(t, err)
		assert.True(t, fusionerrors.IsProtocol(err))
	})
}

func TestSubmitTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/fal-nano-banana-pro/submit", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var inputs map[string]any
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, sonic.Unmarshal(raw, &inputs))
			assert.Equal(t, "a red panda", inputs["prompt"])

			_, _ = w.Write([]byte(`{"sessionID":"s-42","success":true}`))
		})

		result, err := client.SubmitTask(context.Background(), "fal-nano-banana-pro",
			map[string]any{"prompt": "a red panda"})
		require.NoError(t, err)
		assert.Equal(t, "s-42", result.SessionID)
		assert.True(t, result.Success)
	})

	t.Run("non-200 is a submit error with the raw body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":"out of credits"}`))
		})

		_, err := client.SubmitTask(context.Background(), "svc", nil)
		require.Error(t, err)

		var submitErr *fusionerrors.TaskSubmitError
		require.True(t, errors.As(err, &submitErr))
		assert.Equal(t, http.StatusPaymentRequired, submitErr.StatusCode)
		assert.Contains(t, submitErr.Response, "out of credits")
	})
}

func TestTaskStatus(t *testing.T) {
	t.Run("200 with result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/svc/result/s-42", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)

			_, _ = w.Write([]byte(`{"state":"completed","data":{"url":"https://cdn/x.png"},"progress":100}`))
		})

		status, err := client.TaskStatus(context.Background(), "svc", "s-42")
		require.NoError(t, err)
		assert.Equal(t, "completed", status.State)
		assert.Equal(t, float64(100), status.Progress)
	})

	t.Run("202 while still running", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"state":"processing","progress":30}`))
		})

		status, err := client.TaskStatus(context.Background(), "svc", "s-42")
		require.NoError(t, err)
		assert.Equal(t, "processing", status.State)
		assert.Equal(t, float64(30), status.Progress)
	})

	t.Run("unexpected status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.TaskStatus(context.Background(), "svc", "missing")
		require.Error(t, err)
		assert.True(t, fusionerrors.IsTransport(err))
	})
}
