// Package testutil provides a fake Fusion backend for tests. It serves
// the authorized API endpoints and the storage endpoints its presigned
// URLs point back at, recording every request so tests can assert call
// counts, ordering, and uploaded bytes.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

// TaskReply is one scripted response of the task status endpoint. The
// last entry repeats once the script is exhausted.
type TaskReply struct {
	Code int
	Body string
}

// FakeFusion emulates the Fusion API for a single upload session and
// one task session ("s-42").
type FakeFusion struct {
	*httptest.Server

	// PartSize is reported by create-multipart-upload. Set before the
	// first request; zero means the server omits it.
	PartSize int64

	// TaskStatuses scripts the status endpoint. Set before the first poll.
	TaskStatuses []TaskReply

	mu       sync.Mutex
	requests []string
	chunks   map[int][]byte
	polls    int
}

// NewFakeFusion starts the fake backend and registers its shutdown
// with the test's cleanup.
func NewFakeFusion(t testing.TB) *FakeFusion {
	t.Helper()

	f := &FakeFusion{chunks: map[int][]byte{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/file-upload/action/generate-presigned-url", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.reply(t, w, map[string]any{
			"data": map[string]any{
				"uploadURL":   f.URL + "/storage/single",
				"fields":      map[string]string{"key": "uploads/demo"},
				"downloadURL": "https://cdn.example.com/single",
			},
		})
	})

	mux.HandleFunc("POST /v1/file-upload/action/create-multipart-upload", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.reply(t, w, map[string]any{
			"data": map[string]any{"uploadID": "up-1", "key": "k-1", "partSize": f.PartSize},
		})
	})

	mux.HandleFunc("POST /v1/file-upload/action/generate-presigned-urls", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		var req struct {
			PartNumbers []int `json:"partNumbers"`
		}
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(raw, &req))

		targets := make([]map[string]any, len(req.PartNumbers))
		for i, n := range req.PartNumbers {
			targets[i] = map[string]any{
				"partNumber": n,
				"uploadURL":  fmt.Sprintf("%s/storage/part/%d", f.URL, n),
			}
		}
		f.reply(t, w, map[string]any{"data": targets})
	})

	mux.HandleFunc("POST /v1/file-upload/action/complete-multipart-upload", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.reply(t, w, map[string]any{
			"data": map[string]any{"downloadURL": "https://cdn.example.com/multipart"},
		})
	})

	mux.HandleFunc("POST /storage/single", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("PUT /storage/part/{n}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		var n int
		_, err := fmt.Sscanf(r.PathValue("n"), "%d", &n)
		require.NoError(t, err)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		f.mu.Lock()
		f.chunks[n] = body
		f.mu.Unlock()

		w.Header().Set("ETag", fmt.Sprintf("%q", fmt.Sprintf("etag-%d", n)))
	})

	mux.HandleFunc("POST /v1/{service}/submit", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_, _ = w.Write([]byte(`{"sessionID":"s-42","success":true}`))
	})

	mux.HandleFunc("GET /v1/{service}/result/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)

		if len(f.TaskStatuses) == 0 {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		f.mu.Lock()
		i := f.polls
		if i >= len(f.TaskStatuses) {
			i = len(f.TaskStatuses) - 1
		}
		f.polls++
		f.mu.Unlock()

		reply := f.TaskStatuses[i]
		w.WriteHeader(reply.Code)
		_, _ = w.Write([]byte(reply.Body))
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// BaseURL is the value to hand the client's WithBaseURL option.
func (f *FakeFusion) BaseURL() string {
	return f.URL + "/v1"
}

// RequestCount returns how many requests of any kind were served.
func (f *FakeFusion) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Saw reports whether a "METHOD /path" request was served.
func (f *FakeFusion) Saw(req string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == req {
			return true
		}
	}
	return false
}

// Chunk returns the bytes stored for the given part number.
func (f *FakeFusion) Chunk(n int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[n]
}

func (f *FakeFusion) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *FakeFusion) reply(t testing.TB, w http.ResponseWriter, body any) {
	raw, err := sonic.Marshal(body)
	require.NoError(t, err)
	_, _ = w.Write(raw)
}
