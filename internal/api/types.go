package api

// Wire types for the Fusion API. JSON field names are part of the wire
// contract and must not change.

// envelope is the common response wrapper for file-upload endpoints.
type envelope[T any] struct {
	Data T `json:"data"`
}

// PresignedTarget is the response payload of the single-file presign call.
type PresignedTarget struct {
	UploadURL   string            `json:"uploadURL"`
	Fields      map[string]string `json:"fields"`
	DownloadURL string            `json:"downloadURL"`
}

// MultipartUpload is the response payload of the create-multipart-upload call.
type MultipartUpload struct {
	UploadID string `json:"uploadID"`
	Key      string `json:"key"`
	PartSize int64  `json:"partSize"`
}

// PresignedPart is one entry of the batched presign response.
type PresignedPart struct {
	PartNumber int    `json:"partNumber"`
	UploadURL  string `json:"uploadURL"`
}

// CompletedPart identifies one uploaded chunk in the completion request.
type CompletedPart struct {
	PartNumber int    `json:"partNumber"`
	Etag       string `json:"etag"`
}

type singlePresignRequest struct {
	FileSuffix string `json:"fileSuffix"`
}

type createMultipartRequest struct {
	FileSuffix string `json:"fileSuffix"`
	FileSize   int64  `json:"fileSize"`
}

type presignPartsRequest struct {
	UploadID    string `json:"uploadID"`
	Key         string `json:"key"`
	PartNumbers []int  `json:"partNumbers"`
}

type completeMultipartRequest struct {
	UploadID string          `json:"uploadID"`
	Key      string          `json:"key"`
	Parts    []CompletedPart `json:"parts"`
}

type completeMultipartData struct {
	DownloadURL string `json:"downloadURL"`
}

// SubmitResult is the response payload of a task submission.
type SubmitResult struct {
	SessionID string `json:"sessionID"`
	Success   bool   `json:"success"`
}

// TaskStatusResult is the response payload of a task status probe.
type TaskStatusResult struct {
	State    string  `json:"state"`
	Data     any     `json:"data"`
	Error    string  `json:"error"`
	Progress float64 `json:"progress"`
}
