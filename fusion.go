package fusion

import (
	"context"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
	"github.com/oomol-lab/fusion-sdk-go/internal/validation"
)

// UploadFile uploads the content of source under fileName and returns
// the public download URL. The file type is resolved from the name's
// extension against a fixed allow-list, and the size is checked against
// the 500 MiB ceiling; both happen before any network call.
//
// Files below the multipart threshold upload in one shot through a
// presigned form POST. Larger files use the multipart protocol with
// bounded chunk concurrency and per-chunk retry.
//
// Example:
//
//	url, err := client.UploadFile(ctx, fusiontypes.FromPath("demo.png"), "demo.png",
//	    fusion.WithProgress(func(u fusiontypes.ProgressUpdate) {
//	        if p, ok := u.(fusiontypes.UploadProgress); ok {
//	            fmt.Printf("%d/%d chunks\n", p.UploadedChunks, p.TotalChunks)
//	        }
//	    }),
//	)
func (c *Client) UploadFile(
	ctx context.Context,
	source fusiontypes.Source,
	fileName string,
	opts ...fusiontypes.UploadOption,
) (string, error) {
	cfg := fusiontypes.UploadConfig{
		MaxConcurrentUploads: DefaultMaxConcurrentUploads,
		MultipartThreshold:   DefaultMultipartThreshold,
		Retries:              DefaultRetries,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	contentType, err := validation.ContentType(fileName)
	if err != nil {
		return "", err
	}

	// Cannot fail once ContentType has accepted the name.
	fileSuffix, _ := validation.Extension(fileName)

	size, err := source.Size()
	if err != nil {
		return "", fusionerrors.NewFileError("upload", fileName, err)
	}

	if err := validation.CheckFileSize(fileName, size); err != nil {
		return "", err
	}

	data, err := source.ReadAll()
	if err != nil {
		return "", fusionerrors.NewFileError("upload", fileName, err)
	}

	return c.uploader.Upload(ctx, data, fileName, fileSuffix, contentType, &cfg)
}
