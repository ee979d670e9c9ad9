package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
	"github.com/oomol-lab/fusion-sdk-go/fusiontypes"
	"github.com/oomol-lab/fusion-sdk-go/internal/api"
)

// uploadSingle performs a single-shot upload through one presigned POST
// target. The presign call happens exactly once; only the storage POST
// itself is retried.
func (u *Uploader) uploadSingle(
	ctx context.Context,
	data []byte,
	fileName, fileSuffix, contentType string,
	cfg *fusiontypes.UploadConfig,
) (string, error) {
	target, err := u.api.GeneratePresignedURL(ctx, fileSuffix)
	if err != nil {
		return "", withFile(err, fileName)
	}

	if cfg.OnProgress != nil {
		cfg.OnProgress(fusiontypes.Percentage(50))
	}

	err = u.retry(ctx, cfg.Retries, func() error {
		return u.postForm(ctx, target, data, fileName, contentType)
	})
	if err != nil {
		return "", fusionerrors.NewFileError("upload", fileName,
			fmt.Errorf("upload failed after %d attempts: %w", cfg.Retries+1, err))
	}

	if cfg.OnProgress != nil {
		cfg.OnProgress(fusiontypes.Percentage(100))
	}

	return target.DownloadURL, nil
}

// postForm sends the payload to the presigned target as a multipart
// form. The presigned fields are written first, then the file part, as
// storage backends reject forms with fields after the file.
func (u *Uploader) postForm(
	ctx context.Context,
	target *api.PresignedTarget,
	data []byte,
	fileName, contentType string,
) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	for name, value := range target.Fields {
		if err := form.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write file part: %w", err)
	}

	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, target.UploadURL, &buf)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", fusionerrors.ErrTransport, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", fusionerrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status %d", fusionerrors.ErrTransport, resp.StatusCode)
	}

	return nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
