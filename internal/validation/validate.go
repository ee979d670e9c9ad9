package validation

import (
	"fmt"
	"sort"
	"strings"

	fusionerrors "github.com/oomol-lab/fusion-sdk-go/errors"
)

// MaxFileSize is the hard ceiling for a single upload (500 MiB).
const MaxFileSize = 500 * 1024 * 1024

// supportedFileTypes maps lowercase file extensions to their MIME type.
// Extensions outside this allow-list are rejected before any network
// call; content sniffing is deliberately not used.
var supportedFileTypes = map[string]string{
	// Images
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	// Audio/Video
	"mp3": "audio/mpeg",
	"mp4": "video/mp4",
	// Documents
	"txt":  "text/plain",
	"md":   "text/markdown",
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	// Data
	"csv":  "text/csv",
	"json": "application/json",
	"zip":  "application/zip",
}

// Extension extracts the lowercase extension (without the dot) from a
// file name. Returns ErrValidation if the name carries no extension.
func Extension(fileName string) (string, error) {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return "", fusionerrors.NewFileError("validate", fileName, fusionerrors.ErrValidation).
			WithMessage("file name must have an extension")
	}

	return strings.ToLower(fileName[idx+1:]), nil
}

// ContentType resolves the MIME type for a file name from the fixed
// allow-list. Returns ErrValidation for missing or unsupported extensions.
func ContentType(fileName string) (string, error) {
	ext, err := Extension(fileName)
	if err != nil {
		return "", err
	}

	contentType, ok := supportedFileTypes[ext]
	if !ok {
		return "", fusionerrors.NewFileError("validate", fileName, fusionerrors.ErrValidation).
			WithMessage(fmt.Sprintf("unsupported file type: .%s (supported: %s)", ext, supportedExtensions()))
	}

	return contentType, nil
}

// CheckFileSize enforces the MaxFileSize ceiling.
func CheckFileSize(fileName string, size int64) error {
	if size > MaxFileSize {
		return &fusionerrors.FileTooLargeError{
			File:     fileName,
			FileSize: size,
			MaxSize:  MaxFileSize,
		}
	}

	return nil
}

func supportedExtensions() string {
	exts := make([]string, 0, len(supportedFileTypes))
	for ext := range supportedFileTypes {
		exts = append(exts, ext)
	}

	sort.Strings(exts)

	return strings.Join(exts, ", ")
}
