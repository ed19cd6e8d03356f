// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/artistphere/internal/platform/validate"
	"github.com/taibuivan/artistphere/pkg/uuid"
)

// sniffLen is how many leading bytes are inspected to detect the file type.
const sniffLen = 3072

var extensionRegex = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// LocalStore writes uploads into one flat directory under UUIDv7 names.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates dir if needed. prefix is the public URL path the
// directory is served under (e.g. "/uploads").
func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (store *LocalStore) Dir() string { return store.dir }

// Prefix returns the public path prefix.
func (store *LocalStore) Prefix() string { return store.prefix }

// Save writes an in-memory image.
func (store *LocalStore) Save(ctx context.Context, filename string, content []byte) (string, error) {
	return store.SaveStream(ctx, &FileUpload{Filename: filename, Content: bytes.NewReader(content)})
}

// SaveStream sniffs the head of the upload, refuses non-images, and streams
// the rest to disk. The file only appears under its final name once fully
// written.
func (store *LocalStore) SaveStream(ctx context.Context, upload *FileUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("media: read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", validate.FieldError(FieldImage, "Uploaded file is empty")
	}

	detected := mimetype.Detect(head)
	if !isImage(detected) {
		return "", validate.FieldError(FieldImage, "Uploaded file is not an image ("+detected.String()+")")
	}

	name := uuid.New() + extensionFor(upload.Filename, detected)

	temp, err := os.CreateTemp(store.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("media: create temp file: %w", err)
	}
	tempName := temp.Name()
	defer func() {
		// No-op once renamed.
		_ = os.Remove(tempName)
	}()

	if _, err := io.Copy(temp, io.MultiReader(bytes.NewReader(head), upload.Content)); err != nil {
		_ = temp.Close()
		return "", fmt.Errorf("media: write upload: %w", err)
	}
	if err := temp.Close(); err != nil {
		return "", fmt.Errorf("media: close upload: %w", err)
	}

	if err := os.Rename(tempName, filepath.Join(store.dir, name)); err != nil {
		return "", fmt.Errorf("media: publish upload: %w", err)
	}

	return store.prefix + "/" + name, nil
}

// extensionFor keeps the client's extension when it looks sane and falls
// back to the one implied by the detected type.
func extensionFor(filename string, detected *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if extensionRegex.MatchString(ext) {
		return ext
	}
	return detected.Extension()
}

// LocalUploader satisfies [Uploader] by writing inline images to disk. It is
// used when no image host is configured.
type LocalUploader struct {
	store *LocalStore
}

// NewLocalUploader wraps store.
func NewLocalUploader(store *LocalStore) *LocalUploader {
	return &LocalUploader{store: store}
}

// Upload writes the decoded image and returns its public path.
func (uploader *LocalUploader) Upload(ctx context.Context, image *InlineImage) (string, error) {
	return uploader.store.Save(ctx, "", image.Data)
}
