// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/validate"
)

// Uploader stores an inline image somewhere public and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, image *InlineImage) (string, error)
}

// Saver writes an uploaded binary and returns the public path it is served at.
type Saver interface {
	Save(ctx context.Context, filename string, content []byte) (string, error)
	SaveStream(ctx context.Context, upload *FileUpload) (string, error)
	Prefix() string
}

// Resolver is the image ingestion entry point used by the artist service.
type Resolver struct {
	uploader Uploader
	saver    Saver
	logger   *slog.Logger
}

// NewResolver wires the remote uploader and the local content store.
func NewResolver(uploader Uploader, saver Saver, logger *slog.Logger) *Resolver {
	return &Resolver{uploader: uploader, saver: saver, logger: logger}
}

// Kind classifies ref against this resolver's local prefix.
func (resolver *Resolver) Kind(ref string) Kind {
	return Classify(ref, resolver.saver.Prefix())
}

// Resolve produces the reference to persist for in.
//
// Errors:
//   - MISSING_IMAGE when in carries nothing.
//   - VALIDATION_ERROR for references that are neither URL, local path nor inline image.
//   - UPLOAD_FAILED when the image host or the disk write fails.
func (resolver *Resolver) Resolve(ctx context.Context, in Input) (string, error) {
	if in.File != nil {
		return resolver.saveFile(ctx, in.File)
	}

	if in.Empty() {
		return "", apperr.MissingImage(FieldImage)
	}

	switch resolver.Kind(in.Ref) {
	case KindURL, KindLocalPath:
		return in.Ref, nil
	case KindInline:
		return resolver.uploadInline(ctx, in.Ref)
	default:
		return "", validate.FieldError(FieldImage, "Must be an http(s) URL, an upload path or an inline image")
	}
}

func (resolver *Resolver) uploadInline(ctx context.Context, ref string) (string, error) {
	image, err := ParseInline(ref)
	if err != nil {
		return "", err
	}

	hostedURL, err := resolver.uploader.Upload(ctx, image)
	if err != nil {
		return "", asUploadFailure(err)
	}

	resolver.logger.InfoContext(ctx, "image_uploaded",
		slog.String("media_type", image.MediaType),
		slog.Int("bytes", len(image.Data)),
		slog.String("url", hostedURL),
	)
	return hostedURL, nil
}

func (resolver *Resolver) saveFile(ctx context.Context, upload *FileUpload) (string, error) {
	path, err := resolver.saver.SaveStream(ctx, upload)
	if err != nil {
		return "", asUploadFailure(err)
	}

	resolver.logger.InfoContext(ctx, "image_saved",
		slog.String("original_name", upload.Filename),
		slog.String("path", path),
	)
	return path, nil
}

// asUploadFailure keeps client errors (e.g. "not an image") as they are and
// classifies everything else as UPLOAD_FAILED.
func asUploadFailure(err error) error {
	if ae := apperr.As(err); ae != nil && ae.HTTPStatus < 500 {
		return ae
	}
	if errors.Is(err, apperr.ErrUploadFailed) {
		return err
	}
	return apperr.UploadFailure(err)
}
