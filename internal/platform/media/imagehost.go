// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
)

// ImageHostOptions configures [ImageHost].
type ImageHostOptions struct {
	// APIURL is the upload API prefix, e.g. "https://api.cloudinary.com".
	// Empty keeps the SDK default.
	APIURL    string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	// Timeout bounds one upload end to end.
	Timeout time.Duration
}

// ImageHost uploads inline images to Cloudinary through its Go SDK.
type ImageHost struct {
	client  *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

// NewImageHost builds the SDK client from options.
func NewImageHost(options ImageHostOptions) (*ImageHost, error) {
	configuration, err := config.NewFromParams(options.CloudName, options.APIKey, options.APISecret)
	if err != nil {
		return nil, fmt.Errorf("image host: configure: %w", err)
	}
	if options.APIURL != "" {
		configuration.API.UploadPrefix = options.APIURL
	}

	client, err := cloudinary.NewFromConfiguration(*configuration)
	if err != nil {
		return nil, fmt.Errorf("image host: create client: %w", err)
	}

	return &ImageHost{client: client, folder: options.Folder, timeout: options.Timeout}, nil
}

// Upload sends the data URI and returns the hosted https URL.
//
// Any failure, including the timeout, is an UPLOAD_FAILED error.
func (host *ImageHost) Upload(ctx context.Context, image *InlineImage) (string, error) {
	if host.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, host.timeout)
		defer cancel()
	}

	result, err := host.client.Upload.Upload(ctx, image.Raw, uploader.UploadParams{Folder: host.folder})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperr.UploadFailure(fmt.Errorf("image host: timed out after %s: %w", host.timeout, err))
		}
		return "", apperr.UploadFailure(fmt.Errorf("image host: %w", err))
	}

	if result.Error.Message != "" {
		return "", apperr.UploadFailure(fmt.Errorf("image host: %s", result.Error.Message))
	}

	hosted := result.SecureURL
	if hosted == "" {
		hosted = result.URL
	}
	if hosted == "" {
		return "", apperr.UploadFailure(errors.New("image host: response carried no URL"))
	}

	return hosted, nil
}
