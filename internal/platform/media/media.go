// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media turns any accepted image input into a stable reference string.

Accepted inputs:

  - An absolute http(s) URL, returned unchanged (no reachability check).
  - A path under the local upload prefix (e.g. "/uploads/x.png"), returned unchanged.
  - An inline "data:image/<type>;base64,<payload>" value, forwarded to the
    image host; the hosted URL is returned.
  - A multipart file part, written to the local content directory under a
    generated name; the public path is returned.

The only side effects are the remote upload and the disk write. Neither is
retried here.
*/
package media

import (
	"encoding/base64"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/artistphere/internal/platform/validate"
)

// Kind classifies a textual image reference.
type Kind int

const (
	KindInvalid Kind = iota
	KindURL
	KindLocalPath
	KindInline
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindLocalPath:
		return "local_path"
	case KindInline:
		return "inline"
	default:
		return "invalid"
	}
}

// Input is the raw image material of one request. At most one of Ref and
// File is expected; File wins when both are present.
type Input struct {
	Ref  string
	File *FileUpload
}

// Empty reports whether the request carried no image at all.
func (in Input) Empty() bool {
	return in.File == nil && strings.TrimSpace(in.Ref) == ""
}

// FileUpload is one uploaded binary. Content is read exactly once.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// InlineImage is a decoded data-URI payload.
type InlineImage struct {
	MediaType string
	Data      []byte
	// Raw is the original data URI, forwarded verbatim to the image host.
	Raw string
}

const inlinePrefix = "data:"

// Classify reports what kind of reference ref is, given the public prefix
// local uploads are served under. It only checks syntax.
func Classify(ref, localPrefix string) Kind {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return KindInvalid
	case strings.HasPrefix(ref, inlinePrefix):
		if _, _, ok := splitDataURI(ref); ok {
			return KindInline
		}
		return KindInvalid
	case validate.IsHTTPURL(ref):
		return KindURL
	case isLocalPath(ref, localPrefix):
		return KindLocalPath
	default:
		return KindInvalid
	}
}

// ParseInline decodes a data URI and checks that the bytes really are an image.
func ParseInline(ref string) (*InlineImage, error) {
	mediaType, payload, ok := splitDataURI(strings.TrimSpace(ref))
	if !ok {
		return nil, validate.FieldError(FieldImage, "Must be a data:image/<type>;base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, validate.FieldError(FieldImage, "Inline image is not valid base64")
		}
	}

	if len(data) == 0 {
		return nil, validate.FieldError(FieldImage, "Inline image is empty")
	}

	detected := mimetype.Detect(data)
	if !isImage(detected) {
		return nil, validate.FieldError(FieldImage, "Inline payload is not an image ("+detected.String()+")")
	}

	return &InlineImage{MediaType: mediaType, Data: data, Raw: strings.TrimSpace(ref)}, nil
}

// FieldImage is the request field that carries image input.
const FieldImage = "img"

// splitDataURI extracts the media type and base64 payload of
// "data:image/<type>;base64,<payload>".
func splitDataURI(ref string) (mediaType, payload string, ok bool) {
	header, payload, found := strings.Cut(strings.TrimPrefix(ref, inlinePrefix), ",")
	if !found || payload == "" {
		return "", "", false
	}

	mediaType, encoding, found := strings.Cut(header, ";")
	if !found || encoding != "base64" {
		return "", "", false
	}

	mediaType = strings.ToLower(mediaType)
	if !strings.HasPrefix(mediaType, "image/") || len(mediaType) == len("image/") {
		return "", "", false
	}

	return mediaType, payload, true
}

// isLocalPath accepts "<prefix>/<name>" with no traversal segments.
func isLocalPath(ref, localPrefix string) bool {
	if localPrefix == "" || !strings.HasPrefix(ref, localPrefix+"/") {
		return false
	}
	cleaned := path.Clean(ref)
	return cleaned == ref && cleaned != localPrefix && !strings.Contains(ref, "..")
}

func isImage(detected *mimetype.MIME) bool {
	for current := detected; current != nil; current = current.Parent() {
		if strings.HasPrefix(current.String(), "image/") {
			return true
		}
	}
	return false
}
