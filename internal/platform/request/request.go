// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/validate"
)

// multipartMemory is how much of a multipart body is buffered in RAM before
// spilling file parts to temporary files.
const multipartMemory = 8 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Unknown fields are rejected so that only allow-listed fields ever reach the
service layer.

Returns:
  - error: VALIDATION_ERROR naming the offending field, PAYLOAD_TOO_LARGE,
    or validate.ErrInvalidJSON
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return classifyDecodeError(err)
	}

	if decoder.More() {
		return validate.ErrInvalidJSON
	}

	return nil
}

/*
IsMultipart reports whether the request carries a multipart/form-data body.
*/
func IsMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

/*
ParseMultipart parses a multipart/form-data body, spilling large parts to disk.
*/
func ParseMultipart(request *http.Request) error {
	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return apperr.PayloadTooLarge(maxBytesError.Limit)
		}
		return apperr.ValidationError("Invalid multipart payload")
	}
	return nil
}

/*
FormValue returns a multipart text field and whether the field was sent at all.
*/
func FormValue(request *http.Request, name string) (string, bool) {
	if request.MultipartForm == nil {
		return "", false
	}
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// classifyDecodeError turns encoding/json failures into field-level errors.
func classifyDecodeError(err error) error {
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		return apperr.PayloadTooLarge(maxBytesError.Limit)
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := typeError.Field
		if field == "" {
			return validate.ErrInvalidJSON
		}
		return validate.FieldError(field, "Must be a "+typeError.Type.String())
	}

	const unknownPrefix = "json: unknown field "
	if message := err.Error(); strings.HasPrefix(message, unknownPrefix) {
		field := strings.Trim(strings.TrimPrefix(message, unknownPrefix), `"`)
		return validate.FieldError(field, "Unknown field")
	}

	return validate.ErrInvalidJSON
}
