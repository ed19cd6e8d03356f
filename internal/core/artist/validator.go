// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/media"
	"github.com/taibuivan/artistphere/internal/platform/validate"
)

// Mode selects the rule set applied by [Validator.Validate].
type Mode int

const (
	// ModeCreate requires a name and an image input.
	ModeCreate Mode = iota
	// ModeUpdate requires nothing, but every present field must be well formed
	// and required fields may not be cleared.
	ModeUpdate
)

// ModeForUpsert is ModeCreate when no record matched the identity hint and
// ModeUpdate otherwise.
func ModeForUpsert(exists bool) Mode {
	if exists {
		return ModeUpdate
	}
	return ModeCreate
}

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// ImageClassifier tells the validator what kind of reference an img value is.
type ImageClassifier interface {
	Kind(ref string) media.Kind
}

// Validated is a payload that passed validation. Image still has to be
// resolved before Patch.ImageRef can be filled in.
type Validated struct {
	Patch Patch
	Image media.Input
}

// HasImage reports whether an image has to be resolved.
func (validated *Validated) HasImage() bool {
	return !validated.Image.Empty()
}

// Validator is the single rule set for artist payloads.
type Validator struct {
	images ImageClassifier
}

// NewValidator builds a validator that classifies image references with images.
func NewValidator(images ImageClassifier) *Validator {
	return &Validator{images: images}
}

// NormalizeName trims surrounding space and applies Unicode NFC so that
// visually identical names compare equal in the unique index.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

/*
Validate checks payload against the rules of mode and returns the normalised
patch. It never partially applies: either every field is accepted or an
error is returned.

Errors:
  - VALIDATION_ERROR naming the first offending field, with all of them in details.
  - MISSING_IMAGE when mode is ModeCreate and no image input is present.
*/
func (validator *Validator) Validate(payload *Payload, mode Mode) (*Validated, error) {
	check := &validate.Validator{}
	validated := &Validated{}
	patch := &validated.Patch

	// # Name
	if payload.Name != nil {
		name := NormalizeName(*payload.Name)
		check.UTF8(FieldName, *payload.Name).Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
		patch.Name = &name
	} else if mode == ModeCreate {
		check.Required(FieldName, "")
	}

	// # Image
	image := payload.Image()
	image.Ref = strings.TrimSpace(image.Ref)
	switch {
	case image.File != nil:
		validated.Image = media.Input{File: image.File}
	case payload.Img != nil && image.Ref == "" && mode == ModeUpdate:
		check.Custom(FieldImg, true, "Cannot be cleared")
	case image.Ref != "":
		check.UTF8(FieldImg, image.Ref)
		kind := validator.images.Kind(image.Ref)
		check.Custom(FieldImg, kind == media.KindInvalid, "Must be an http(s) URL, an upload path or an inline image")
		validated.Image = media.Input{Ref: image.Ref}
	}

	// # Free text
	patch.Bio = validator.text(check, FieldBio, payload.Bio)
	patch.Paragraph1 = validator.text(check, FieldParagraph1, payload.Paragraph1)
	patch.Paragraph2 = validator.text(check, FieldParagraph2, payload.Paragraph2)
	patch.Paragraph3 = validator.text(check, FieldParagraph3, payload.Paragraph3)
	patch.HitSong = validator.text(check, FieldHitSong, payload.HitSong)
	patch.Charity = validator.text(check, FieldCharity, payload.Charity)
	patch.AboutCharity = validator.text(check, FieldAboutCharity, payload.AboutCharity)

	// # Platform links
	if len(payload.PlatformLinks) > 0 {
		patch.PlatformLinks = make(PlatformLinks, len(payload.PlatformLinks))
		for key, value := range payload.PlatformLinks {
			field := FieldPlatformLinks + "." + key
			platform := strings.ToLower(strings.TrimSpace(key))
			if !IsPlatform(platform) {
				check.Custom(field, true, "Unknown platform")
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" {
				check.UTF8(field, value).URL(field, value).MaxLen(field, value, MaxLinkLength)
			}
			patch.PlatformLinks[Platform(platform)] = value
		}
	}

	if err := check.Err(); err != nil {
		return nil, err
	}

	if mode == ModeCreate && !validated.HasImage() {
		return nil, apperr.MissingImage(FieldImg)
	}

	return validated, nil
}

func (validator *Validator) text(check *validate.Validator, field string, value *string) *string {
	if value == nil {
		return nil
	}
	check.UTF8(field, *value).MaxLen(field, *value, MaxTextLength)
	return value
}
