// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/media"
	"github.com/taibuivan/artistphere/internal/platform/validate"
	"github.com/taibuivan/artistphere/pkg/pagination"
	"github.com/taibuivan/artistphere/pkg/pointer"
)

// MaxBatchSize caps the number of items in one batch create.
const MaxBatchSize = 100

// ImageResolver turns image input into a stored reference.
type ImageResolver interface {
	ImageClassifier
	Resolve(ctx context.Context, in media.Input) (string, error)
}

// Service orchestrates validate → resolve image → persist for every
// artist operation.
type Service struct {
	repo      Repository
	images    ImageResolver
	validator *Validator
	logger    *slog.Logger
}

// NewService wires the store, the image resolver and the logger.
func NewService(repo Repository, images ImageResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		images:    images,
		validator: NewValidator(images),
		logger:    logger,
	}
}

// # Reads

func (service *Service) List(context context.Context, params pagination.Params) ([]*Artist, int, error) {
	return service.repo.List(context, params.Limit, params.Offset())
}

func (service *Service) Get(context context.Context, id string) (*Artist, error) {
	return service.repo.GetByID(context, id)
}

// # Writes

/*
Create validates payload in create mode, resolves its image and persists a
new record.

Errors:
  - VALIDATION_ERROR, MISSING_IMAGE, DUPLICATE_NAME
  - UPLOAD_FAILED when the image could not be stored; nothing is persisted
  - STORAGE_UNAVAILABLE, INTERNAL_ERROR
*/
func (service *Service) Create(context context.Context, payload *Payload) (*Artist, error) {
	if payload.ID != nil {
		return nil, validate.FieldError(FieldID, "Assigned by the server")
	}

	validated, err := service.validator.Validate(payload, ModeCreate)
	if err != nil {
		return nil, err
	}

	// Skip the upload when the name is obviously taken. The store still
	// enforces uniqueness on write.
	if _, err := service.repo.GetByName(context, *validated.Patch.Name); err == nil {
		return nil, apperr.DuplicateName(*validated.Patch.Name)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := service.resolveImage(context, validated); err != nil {
		return nil, err
	}

	created, err := service.repo.Create(context, NewArtist(&validated.Patch))
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "artist_created",
		slog.String("artist_id", created.ID),
		slog.String("name", created.Name),
	)
	return created, nil
}

/*
CreateBatch runs every item through [Service.Create] independently. One
item's failure does not stop the others.
*/
func (service *Service) CreateBatch(context context.Context, payloads []*Payload) (*BatchResult, error) {
	if len(payloads) == 0 {
		return nil, apperr.ValidationError("Request body must be a non-empty array of artist objects")
	}
	if len(payloads) > MaxBatchSize {
		return nil, apperr.ValidationError(fmt.Sprintf("At most %d artists per batch", MaxBatchSize))
	}

	result := &BatchResult{Created: []*Artist{}, Failed: []BatchFailure{}}
	for index, payload := range payloads {
		if payload == nil {
			payload = &Payload{}
		}

		created, err := service.Create(context, payload)
		if err != nil {
			// The remaining items would fail the same way.
			if errors.Is(err, apperr.ErrStorageUnavailable) {
				return nil, err
			}

			appError := apperr.As(err)
			if appError == nil {
				appError = apperr.Internal(err)
			}
			result.Failed = append(result.Failed, BatchFailure{
				Index:   index,
				Name:    pointer.Val(payload.Name),
				Code:    appError.Code,
				Message: appError.Message,
			})
			continue
		}
		result.Created = append(result.Created, created)
	}

	service.logger.InfoContext(context, "artist_batch_created",
		slog.Int("created", len(result.Created)),
		slog.Int("failed", len(result.Failed)),
	)
	return result, nil
}

/*
Update merges the fields present in payload into the record with the given
id. Absent fields are left untouched; required fields cannot be cleared.
*/
func (service *Service) Update(context context.Context, id string, payload *Payload) (*Artist, error) {
	if payload.ID != nil && *payload.ID != id {
		return nil, validate.FieldError(FieldID, "Cannot be changed")
	}

	validated, err := service.validator.Validate(payload, ModeUpdate)
	if err != nil {
		return nil, err
	}

	// Fail before uploading anything for a record that does not exist.
	if _, err := service.repo.GetByID(context, id); err != nil {
		return nil, err
	}

	if err := service.resolveImage(context, validated); err != nil {
		return nil, err
	}

	updated, err := service.repo.Update(context, id, &validated.Patch)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "artist_updated", slog.String("artist_id", updated.ID))
	return updated, nil
}

/*
Upsert updates the record matched by identity, or creates one when nothing
matches. The identity is the id when given, otherwise the name.

The payload is validated in update mode when a record matched and in create
mode otherwise. An id that matches nothing creates a record with a fresh id,
failing with DUPLICATE_NAME when the name is taken. Two concurrent upserts
for the same name never create two records.
*/
func (service *Service) Upsert(context context.Context, identity Identity, payload *Payload) (*UpsertResult, error) {
	if identity.ID == "" && payload.ID != nil {
		identity.ID = *payload.ID
	}
	if identity.ID != "" && payload.ID != nil && *payload.ID != identity.ID {
		return nil, validate.FieldError(FieldID, "Does not match the id in the path")
	}
	if identity.ID != "" && !validate.IsUUID(identity.ID) {
		return nil, validate.FieldError(FieldID, "Must be a valid UUID")
	}
	if identity.ID == "" && payload.Name != nil {
		identity.Name = NormalizeName(*payload.Name)
	}
	if identity.ID == "" && identity.Name == "" {
		return nil, validate.FieldError(FieldName, "An id or a name is required")
	}

	existing, err := service.lookup(context, identity)
	if err != nil {
		return nil, err
	}

	// The id is an identity hint, never a field to write.
	payload.ID = nil

	validated, err := service.validator.Validate(payload, ModeForUpsert(existing != nil))
	if err != nil {
		return nil, err
	}
	if err := service.resolveImage(context, validated); err != nil {
		return nil, err
	}

	var (
		stored  *Artist
		created bool
	)
	switch {
	case existing != nil && identity.ID != "":
		stored, err = service.repo.Update(context, existing.ID, &validated.Patch)
	case existing != nil:
		stored, err = service.repo.UpdateByName(context, existing.Name, &validated.Patch)
	case identity.ID != "":
		// An unknown id never adopts another record by name.
		stored, err = service.repo.Create(context, NewArtist(&validated.Patch))
		created = err == nil
	default:
		stored, created, err = service.repo.Upsert(context, NewArtist(&validated.Patch), &validated.Patch)
	}
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "artist_upserted",
		slog.String("artist_id", stored.ID),
		slog.Bool("was_created", created),
	)
	return &UpsertResult{Artist: stored, WasCreated: created}, nil
}

// Delete hard-removes the record. Its image is left where it is.
func (service *Service) Delete(context context.Context, id string) (*Artist, error) {
	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return nil, err
	}

	service.logger.WarnContext(context, "artist_deleted",
		slog.String("artist_id", deleted.ID),
		slog.String("name", deleted.Name),
	)
	return deleted, nil
}

// # Helpers

// lookup returns the record matching identity, or nil when none does.
func (service *Service) lookup(context context.Context, identity Identity) (*Artist, error) {
	var (
		existing *Artist
		err      error
	)
	if identity.ID != "" {
		existing, err = service.repo.GetByID(context, identity.ID)
	} else {
		existing, err = service.repo.GetByName(context, identity.Name)
	}

	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return existing, err
}

// resolveImage fills Patch.ImageRef when the payload carried image input.
func (service *Service) resolveImage(context context.Context, validated *Validated) error {
	if !validated.HasImage() {
		return nil
	}
	ref, err := service.images.Resolve(context, validated.Image)
	if err != nil {
		return err
	}
	validated.Patch.ImageRef = &ref
	return nil
}
