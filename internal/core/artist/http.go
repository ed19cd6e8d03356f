// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/media"
	requestutil "github.com/taibuivan/artistphere/internal/platform/request"
	"github.com/taibuivan/artistphere/internal/platform/respond"
	"github.com/taibuivan/artistphere/pkg/pagination"
	"github.com/taibuivan/artistphere/pkg/uuid"
)

// fileParts are the multipart parts that may carry the image binary.
var fileParts = []string{media.FieldImage, "image"}

// Handler exposes the artist service over HTTP.
type Handler struct {
	service         *Service
	defaultPageSize int
}

// NewHandler creates a handler. defaultPageSize applies when "limit" is absent.
func NewHandler(service *Service, defaultPageSize int) *Handler {
	return &Handler{service: service, defaultPageSize: defaultPageSize}
}

// RegisterRoutes mounts the artist routes on router (typically "/api/artists").
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listArtists)
	router.Post("/", handler.createArtist)
	router.Put("/", handler.upsertArtist)
	router.Post("/batch", handler.createArtists)

	router.Get("/{id}", handler.getArtist)
	router.Patch("/{id}", handler.updateArtist)
	router.Put("/{id}", handler.upsertArtist)
	router.Delete("/{id}", handler.deleteArtist)
}

func (handler *Handler) listArtists(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request, handler.defaultPageSize)

	artists, total, err := handler.service.List(request.Context(), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, artists, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getArtist(writer http.ResponseWriter, request *http.Request) {
	artistID, err := parseID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artist, err := handler.service.Get(request.Context(), artistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artist)
}

func (handler *Handler) createArtist(writer http.ResponseWriter, request *http.Request) {
	payload, cleanup, err := decodePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	artist, err := handler.service.Create(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, artist)
}

func (handler *Handler) createArtists(writer http.ResponseWriter, request *http.Request) {
	var payloads []*Payload
	if err := requestutil.DecodeJSON(request, &payloads); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.CreateBatch(request.Context(), payloads)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := http.StatusCreated
	if len(result.Created) == 0 {
		status = http.StatusBadRequest
	}
	respond.Status(writer, status, result, fmt.Sprintf("Created %d of %d artists", len(result.Created), len(payloads)))
}

func (handler *Handler) updateArtist(writer http.ResponseWriter, request *http.Request) {
	artistID, err := parseID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, cleanup, err := decodePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	artist, err := handler.service.Update(request.Context(), artistID, payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artist)
}

// upsertArtist serves both PUT /artists (identity from the body) and
// PUT /artists/{id}.
func (handler *Handler) upsertArtist(writer http.ResponseWriter, request *http.Request) {
	var identity Identity
	if requestutil.ID(request, "id") != "" {
		artistID, err := parseID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		identity.ID = artistID
	}

	payload, cleanup, err := decodePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	if identity.ID == "" && payload.ID != nil {
		canonical, ok := uuid.Parse(*payload.ID)
		if !ok {
			respond.Error(writer, request, invalidID())
			return
		}
		payload.ID = &canonical
	}

	result, err := handler.service.Upsert(request.Context(), identity, payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := http.StatusOK
	if result.WasCreated {
		status = http.StatusCreated
	}
	respond.Status(writer, status, result, "")
}

func (handler *Handler) deleteArtist(writer http.ResponseWriter, request *http.Request) {
	artistID, err := parseID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	artist, err := handler.service.Delete(request.Context(), artistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, artist)
}

// # Decoding

// parseID reads the {id} path parameter and rejects anything that is not a
// UUID before the store is touched.
func parseID(request *http.Request) (string, error) {
	canonical, ok := uuid.Parse(requestutil.ID(request, "id"))
	if !ok {
		return "", invalidID()
	}
	return canonical, nil
}

func invalidID() error {
	return apperr.ValidationError("Invalid artist ID", apperr.FieldError{Field: FieldID, Message: "Must be a valid UUID"})
}

/*
decodePayload reads a JSON or multipart/form-data body into a [Payload].

Multipart bodies are read through an allow-list: only the known text fields
and the "img"/"image" file part are looked at. "platformLinks" is a JSON
object encoded as a string.

The returned cleanup closes the file part and removes spilled temp files.
*/
func decodePayload(request *http.Request) (*Payload, func(), error) {
	noop := func() {}

	if !requestutil.IsMultipart(request) {
		payload := &Payload{}
		if err := requestutil.DecodeJSON(request, payload); err != nil {
			return nil, noop, err
		}
		return payload, noop, nil
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		return nil, noop, err
	}
	form := request.MultipartForm
	cleanup := func() { _ = form.RemoveAll() }

	payload := &Payload{}
	text := func(field string) *string {
		if value, ok := requestutil.FormValue(request, field); ok {
			return &value
		}
		return nil
	}
	payload.ID = text(FieldID)
	payload.Name = text(FieldName)
	payload.Img = text(FieldImg)
	payload.Bio = text(FieldBio)
	payload.Paragraph1 = text(FieldParagraph1)
	payload.Paragraph2 = text(FieldParagraph2)
	payload.Paragraph3 = text(FieldParagraph3)
	payload.HitSong = text(FieldHitSong)
	payload.Charity = text(FieldCharity)
	payload.AboutCharity = text(FieldAboutCharity)

	if raw := text(FieldPlatformLinks); raw != nil && *raw != "" {
		if err := json.Unmarshal([]byte(*raw), &payload.PlatformLinks); err != nil {
			cleanup()
			return nil, noop, apperr.ValidationError("Validation failed: platformLinks: Must be a JSON object",
				apperr.FieldError{Field: FieldPlatformLinks, Message: "Must be a JSON object"})
		}
	}

	for _, part := range fileParts {
		headers := form.File[part]
		if len(headers) == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			cleanup()
			return nil, noop, apperr.ValidationError("Unreadable file part")
		}
		payload.ImageFile = &media.FileUpload{Filename: headers[0].Filename, Content: file}
		return payload, func() {
			_ = file.Close()
			cleanup()
		}, nil
	}

	return payload, cleanup, nil
}
