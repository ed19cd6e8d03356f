// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artistphere/internal/core/artist"
	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/pkg/pagination"
)

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Meta    *pagination.Meta    `json:"meta"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Details []apperr.FieldError `json:"details"`
}

func newRouter(t *testing.T) (http.Handler, *fixture) {
	t.Helper()
	f := newFixture(t)

	router := chi.NewRouter()
	router.Route("/api/artists", artist.NewHandler(f.service, 20).RegisterRoutes)
	return router, f
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder, decoded
}

func decodeArtist(t *testing.T, raw json.RawMessage) artist.Artist {
	t.Helper()
	var decoded artist.Artist
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

/*
TestHandler_CreateAndDuplicate covers the basic create scenario end to end.
*/
func TestHandler_CreateAndDuplicate(t *testing.T) {
	router, _ := newRouter(t)

	recorder, body := doJSON(t, router, http.MethodPost, "/api/artists", `{"name":"Aria","img":"https://x/y.png"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, body.Success)

	created := decodeArtist(t, body.Data)
	assert.Equal(t, "Aria", created.Name)
	assert.Equal(t, "https://x/y.png", created.ImageRef)
	assert.NotEmpty(t, created.ID)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &raw))
	for _, key := range []string{"id", "name", "imageRef", "bio", "paragraph1", "hitSong", "aboutCharity", "platformLinks", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, key)
	}

	recorder, body = doJSON(t, router, http.MethodPost, "/api/artists", `{"name":"Aria","img":"https://x/z.png"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, body.Success)
	assert.Equal(t, apperr.CodeDuplicateName, body.Error)
	assert.NotEmpty(t, body.Message)
}

/*
TestHandler_CreateRejections maps bad bodies to 400s.
*/
func TestHandler_CreateRejections(t *testing.T) {
	router, _ := newRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"unknown_field", `{"name":"Aria","img":"https://x/y.png","role":"admin"}`, apperr.CodeValidation},
		{"wrong_type", `{"name":42,"img":"https://x/y.png"}`, apperr.CodeValidation},
		{"malformed", `{"name":`, apperr.CodeValidation},
		{"missing_image", `{"name":"Aria"}`, apperr.CodeMissingImage},
		{"bad_image", `{"name":"Aria","img":"javascript:alert(1)"}`, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := doJSON(t, router, http.MethodPost, "/api/artists", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

/*
TestHandler_GetUpdateDelete walks one record through its lifecycle.
*/
func TestHandler_GetUpdateDelete(t *testing.T) {
	router, f := newRouter(t)
	aria := f.create(t, "Aria", "https://x/y.png")
	path := "/api/artists/" + aria.ID

	recorder, _ := doJSON(t, router, http.MethodGet, "/api/artists/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder, body := doJSON(t, router, http.MethodGet, "/api/artists/0190a000-0000-7000-8000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, apperr.CodeNotFound, body.Error)

	recorder, body = doJSON(t, router, http.MethodGet, "/api/artists/"+strings.ToUpper(aria.ID), "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, aria.ID, decodeArtist(t, body.Data).ID)

	recorder, body = doJSON(t, router, http.MethodPatch, path, `{"hitSong":"Skyline"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	updated := decodeArtist(t, body.Data)
	assert.Equal(t, "Skyline", updated.HitSong)
	assert.Equal(t, "https://x/y.png", updated.ImageRef)

	recorder, _ = doJSON(t, router, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHandler_List carries pagination metadata.
*/
func TestHandler_List(t *testing.T) {
	router, f := newRouter(t)
	for i := 1; i <= 12; i++ {
		f.create(t, fmt.Sprintf("Artist %02d", i), "https://x/y.png")
	}

	recorder, body := doJSON(t, router, http.MethodGet, "/api/artists?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 5, Total: 12, TotalPages: 3}, *body.Meta)

	var page []artist.Artist
	require.NoError(t, json.Unmarshal(body.Data, &page))
	require.Len(t, page, 5)
	assert.Equal(t, "Artist 07", page[0].Name)

	_, body = doJSON(t, router, http.MethodGet, "/api/artists?page=40", "")
	assert.JSONEq(t, `[]`, string(body.Data))

	recorder, body = doJSON(t, router, http.MethodGet, "/api/artists?page=500000000000000000&limit=20", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, string(body.Data))
	assert.Equal(t, 12, body.Meta.Total)
}

/*
TestHandler_Upsert answers 201 on create and 200 on update.
*/
func TestHandler_Upsert(t *testing.T) {
	router, _ := newRouter(t)

	recorder, body := doJSON(t, router, http.MethodPut, "/api/artists", `{"name":"Aria","img":"https://x/y.png"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var first artist.UpsertResult
	require.NoError(t, json.Unmarshal(body.Data, &first))
	assert.True(t, first.WasCreated)

	recorder, body = doJSON(t, router, http.MethodPut, "/api/artists", `{"name":"Aria","bio":"Singer"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var second artist.UpsertResult
	require.NoError(t, json.Unmarshal(body.Data, &second))
	assert.False(t, second.WasCreated)
	assert.Equal(t, first.Artist.ID, second.Artist.ID)

	recorder, body = doJSON(t, router, http.MethodPut, "/api/artists/"+first.Artist.ID, `{"hitSong":"Skyline"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = doJSON(t, router, http.MethodPut, "/api/artists", `{"id":"nope","bio":"x"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_Batch reports per-item outcomes.
*/
func TestHandler_Batch(t *testing.T) {
	router, _ := newRouter(t)

	recorder, body := doJSON(t, router, http.MethodPost, "/api/artists/batch",
		`[{"name":"Aria","img":"https://x/a.png"},{"name":"Aria","img":"https://x/b.png"}]`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var result artist.BatchResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Len(t, result.Created, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, apperr.CodeDuplicateName, result.Failed[0].Code)

	recorder, body = doJSON(t, router, http.MethodPost, "/api/artists/batch", `[{"name":"Aria","img":"https://x/a.png"}]`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, body.Success)

	recorder, _ = doJSON(t, router, http.MethodPost, "/api/artists/batch", `{"name":"Aria"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_MultipartCreate stores the file part locally.
*/
func TestHandler_MultipartCreate(t *testing.T) {
	router, _ := newRouter(t)

	var buffer bytes.Buffer
	form := multipart.NewWriter(&buffer)
	require.NoError(t, form.WriteField("name", "Aria"))
	require.NoError(t, form.WriteField("hitSong", "Skyline"))
	require.NoError(t, form.WriteField("platformLinks", `{"twitch":"https://twitch.tv/aria"}`))
	require.NoError(t, form.WriteField("ignored", "value"))
	part, err := form.CreateFormFile("image", "aria.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/artists", &buffer)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	created := decodeArtist(t, body.Data)
	assert.True(t, strings.HasPrefix(created.ImageRef, "/uploads/"))
	assert.True(t, strings.HasSuffix(created.ImageRef, ".png"))
	assert.Equal(t, "Skyline", created.HitSong)
	assert.Equal(t, "https://twitch.tv/aria", created.PlatformLinks[artist.Twitch])
}

/*
TestHandler_MultipartInvalidUTF8 answers 400 for malformed text parts.
*/
func TestHandler_MultipartInvalidUTF8(t *testing.T) {
	router, f := newRouter(t)

	var buffer bytes.Buffer
	form := multipart.NewWriter(&buffer)
	require.NoError(t, form.WriteField("name", "Ari\xffa"))
	require.NoError(t, form.WriteField("img", "https://x/y.png"))
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/api/artists", &buffer)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeValidation, body.Error)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, artist.FieldName, body.Details[0].Field)
	assert.Zero(t, f.repo.Len())
}
