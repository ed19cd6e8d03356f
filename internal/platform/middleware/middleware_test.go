// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/ctxutil"
	"github.com/taibuivan/artistphere/internal/platform/middleware"
	"github.com/taibuivan/artistphere/internal/platform/respond"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var envelope respond.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

/*
TestCORS_AllowList checks allowed, refused, absent and pre-flight origins.
*/
func TestCORS_AllowList(t *testing.T) {
	handler := middleware.CORS([]string{"https://artistphere.onrender.com", "http://localhost:3000"})(okHandler)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantHeader string
	}{
		{"allowed_origin", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"no_origin", http.MethodGet, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://artistphere.onrender.com", http.StatusNoContent, "https://artistphere.onrender.com"},
		{"foreign_origin", http.MethodGet, "https://evil.example", http.StatusForbidden, ""},
		{"suffix_is_not_enough", http.MethodGet, "http://localhost:3000.evil.example", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/api/artists", nil)
			if tt.origin != "" {
				request.Header.Set("Origin", tt.origin)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantHeader, recorder.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantStatus == http.StatusForbidden {
				envelope := decodeEnvelope(t, recorder)
				assert.False(t, envelope.Success)
				assert.Equal(t, "CORS Error: Access Denied", envelope.Message)
			}
		})
	}
}

/*
TestRequestID_PropagatesAndGenerates verifies both the echo and the generated path.
*/
func TestRequestID_PropagatesAndGenerates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "client-id", seen)
}

/*
TestMaxBody rejects declared and streamed oversize bodies.
*/
func TestMaxBody(t *testing.T) {
	var readErr error
	handler := middleware.MaxBody(8)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, readErr = io.ReadAll(request.Body)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	request.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), request)
	var maxBytesError *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxBytesError)
}

type fakeHealth struct {
	healthy bool
	err     error
}

func (f fakeHealth) Healthy() bool    { return f.healthy }
func (f fakeHealth) LastError() error { return f.err }

/*
TestRequireStorage short-circuits with 503 while the store is down.
*/
func TestRequireStorage(t *testing.T) {
	down := middleware.RequireStorage(fakeHealth{healthy: false, err: errors.New("dial tcp: refused")})(okHandler)
	recorder := httptest.NewRecorder()
	down.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/artists", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, apperr.CodeStorageUnavailable, decodeEnvelope(t, recorder).Error)

	up := middleware.RequireStorage(fakeHealth{healthy: true})(okHandler)
	recorder = httptest.NewRecorder()
	up.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/artists", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestPanicRecovery converts a panic into the 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.False(t, decodeEnvelope(t, recorder).Success)
}

/*
TestRateLimit rejects once the per-IP burst is spent.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", "203.0.113.7")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

/*
TestSecurityHeaders sets the nosniff header on every response.
*/
func TestSecurityHeaders(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.SecurityHeaders()(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
}
