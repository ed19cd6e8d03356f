// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artistphere/internal/core/artist"
	"github.com/taibuivan/artistphere/internal/platform/media"
	"github.com/taibuivan/artistphere/pkg/pointer"
)

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var ptr = pointer.To[string]

// recordingUploader stands in for the image host.
type recordingUploader struct {
	mutex sync.Mutex
	url   string
	err   error
	calls int
}

func (uploader *recordingUploader) Upload(ctx context.Context, image *media.InlineImage) (string, error) {
	uploader.mutex.Lock()
	defer uploader.mutex.Unlock()
	uploader.calls++
	return uploader.url, uploader.err
}

func (uploader *recordingUploader) Calls() int {
	uploader.mutex.Lock()
	defer uploader.mutex.Unlock()
	return uploader.calls
}

type fixture struct {
	repo     *artist.MemoryRepository
	uploader *recordingUploader
	service  *artist.Service
	uploads  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := media.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	uploader := &recordingUploader{url: "https://res.example.com/artists/hosted.png"}
	resolver := media.NewResolver(uploader, store, discardLogger())
	repo := artist.NewMemoryRepository()

	return &fixture{
		repo:     repo,
		uploader: uploader,
		service:  artist.NewService(repo, resolver, discardLogger()),
		uploads:  store.Dir(),
	}
}

func (f *fixture) create(t *testing.T, name, img string) *artist.Artist {
	t.Helper()
	created, err := f.service.Create(context.Background(), &artist.Payload{Name: ptr(name), Img: ptr(img)})
	require.NoError(t, err)
	return created
}
