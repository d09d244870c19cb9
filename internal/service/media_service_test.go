package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), make([]byte, 32)...)
	gifData = append([]byte("GIF89a"), make([]byte, 32)...)
	pdfData = append([]byte("%PDF-1.4\n"), make([]byte, 32)...)
)

func TestMediaStore(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	media := NewMediaService(storage)
	actor := models.Actor{UserID: 42}

	up, err := media.Store(ctx, actor, pngData)
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, "media/42/"))
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, "https://cdn.example/"+up.Key, up.URL)
	assert.Equal(t, int64(len(pngData)), up.Size)
	assert.Equal(t, pngData, storage.objects[up.Key])

	_, err = media.Store(ctx, actor, pdfData)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	_, err = media.Store(ctx, actor, []byte("just some text"))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = NewMediaService(nil).Store(ctx, actor, pngData)
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func multipartFiles(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func TestMediaUpload(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	media := NewMediaService(storage)
	actor := models.Actor{UserID: 1}

	uploads, err := media.Upload(ctx, actor, multipartFiles(t, map[string][]byte{"a.png": pngData, "b.gif": gifData}))
	require.NoError(t, err)
	assert.Len(t, uploads, 2)
	assert.Len(t, storage.objects, 2)

	_, err = media.Upload(ctx, actor, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = media.Upload(ctx, actor, multipartFiles(t, map[string][]byte{"doc.pdf": pdfData}))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Contains(t, err.Error(), "doc.pdf")

	tooMany := make([]*multipart.FileHeader, MaxMediaFiles+1)
	_, err = media.Upload(ctx, actor, tooMany)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
