package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	config "github.com/maheshrc27/socialflow/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Client(url string) *s3.Client {
	return s3.New(s3.Options{
		Region:           "auto",
		BaseEndpoint:     aws.String(url),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
		Credentials:      credentials.NewStaticCredentialsProvider("key", "secret", ""),
	})
}

func TestR2Upload(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage := NewS3Storage(testS3Client(srv.URL), "media", "https://cdn.example/")
	url, err := storage.Upload(context.Background(), "media/1/abc.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/media/1/abc.png", url)
	assert.Equal(t, "/media/media/1/abc.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("png"), gotBody)
}

func TestR2UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>nope</Message></Error>`)
	}))
	defer srv.Close()

	storage := NewS3Storage(testS3Client(srv.URL), "media", "https://cdn.example")
	_, err := storage.Upload(context.Background(), "k", []byte("x"), "text/plain")
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNewR2ServiceNeedsConfig(t *testing.T) {
	_, err := NewR2Service(context.Background(), config.R2{})
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}
