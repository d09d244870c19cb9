package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const MaxMediaFiles = 10

var allowedMediaTypes = map[string]struct{}{
	"mp4": {}, "mov": {}, "jpg": {}, "png": {}, "gif": {},
}

type MediaService interface {
	Upload(ctx context.Context, actor models.Actor, files []*multipart.FileHeader) ([]*transfer.MediaUpload, error)
	Store(ctx context.Context, actor models.Actor, data []byte) (*transfer.MediaUpload, error)
}

type mediaService struct {
	storage StorageService
}

func NewMediaService(storage StorageService) MediaService {
	return &mediaService{storage: storage}
}

func (s *mediaService) Upload(ctx context.Context, actor models.Actor, files []*multipart.FileHeader) ([]*transfer.MediaUpload, error) {
	if len(files) == 0 {
		return nil, apperror.Invalid("no files provided")
	}
	if len(files) > MaxMediaFiles {
		return nil, apperror.Invalid("at most %d files can be uploaded at once", MaxMediaFiles)
	}

	uploads := make([]*transfer.MediaUpload, 0, len(files))
	for _, file := range files {
		data, err := readFile(file)
		if err != nil {
			return nil, err
		}
		upload, err := s.Store(ctx, actor, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Filename, err)
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}
	return data, nil
}

// Store sniffs the media type from the content and uploads it under a random key.
func (s *mediaService) Store(ctx context.Context, actor models.Actor, data []byte) (*transfer.MediaUpload, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return nil, apperror.Invalid("unsupported file type")
	}
	if _, ok := allowedMediaTypes[kind.Extension]; !ok {
		return nil, apperror.Invalid("file type %s is not allowed", kind.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key := fmt.Sprintf("media/%d/%s.%s", actor.UserID, id, kind.Extension)

	url, err := s.storage.Upload(ctx, key, data, kind.MIME.Value)
	if err != nil {
		return nil, err
	}
	return &transfer.MediaUpload{
		Key:         key,
		URL:         url,
		ContentType: kind.MIME.Value,
		Size:        int64(len(data)),
	}, nil
}
