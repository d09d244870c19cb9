package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	config "github.com/maheshrc27/socialflow/configs"
)

var ErrStorageNotConfigured = errors.New("object storage is not configured")

type StorageService interface {
	// Upload stores body under key and returns its public URL.
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type R2Service struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Service connects to Cloudflare R2 through its S3-compatible API.
func NewR2Service(ctx context.Context, cfg config.R2) (*R2Service, error) {
	if cfg.AccountID == "" || cfg.BucketName == "" {
		return nil, ErrStorageNotConfigured
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})
	return NewS3Storage(client, cfg.BucketName, cfg.PublicURL), nil
}

func NewS3Storage(client *s3.Client, bucket, publicURL string) *R2Service {
	return &R2Service{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (r *R2Service) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	if _, err := r.client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", r.publicURL, key), nil
}
