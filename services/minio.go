package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"github.com/edemey4711/MID/config"
)

// presignedExpiry bounds how long a generated download link stays valid.
const presignedExpiry = 7 * 24 * time.Hour

// MinioStore keeps assets in an S3-compatible bucket; browsers fetch them
// through presigned GET URLs.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Minio.Bucket, err)
		}
		log.WithField("bucket", cfg.Minio.Bucket).Info("created storage bucket")
	}

	return &MinioStore{client: client, bucket: cfg.Minio.Bucket}, nil
}

func objectName(prefix, name string) string {
	return prefix + "/" + name
}

func (s *MinioStore) Put(ctx context.Context, prefix, name string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName(prefix, name), reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioStore) Get(ctx context.Context, prefix, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(prefix, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; surface missing objects here instead of at first read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (s *MinioStore) Remove(ctx context.Context, prefix, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName(prefix, name), minio.RemoveObjectOptions{})
}

func (s *MinioStore) URL(ctx context.Context, prefix, name string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectName(prefix, name), presignedExpiry, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
