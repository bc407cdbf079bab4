package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/forecaster"
)

const bundleObjectKey = "trendwise/model_bundle.json"

// ObjectStore persists the bundle as a single JSON object in S3-compatible
// storage.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint must be provided")
	}
	if cfg.S3Access == "" || cfg.S3Secret == "" {
		return nil, fmt.Errorf("s3 credentials must be provided")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must be provided")
	}

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3Access, cfg.S3Secret, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	return &ObjectStore{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *ObjectStore) Load(ctx context.Context) (forecaster.Bundle, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, bundleObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get model bundle object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return make(forecaster.Bundle), nil
		}
		return nil, fmt.Errorf("read model bundle object: %w", err)
	}

	var bundle forecaster.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode model bundle object: %w", err)
	}
	return bundle, nil
}

func (s *ObjectStore) Save(ctx context.Context, bundle forecaster.Bundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode model bundle: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, bundleObjectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put model bundle object: %w", err)
	}
	return nil
}

var _ forecaster.Store = (*ObjectStore)(nil)
