package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
)

type BucketService interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	cdnDomain     string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := os.Getenv("CDN_DOMAIN")
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if saPath == "" {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, storage client falls back to ADC")
	}
	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucket,
		cdnDomain:     cdnDomain,
	}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	o := bs.storageClient.Bucket(bs.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
