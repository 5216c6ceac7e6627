package miniostore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage sube imágenes y PDFs a un bucket S3-compatible y devuelve la URL
// pública del objeto.
type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func New(cfg Config) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

func (s *Storage) Store(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	object := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), strings.ReplaceAll(strings.TrimSpace(filename), " ", "_"))
	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + object, nil
}
