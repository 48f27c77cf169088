package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"hireflow_backend/internal/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage - хранилище загруженных документов (резюме, брошюры, офферы)
type Storage interface {
	// Save сохраняет объект под ключом key
	Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetURL - постоянная публичная ссылка
	GetURL(ctx context.Context, key string) (string, error)

	// GetSignedURL - временная ссылка для приватных бакетов
	GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Kind - раздел хранилища по типу документа
type Kind string

const (
	KindResume      Kind = "resumes"
	KindBrochure    Kind = "brochures"
	KindOfferLetter Kind = "offer-letters"
)

// ObjectKey строит ключ вида resumes/<ownerID>/<uuid>.pdf
func ObjectKey(kind Kind, ownerID, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(string(kind), ownerID, name)
}

// New создает хранилище по storage.type
func New(cfg *config.Config) (Storage, error) {
	sc := cfg.Storage
	switch sc.Type {
	case "", "local":
		return NewLocalStorage(sc.BasePath, sc.BaseURL)
	case "s3":
		return NewS3Storage(S3Options{
			Bucket:    sc.Bucket,
			Region:    sc.Region,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
			Endpoint:  sc.Endpoint,
			BaseURL:   sc.BaseURL,
		})
	case "cloudflare_r2":
		return NewCloudflareR2Storage(S3Options{
			Bucket:    sc.Bucket,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
			Endpoint:  sc.Endpoint,
			BaseURL:   sc.BaseURL,
		})
	case "minio":
		return NewMinIOStorage(context.Background(), MinIOOptions{
			Endpoint:  sc.Endpoint,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
			Bucket:    sc.Bucket,
			UseSSL:    sc.UseSSL,
			BaseURL:   sc.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", sc.Type)
	}
}
