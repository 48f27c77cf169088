package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	BaseURL   string
}

// MinIOStorage - self-hosted S3-совместимое хранилище.
// При создании проверяет связь и создает бакет, если его нет.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOStorage(ctx context.Context, opts MinIOOptions) (*MinIOStorage, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("minio credentials are required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &MinIOStorage{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (m *MinIOStorage) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if size <= 0 {
		size = -1
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (m *MinIOStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	// GetObject ленивый: ошибка "нет ключа" приходит только на Stat/Read
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isMinIONotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

func (m *MinIOStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIOStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinIONotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *MinIOStorage) GetURL(ctx context.Context, key string) (string, error) {
	return m.baseURL + "/" + key, nil
}

func (m *MinIOStorage) GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func isMinIONotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
