package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Options struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	BaseURL   string
}

// S3Storage работает с AWS S3 и S3-совместимым Cloudflare R2
type S3Storage struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

func NewS3Storage(opts S3Options) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required for S3 storage")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	awsConfig := &aws.Config{Region: aws.String(opts.Region)}
	if opts.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, "")
	}
	if opts.Endpoint != "" {
		awsConfig.Endpoint = aws.String(opts.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	}
	return newS3Storage(awsConfig, opts.Bucket, baseURL)
}

// NewCloudflareR2Storage - endpoint вида https://<account_id>.r2.cloudflarestorage.com
func NewCloudflareR2Storage(opts S3Options) (*S3Storage, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("endpoint is required for Cloudflare R2")
	}
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required for Cloudflare R2")
	}

	awsConfig := &aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(opts.Endpoint),
		Credentials:      credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.r2.dev", opts.Bucket)
	}
	return newS3Storage(awsConfig, opts.Bucket, baseURL)
}

func newS3Storage(awsConfig *aws.Config, bucket, baseURL string) (*S3Storage, error) {
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return &S3Storage{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object: %w", err)
	}
	return true, nil
}

func (s *S3Storage) GetURL(ctx context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}

func (s *S3Storage) GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign object url: %w", err)
	}
	return url, nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
