// Package exports persists delimited-text report exports and hands back a
// time limited download link.
package exports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ContentType of every stored export
const ContentType = "text/csv"

// Store persists an export and returns a URL it can be downloaded from
type Store interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinioConfig locates the bucket exports are written to
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLTTL    time.Duration
}

// MinioStore keeps exports in a MinIO or S3 compatible bucket
type MinioStore struct {
	client objectAPI
	bucket string
	ttl    time.Duration
}

// NewMinioStore connects to the endpoint and creates the bucket when missing
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		zap.S().Infow("created export bucket", "bucket", cfg.Bucket)
	}
	return newMinioStore(client, cfg.Bucket, cfg.URLTTL), nil
}

func newMinioStore(client objectAPI, bucket string, ttl time.Duration) *MinioStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &MinioStore{client: client, bucket: bucket, ttl: ttl}
}

// Save uploads content under an object name derived from name and returns a
// presigned download URL
func (s *MinioStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	object := ObjectName(name, time.Now())
	_, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: ContentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	u, err := s.client.PresignedGetObject(ctx, s.bucket, object, s.ttl, params)
	if err != nil {
		return "", fmt.Errorf("failed to presign export: %w", err)
	}
	return u.String(), nil
}

// ObjectName places an export under a dated prefix with a unique id so
// repeated exports never overwrite each other
func ObjectName(name string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s-%s", at.UTC().Format("2006-01-02"), uuid.New().String(), name)
}
