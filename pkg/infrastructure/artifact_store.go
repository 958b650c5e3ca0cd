package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// objectKey prefixes the download name with a timestamp so repeated exports
// of the same CV do not overwrite each other.
func objectKey(name string, now time.Time) string {
	return now.UTC().Format("20060102T150405") + "_" + filepath.Base(name)
}

// FilesystemStore writes exported artifacts under Dir.
type FilesystemStore struct {
	Dir string
	now func() time.Time
}

func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{Dir: dir, now: time.Now}
}

func (s *FilesystemStore) Store(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.Dir, objectKey(name, s.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

type MinIOOptions struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Location        string
}

// MinIOStore uploads exported artifacts to a bucket.
type MinIOStore struct {
	client *minio.Client
	opts   MinIOOptions

	mu           sync.Mutex
	bucketExists bool
}

func NewMinIOStore(opts MinIOOptions) (*MinIOStore, error) {
	if opts.BucketName == "" {
		return nil, fmt.Errorf("minio bucket name is required")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &MinIOStore{client: client, opts: opts}, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketExists {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.opts.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.opts.BucketName, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.opts.BucketName, minio.MakeBucketOptions{Region: s.opts.Location}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.opts.BucketName, err)
		}
		log.Info().Str("bucket", s.opts.BucketName).Msg("created export bucket")
	}
	s.bucketExists = true
	return nil
}

func (s *MinIOStore) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectKey(name, time.Now())
	_, err := s.client.PutObject(ctx, s.opts.BucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.opts.BucketName, key), nil
}
