// Package templates resolves logical template names ("certificate.odt",
// "quotation.ods") to document bytes. Templates live either on local
// disk or in an S3 bucket.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// DirStore reads templates from a local directory.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return data, nil
}

// S3Store downloads templates from an S3 bucket under a fixed prefix.
type S3Store struct {
	bucket     string
	prefix     string
	downloader *manager.Downloader
	logger     *zap.Logger
}

// S3Config carries the bucket location and optional static credentials.
// Empty AccessKey falls back to the default AWS credential chain.
type S3Config struct {
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

func NewS3Store(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		downloader: manager.NewDownloader(client),
		logger:     logger,
	}, nil
}

func (s *S3Store) Get(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.prefix, name)
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download template %s: %w", key, err)
	}
	s.logger.Debug("template downloaded",
		zap.String("key", key), zap.Int64("bytes", n))
	return buf.Bytes(), nil
}

// CachedStore wraps another store and keeps templates in memory after
// the first read. Templates change only on deploy, the cache is never
// invalidated at runtime.
type CachedStore struct {
	inner Store

	mu    sync.RWMutex
	cache map[string][]byte
}

func NewCachedStore(inner Store) *CachedStore {
	return &CachedStore{inner: inner, cache: make(map[string][]byte)}
}

func (s *CachedStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return bytes.Clone(data), nil
	}

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[name] = bytes.Clone(data)
	s.mu.Unlock()
	return data, nil
}
