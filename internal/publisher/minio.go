package publisher

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	defaultPrefix = "fixtures"
)

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".json": "application/json",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".db":   "application/vnd.sqlite3",
}

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	prefix          string
	region          string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
		prefix: defaultPrefix,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type minioPublisher struct {
	cfg    *minioConfig
	client *minio.Client
}

// Make sure we conform to Publisher interface
var _ Publisher = (*minioPublisher)(nil)

func NewMinioPublisher(opts ...MinioOpts) (*minioPublisher, error) {
	cfg := newConfig(opts...)
	if cfg.endpoint == "" {
		return nil, errors.New("minio endpoint is empty")
	}
	if cfg.bucket == "" {
		return nil, errors.New("minio bucket is empty")
	}

	// Initialize minio client object.
	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
		Region: cfg.region,
	})
	if err != nil {
		return nil, err
	}

	return &minioPublisher{cfg: cfg, client: minioClient}, nil
}

func (s *minioPublisher) Publish(ctx context.Context, seed int64, files []string) ([]string, error) {
	exists, err := s.client.BucketExists(ctx, s.cfg.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", s.cfg.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", s.cfg.bucket, err)
		}
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := ObjectKey(s.cfg.prefix, seed, f)
		info, err := s.client.FPutObject(ctx, s.cfg.bucket, key, f, minio.PutObjectOptions{ContentType: ContentType(f)})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", f, err)
		}
		zap.S().Named("publisher").Debugf("uploaded %s (%d bytes) to %s/%s", f, info.Size, s.cfg.bucket, key)
		keys = append(keys, key)
	}
	zap.S().Named("publisher").Infof("published %d file(s) to %s/%s", len(keys), s.cfg.bucket, path.Join(s.cfg.prefix, fmt.Sprint(seed)))
	return keys, nil
}

func (s *minioPublisher) Type() string {
	return "minio"
}

// ObjectKey places a file under <prefix>/<seed>/<file name>.
func ObjectKey(prefix string, seed int64, file string) string {
	return path.Join(prefix, fmt.Sprint(seed), filepath.Base(file))
}

// ContentType guesses the object content type from the file extension.
func ContentType(file string) string {
	if ct, ok := contentTypes[filepath.Ext(file)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithPrefix(prefix string) MinioOpts {
	return func(c *minioConfig) {
		c.prefix = prefix
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

// WithRegion skips the bucket location lookup. Empty lets the client discover it.
func WithRegion(region string) MinioOpts {
	return func(c *minioConfig) {
		c.region = region
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
