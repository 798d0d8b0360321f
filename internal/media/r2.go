package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/metrics"
)

const keyPrefix = "generated/"

// R2Config locates a Cloudflare R2 bucket.
type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKey != "" && c.SecretKey != "" && c.BucketName != ""
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Store uploads images to R2 under a random key.
type R2Store struct {
	client    objectPutter
	bucket    string
	publicURL string
	observer  metrics.Observer
	logger    *zap.Logger
}

func NewR2Store(ctx context.Context, cfg R2Config, observer metrics.Observer, logger *zap.Logger) (*R2Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	return newR2Store(client, cfg, observer, logger), nil
}

func newR2Store(client objectPutter, cfg R2Config, observer metrics.Observer, logger *zap.Logger) *R2Store {
	if observer == nil {
		observer = metrics.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &R2Store{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		observer:  observer,
		logger:    logger,
	}
}

// Put uploads img and returns its public URL.
func (r *R2Store) Put(ctx context.Context, img *llm.Image) (string, error) {
	kind, err := Detect(img.Data)
	if err != nil {
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate object key: %w", err)
	}
	key := keyPrefix + id + "." + kind.Extension

	start := time.Now()
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(kind.MIME.Value),
	})
	r.observer.RecordUpload(time.Since(start), len(img.Data), err)
	if err != nil {
		r.logger.Error("R2 upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	r.logger.Info("Uploaded image", zap.String("key", key), zap.Int("bytes", len(img.Data)))
	return r.publicURL + "/" + key, nil
}
