package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/talentbill/talentbill/internal/config"
	"go.uber.org/zap"
)

type s3Store struct {
	client *s3.Client
	cfg    config.StorageConfig
	log    *zap.Logger
}

// NewStore builds the S3-backed archive, or the disabled store when no
// bucket is configured.
func NewStore(cfg config.Config, log *zap.Logger) (Store, error) {
	if !cfg.StorageEnabled() {
		log.Warn("invoice storage not configured, archival will fail issuance")
		return disabledStore{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Storage.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{
		client: client,
		cfg:    cfg.Storage,
		log:    log.Named("invoice.archive"),
	}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte, contentType string) (*Upload, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	s.log.Info("invoice pdf archived", zap.String("key", key), zap.Int("size", len(body)))
	return &Upload{
		URL: s.publicURL(key),
		Key: key,
	}, nil
}

func (s *s3Store) publicURL(key string) string {
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
