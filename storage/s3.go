// Package storage hosts uploaded gallery images in an S3 compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // set for MinIO or other S3 compatible hosts
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
}

// S3ConfigFrom reads the S3_* and AWS_* keys of cfg.
func S3ConfigFrom(cfg map[string]string) S3Config {
	return S3Config{
		Bucket:          config.GetString(cfg, "S3_BUCKET", ""),
		Region:          config.GetString(cfg, "S3_REGION", "us-east-1"),
		Endpoint:        config.GetString(cfg, "S3_ENDPOINT", ""),
		PublicBaseURL:   config.GetString(cfg, "S3_PUBLIC_BASE_URL", ""),
		AccessKeyID:     config.GetString(cfg, "AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(cfg, "AWS_SECRET_ACCESS_KEY", ""),
	}
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3ImageHost struct {
	client objectAPI
	cfg    S3Config
	logger zerolog.Logger
}

func NewS3ImageHost(ctx context.Context, cfg S3Config) (*S3ImageHost, error) {
	if cfg.Bucket == "" {
		return nil, errs.NewImageHostDisabledError()
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3ImageHost(client, cfg), nil
}

func newS3ImageHost(client objectAPI, cfg S3Config) *S3ImageHost {
	return &S3ImageHost{
		client: client,
		cfg:    cfg,
		logger: log.With().Str("component", "s3ImageHost").Str("bucket", cfg.Bucket).Logger(),
	}
}

// Upload stores body under key and returns its public URL. The key doubles as the provider id.
func (h *S3ImageHost) Upload(ctx context.Context, key, contentType string, body []byte) (models.HostedAsset, error) {
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return models.HostedAsset{}, errs.NewImageHostError("upload "+key, err)
	}

	h.logger.Info().Str("key", key).Int("bytes", len(body)).Msg("Uploaded image")
	return models.HostedAsset{URL: h.PublicURL(key), PublicID: key}, nil
}

// Delete removes the object. Deleting a missing key succeeds.
func (h *S3ImageHost) Delete(ctx context.Context, publicID string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return errs.NewImageHostError("delete "+publicID, err)
	}
	h.logger.Info().Str("key", publicID).Msg("Deleted image")
	return nil
}

// PublicURL builds the address a browser can load key from.
func (h *S3ImageHost) PublicURL(key string) string {
	switch {
	case h.cfg.PublicBaseURL != "":
		return strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/" + key
	case h.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(h.cfg.Endpoint, "/"), h.cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.cfg.Bucket, h.cfg.Region, key)
	}
}
