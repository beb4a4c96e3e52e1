package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// PutObjectAPI is the part of the S3 client the uploader uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores rendered exports as objects under a bucket prefix.
type Uploader struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// LoadConfig resolves credentials from the default AWS chain.
func LoadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

func NewUploader(client PutObjectAPI, bucket, prefix string) (*Uploader, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("export bucket is required")
	}
	return &Uploader{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewUploaderFromConfig builds an uploader backed by a real S3 client.
func NewUploaderFromConfig(cfg awssdk.Config, bucket, prefix string) (*Uploader, error) {
	return NewUploader(s3.NewFromConfig(cfg), bucket, prefix)
}

// ObjectKey names an export object, e.g. exports/kpis-20240630T120000Z.csv.
func ObjectKey(prefix, dataType, extension string, at time.Time) string {
	name := fmt.Sprintf("%s-%s.%s", dataType, at.UTC().Format("20060102T150405Z"), extension)
	return path.Join(strings.TrimSuffix(prefix, "/"), name)
}

// Upload writes body to key and returns the s3:// URI of the object.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(u.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(body),
		ContentType: awssdk.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export to s3://%s/%s: %w", u.bucket, key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", u.bucket, key)
	zerolog.Ctx(ctx).Info().
		Str("uri", uri).
		Int("bytes", len(body)).
		Msg("export uploaded")
	return uri, nil
}

func (u *Uploader) Prefix() string {
	return u.prefix
}
