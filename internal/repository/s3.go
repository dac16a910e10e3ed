package repository

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/repository/editor"
	"github.com/debemdeboas/the-showcase/internal/util"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to an S3-compatible bucket (R2, MinIO, AWS) and
// links them through a public base URL.
type S3ImageStore struct { // implements ImageStore
	client        s3PutAPI
	bucket        string
	publicBaseURL string
}

func NewS3ImageStore(ctx context.Context, accessKeyID, accessKeySecret, baseEndpoint, bucket, publicBaseURL string) (*S3ImageStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing S3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3ImageStore(client, bucket, publicBaseURL), nil
}

func newS3ImageStore(client s3PutAPI, bucket, publicBaseURL string) *S3ImageStore {
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/") + "/",
	}
}

func (s *S3ImageStore) Encode(ctx context.Context, data []byte, filename string) (model.ImageRef, error) {
	mime, err := editor.DetectImageType(data)
	if err != nil {
		return "", err
	}

	key := "images/" + util.ShortHash(data, 32) + imageExtension(mime)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(mime),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", filename, err)
	}

	repoLogger.Info().Str("bucket", s.bucket).Str("key", key).Str("original", filename).Msg("Image uploaded")
	return model.ImageRef(s.publicBaseURL + key), nil
}
