package repository

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/pkg/errors"
)

const (
	presignExpires = 24 * time.Hour
	clipMimeType   = "video/mp4"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(client *s3.Client, preSignClient *s3.PresignClient) clips.AWSRepository {
	return &awsRepository{
		client:        client,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) UploadClip(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	contentType := clipMimeType
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		ContentType:   &contentType,
	}); err != nil {
		return errors.Wrap(err, "awsRepository.UploadClip.PutObject")
	}
	return nil
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, bucket, key string) (string, error) {
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(presignExpires),
	)
	if err != nil {
		return "", errors.Wrap(err, "awsRepository.GetPresignedURL.PresignGetObject")
	}
	return req.URL, nil
}

func (a *awsRepository) RemoveClip(ctx context.Context, bucket, key string) error {
	if _, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}); err != nil {
		return errors.Wrap(err, "awsRepository.RemoveClip.DeleteObject")
	}
	return nil
}
