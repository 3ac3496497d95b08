package clips

import (
	"context"
	"io"
)

// AWSRepository is the artifact store the worker uploads finished clips to.
// The presigned GET URL it hands back becomes the job's resultRef.
type AWSRepository interface {
	UploadClip(ctx context.Context, bucket, key string, body io.Reader, size int64) error
	GetPresignedURL(ctx context.Context, bucket, key string) (string, error)
	RemoveClip(ctx context.Context, bucket, key string) error
}
