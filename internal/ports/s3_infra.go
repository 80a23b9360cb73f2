package ports

import (
	"context"
	"io"
)

// Низкоуровневый клиент к S3 (архив аудио)
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (publicURL string, err error)
}
