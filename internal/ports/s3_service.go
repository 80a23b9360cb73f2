package ports

import "context"

type S3Service interface {
	ObjectKey(userID, filename string) string
	SaveAudio(ctx context.Context, userID, path string) (string, error)
}
