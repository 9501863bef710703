package service

import (
	"context"
	"io"
)

// FileUploadService stores uploaded media and hands back a retrievable URL.
// The backend keeps only that reference and never inspects the content.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
