package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"

	"skillswap/internal/domain/service"
)

// SupabaseStorageClient stores uploads in a public Supabase Storage bucket.
type SupabaseStorageClient struct {
	client     *storage_go.Client
	baseURL    string
	bucketName string
}

var _ service.FileUploadService = (*SupabaseStorageClient)(nil)

func NewSupabaseStorageClient(supabaseURL, apiKey, bucketName string) *SupabaseStorageClient {
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStorageClient{
		client:     storage_go.NewClient(baseURL+"/storage/v1", apiKey, nil),
		baseURL:    baseURL,
		bucketName: bucketName,
	}
}

func (c *SupabaseStorageClient) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", c.baseURL, c.bucketName)
}

func (c *SupabaseStorageClient) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	name := objectName(folder, fileType)

	_, err := c.client.UploadFile(c.bucketName, name, file, storage_go.FileOptions{
		ContentType: &fileType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to supabase: %w", err)
	}

	return c.publicPrefix() + name, nil
}

func (c *SupabaseStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	name, err := objectFromURL(fileURL, c.publicPrefix())
	if err != nil {
		return err
	}

	if _, err := c.client.RemoveFile(c.bucketName, []string{name}); err != nil {
		return fmt.Errorf("failed to delete file from supabase: %w", err)
	}
	return nil
}

// Close is a no-op; the client holds no long-lived connections.
func (c *SupabaseStorageClient) Close() error {
	return nil
}
