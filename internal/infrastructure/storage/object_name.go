package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
	"application/pdf": ".pdf",
}

// objectName builds a collision-free object path under folder.
func objectName(folder, fileType string) string {
	ext, ok := extensions[strings.ToLower(fileType)]
	if !ok {
		ext = ".bin"
	}
	folder = strings.Trim(folder, "/")
	return fmt.Sprintf("%s/%s-%s%s", folder, uuid.New().String(), time.Now().Format("20060102150405"), ext)
}

// objectFromURL strips prefix from fileURL, returning the object path.
func objectFromURL(fileURL, prefix string) (string, error) {
	if !strings.HasPrefix(fileURL, prefix) {
		return "", fmt.Errorf("url %q does not belong to this bucket", fileURL)
	}
	name := strings.TrimPrefix(fileURL, prefix)
	if name == "" {
		return "", fmt.Errorf("url %q has no object path", fileURL)
	}
	return name, nil
}
