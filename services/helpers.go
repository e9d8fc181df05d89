package services

import (
	"fmt"
	"strings"
)

const MaxImageSize = 5 << 20

// GetExtensionFromContentType maps an allowed image MIME type to a file extension.
func GetExtensionFromContentType(contentType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
