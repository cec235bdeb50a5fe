package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoService stores workout photos under the static assets directory that
// main.go serves at /assets/.
type PhotoService struct {
	uploadsDir string
}

func NewPhotoService(uploadsDir string) (*PhotoService, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &PhotoService{uploadsDir: uploadsDir}, nil
}

// Save writes the uploaded image to disk under a generated name and returns
// the public URL to store on the workout entry.
func (s *PhotoService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidArgument, ext)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.uploadsDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/assets/uploads/" + name, nil
}

// Delete removes the stored file behind an image URL. Unknown URLs are
// ignored so entry deletion never fails on a missing file.
func (s *PhotoService) Delete(imageURL string) error {
	name := path.Base(imageURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.uploadsDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Dir returns the directory photos are stored in.
func (s *PhotoService) Dir() string {
	return s.uploadsDir
}
