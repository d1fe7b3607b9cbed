// ABOUTME: Local-file image sink writing one PNG per fetched image URL
// ABOUTME: Images live in a directory keyed by the escaped listing identity

package localfile

import (
	"context"
	"os"
	"path/filepath"

	"otodom-scraper/core/domain"
	cerrors "otodom-scraper/core/errors"
)

// DefaultImagesDir is where image files land unless configured otherwise.
const DefaultImagesDir = "data/images"

// ImageSink persists offer images as local files under one directory
// per listing, one file per distinct image URL.
type ImageSink struct {
	baseDir string
}

// NewImageSink creates a local-file image sink rooted at baseDir.
func NewImageSink(baseDir string) *ImageSink {
	if baseDir == "" {
		baseDir = DefaultImagesDir
	}
	return &ImageSink{baseDir: baseDir}
}

// Dir returns the image directory for a listing identity.
func (s *ImageSink) Dir(urlExtension string) string {
	return filepath.Join(s.baseDir, domain.EscapeIdentity(urlExtension))
}

// Commit writes every image to the listing's directory. Committing the
// same identity again overwrites the existing files.
func (s *ImageSink) Commit(_ context.Context, urlExtension string, images map[string][]byte) error {
	dir := s.Dir(urlExtension)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cerrors.WrapError(err, "failed to create image data directory")
	}

	for imageURL, data := range images {
		path := filepath.Join(dir, domain.EscapeIdentity(imageURL)+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return cerrors.WrapError(err, "failed to write image file")
		}
	}
	return nil
}

// Exists reports whether the listing's image directory holds at least
// one file.
func (s *ImageSink) Exists(_ context.Context, urlExtension string) (bool, error) {
	entries, err := os.ReadDir(s.Dir(urlExtension))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, cerrors.WrapError(err, "failed to probe image data directory")
	}
	return len(entries) > 0, nil
}

// Remove deletes the listing's image directory and its contents.
func (s *ImageSink) Remove(_ context.Context, urlExtension string) error {
	if err := os.RemoveAll(s.Dir(urlExtension)); err != nil {
		return cerrors.WrapError(err, "failed to remove image data directory")
	}
	return nil
}
