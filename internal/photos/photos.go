// Package photos stores service record receipt photos on disk and
// generates a downscaled thumbnail for each one.
package photos

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Store writes photos under a single directory, keyed by a generated
// UUID. Both the full image and its thumbnail are re-encoded as JPEG.
type Store struct {
	dir       string
	maxWidth  int
	maxHeight int
	quality   int
}

func NewStore(dir string, maxWidth, maxHeight, quality int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{
		dir:       dir,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		quality:   quality,
	}, nil
}

// Save decodes the uploaded bytes, writes the full-size image and a
// fitted thumbnail, and returns the key the caller stores on the
// record.
func (s *Store) Save(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	key := uuid.NewString()

	if err := imaging.Save(img, s.Path(key), imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	thumb := imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)
	if err := imaging.Save(thumb, s.ThumbPath(key), imaging.JPEGQuality(s.quality)); err != nil {
		os.Remove(s.Path(key))
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	log.Debug("Stored photo", "key", key, "bytes", len(data))
	return key, nil
}

// Path returns the on-disk location of the full-size image. Keys that
// are not valid UUIDs resolve to an empty string so a crafted key can
// never escape the photo directory.
func (s *Store) Path(key string) string {
	if _, err := uuid.Parse(key); err != nil {
		return ""
	}
	return filepath.Join(s.dir, key+".jpg")
}

// ThumbPath returns the on-disk location of the thumbnail.
func (s *Store) ThumbPath(key string) string {
	if _, err := uuid.Parse(key); err != nil {
		return ""
	}
	return filepath.Join(s.dir, key+"_thumb.jpg")
}

// Remove deletes both files for a key. Missing files are not an error,
// a record whose photo was already cleaned up deletes fine.
func (s *Store) Remove(key string) error {
	if key == "" {
		return nil
	}
	for _, path := range []string{s.Path(key), s.ThumbPath(key)} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove photo: %w", err)
		}
	}
	return nil
}
