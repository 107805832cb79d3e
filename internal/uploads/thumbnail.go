package uploads

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
)

// thumbnailPath returns the cache path of the thumbnail for an upload. Thumbnails are always JPEG.
func (s *Store) thumbnailPath(name string) string {
	return filepath.Join(s.thumbDir, name+".jpg")
}

// thumbnail returns the path of a scaled copy of the upload, rendering it if the cached copy is missing or stale.
func (s *Store) thumbnail(path string) (string, error) {
	src, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	thumbPath := s.thumbnailPath(filepath.Base(path))
	if info, err := os.Stat(thumbPath); err == nil && !info.ModTime().Before(src.ModTime()) {
		log.Debugf("Using cached thumbnail: %s", thumbPath)
		return thumbPath, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	var processedImg image.Image = img
	if originalWidth > s.maxWidth || originalHeight > s.maxHeight {
		newWidth, newHeight := s.calculateScaledDimensions(originalWidth, originalHeight)
		processedImg = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
		log.Debugf("Resized image from %dx%d to %dx%d for: %s",
			originalWidth, originalHeight, newWidth, newHeight, path)
	}

	tempPath := filepath.Join(s.thumbDir, "tmp_"+filepath.Base(thumbPath))
	defer os.Remove(tempPath) //nolint:errcheck

	if err := imaging.Save(processedImg, tempPath, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	if err := os.Rename(tempPath, thumbPath); err != nil {
		return "", fmt.Errorf("failed to move thumbnail: %w", err)
	}
	return thumbPath, nil
}

// calculateScaledDimensions calculates new dimensions while maintaining aspect ratio.
func (s *Store) calculateScaledDimensions(originalWidth, originalHeight int) (int, int) {
	if originalWidth <= s.maxWidth && originalHeight <= s.maxHeight {
		return originalWidth, originalHeight
	}

	widthRatio := float64(s.maxWidth) / float64(originalWidth)
	heightRatio := float64(s.maxHeight) / float64(originalHeight)
	ratio := min(widthRatio, heightRatio)

	return max(1, int(float64(originalWidth)*ratio)), max(1, int(float64(originalHeight)*ratio))
}

// CleanupOldThumbnails removes cached thumbnails older than maxAge and returns how many were removed.
func (s *Store) CleanupOldThumbnails(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(s.thumbDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.ModTime().Before(cutoff) {
			log.Debugf("Removing old thumbnail: %s", path)
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}
