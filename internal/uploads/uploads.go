// Package uploads stores uploaded leaf images and serves them with cached thumbnails.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/natefinch/atomic"
)

// ErrNotFound is returned when an uploaded image does not exist.
var ErrNotFound = errors.New("image not found")

const defaultName = "upload.jpg"

// Store keeps uploaded images in a single flat directory.
type Store struct {
	dir       string
	thumbDir  string
	maxWidth  int // Maximum width for thumbnails
	maxHeight int // Maximum height for thumbnails
	quality   int // JPEG quality (1-100)

	mu sync.Mutex
}

// New creates the upload store and its directories.
func New(cfg *config.UploadsConfig) (*Store, error) {
	return NewWithOptions(cfg, 320, 320, 85)
}

// NewWithOptions creates an upload store with custom thumbnail options.
func NewWithOptions(cfg *config.UploadsConfig, maxWidth, maxHeight, quality int) (*Store, error) {
	for _, dir := range []string{cfg.Dir, cfg.ThumbnailDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Store{
		dir:       cfg.Dir,
		thumbDir:  cfg.ThumbnailDir,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		quality:   quality,
	}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// cleanName reduces a client supplied file name to a safe base name.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." || strings.TrimSpace(base) == "" {
		return defaultName
	}
	return base
}

// Save writes the image as <dir>/<base name> and returns the stored path.
// If the name is already taken a short random suffix is added before the extension.
func (s *Store) Save(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := cleanName(name)
	path := filepath.Join(s.dir, base)
	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		path = filepath.Join(s.dir, stem+"-"+uuid.NewString()[:8]+ext)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	log.Debug("Saved upload", "path", path, "size", len(data))
	return path, nil
}

// Remove deletes a stored image and its thumbnail. A missing file is only logged.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove image %s: %w", path, err)
		}
		log.Warn("Image already removed", "path", path)
	}

	thumb := s.thumbnailPath(filepath.Base(path))
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to remove thumbnail", "path", thumb, "error", err)
	}
	return nil
}

// Path resolves the name of an uploaded image to its path on disk.
func (s *Store) Path(name string) (string, error) {
	path := filepath.Join(s.dir, cleanName(name))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// SweepOrphans removes uploads that no submission references and that are older than grace.
// referenced holds the base names of all images still in use.
func (s *Store) SweepOrphans(ctx context.Context, referenced map[string]struct{}, grace time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-grace)
	var removed []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Warn("Failed to stat upload", "name", entry.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := s.Remove(path); err != nil {
			log.Error("Failed to remove orphaned upload", "path", path, "error", err)
			continue
		}
		log.Info("Removed orphaned upload", "path", path)
		removed = append(removed, path)
	}
	return removed, nil
}

// contentType guesses the content type from the file extension.
func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// ServeImage writes the named upload, or its thumbnail, to the response.
func (s *Store) ServeImage(name string, thumb bool, w http.ResponseWriter, r *http.Request) error {
	path, err := s.Path(name)
	if err != nil {
		http.NotFound(w, r)
		return err
	}

	if thumb {
		path, err = s.thumbnail(path)
		if err != nil {
			log.Errorf("Failed to create thumbnail: %v", err)
			http.Error(w, "Failed to create thumbnail", http.StatusInternalServerError)
			return err
		}
	}

	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		log.Errorf("Failed to open image: %v", err)
		http.Error(w, "Failed to open image", http.StatusInternalServerError)
		return err
	}
	defer file.Close() //nolint:errcheck

	fileInfo, err := file.Stat()
	if err != nil {
		log.Errorf("Failed to get file info: %v", err)
		http.Error(w, "Failed to get file info", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", contentType(path))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("Last-Modified", fileInfo.ModTime().UTC().Format(http.TimeFormat))

	if modifiedSince := r.Header.Get("If-Modified-Since"); modifiedSince != "" {
		if t, err := time.Parse(http.TimeFormat, modifiedSince); err == nil {
			if fileInfo.ModTime().Before(t.Add(1 * time.Second)) {
				w.WriteHeader(http.StatusNotModified)
				return nil
			}
		}
	}

	http.ServeContent(w, r, fileInfo.Name(), fileInfo.ModTime(), file)
	return nil
}
