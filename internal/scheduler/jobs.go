package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/samber/lo"
)

const (
	JobOrphanSweep    = "orphan_sweep"
	JobThumbnailPrune = "thumbnail_prune"

	thumbnailPruneSchedule = "0 4 * * 0" // Every Sunday at 04:00
)

// Uploads is the part of the upload store the maintenance jobs need.
type Uploads interface {
	SweepOrphans(ctx context.Context, referenced map[string]struct{}, grace time.Duration) ([]string, error)
	CleanupOldThumbnails(maxAge time.Duration) (int, error)
}

// Maintenance holds the housekeeping tasks for uploaded images.
type Maintenance struct {
	store   store.Store
	uploads Uploads
	cfg     *config.UploadsConfig
}

// NewMaintenance creates the maintenance tasks.
func NewMaintenance(s store.Store, uploads Uploads, cfg *config.UploadsConfig) *Maintenance {
	return &Maintenance{store: s, uploads: uploads, cfg: cfg}
}

// Referenced returns the base names of all images still referenced by a submission.
func Referenced(submissions []store.Submission) map[string]struct{} {
	return lo.SliceToMap(submissions, func(s store.Submission) (string, struct{}) {
		return filepath.Base(s.ImagePath), struct{}{}
	})
}

// SweepOrphans removes uploads without a submission that are older than the grace period.
func (m *Maintenance) SweepOrphans(ctx context.Context) ([]string, error) {
	submissions, err := m.store.LoadSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	removed, err := m.uploads.SweepOrphans(ctx, Referenced(submissions), m.cfg.OrphanGracePeriod)
	if err != nil {
		return removed, err
	}
	log.Info("Orphan sweep finished", "removed", len(removed))
	return removed, nil
}

// PruneThumbnails removes thumbnails older than the configured age.
func (m *Maintenance) PruneThumbnails(context.Context) error {
	removed, err := m.uploads.CleanupOldThumbnails(m.cfg.ThumbnailMaxAge)
	if err != nil {
		return fmt.Errorf("failed to prune thumbnails: %w", err)
	}
	log.Info("Thumbnail prune finished", "removed", removed)
	return nil
}

// Register adds the maintenance jobs to the scheduler.
func (m *Maintenance) Register(s *Scheduler) error {
	if err := s.AddSingletonJob(
		JobOrphanSweep,
		"Orphan Upload Sweep",
		"Removes uploaded images that no submission references",
		m.cfg.OrphanSweepSchedule,
		func(ctx context.Context) error {
			_, err := m.SweepOrphans(ctx)
			return err
		},
	); err != nil {
		return fmt.Errorf("failed to add orphan sweep job: %w", err)
	}

	if err := s.AddSingletonJob(
		JobThumbnailPrune,
		"Thumbnail Prune",
		"Removes old thumbnails from the cache directory",
		thumbnailPruneSchedule,
		m.PruneThumbnails,
	); err != nil {
		return fmt.Errorf("failed to add thumbnail prune job: %w", err)
	}

	log.Info("Scheduled jobs configured successfully")
	return nil
}
