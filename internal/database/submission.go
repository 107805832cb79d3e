package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jon4hz/leafcheck/internal/store"
	"gorm.io/gorm"
)

// Submission is one logged classification. The auto increment ID keeps insertion order,
// PublicID is what the API exposes.
type Submission struct {
	ID         uint   `gorm:"primarykey"`
	PublicID   string `gorm:"uniqueIndex;not null"`
	Identifier string `gorm:"index;not null"`
	ImagePath  string `gorm:"index"`
	LabelIndex int
	Prediction string
	Timestamp  time.Time `gorm:"index"`
}

func (s *Submission) toStore() store.Submission {
	return store.Submission{
		ID:         s.PublicID,
		Identifier: s.Identifier,
		ImagePath:  s.ImagePath,
		LabelIndex: s.LabelIndex,
		Prediction: s.Prediction,
		Timestamp:  s.Timestamp,
	}
}

func (c *Client) LoadSubmissions(ctx context.Context) ([]store.Submission, error) {
	var rows []Submission
	if err := c.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		log.Error("failed to load submissions", "error", err)
		return nil, err
	}
	submissions := make([]store.Submission, 0, len(rows))
	for i := range rows {
		submissions = append(submissions, rows[i].toStore())
	}
	return submissions, nil
}

func (c *Client) AppendSubmission(ctx context.Context, submission *store.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Timestamp.IsZero() {
		submission.Timestamp = time.Now()
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last Submission
		err := tx.Order("id desc").First(&last).Error
		switch {
		case err == nil:
			submission.Timestamp = store.ClampTimestamp(submission.Timestamp, last.Timestamp)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		row := Submission{
			PublicID:   submission.ID,
			Identifier: submission.Identifier,
			ImagePath:  submission.ImagePath,
			LabelIndex: submission.LabelIndex,
			Prediction: submission.Prediction,
			Timestamp:  submission.Timestamp,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		log.Error("failed to append submission", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetSubmission(ctx context.Context, id string) (*store.Submission, error) {
	var row Submission
	if err := c.db.WithContext(ctx).Where("public_id = ?", id).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get submission", "error", err)
		}
		return nil, notFound(err)
	}
	sub := row.toStore()
	return &sub, nil
}

func (c *Client) UpdateSubmissionLabel(ctx context.Context, id string, labelIndex int, prediction string) error {
	result := c.db.WithContext(ctx).Model(&Submission{}).Where("public_id = ?", id).Updates(map[string]any{
		"label_index": labelIndex,
		"prediction":  prediction,
	})
	if result.Error != nil {
		log.Error("failed to update submission label", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) RemoveSubmission(ctx context.Context, id string) error {
	var (
		row    Submission
		shared int64
	)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("public_id = ?", id).First(&row).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		return tx.Model(&Submission{}).Where("image_path = ?", row.ImagePath).Count(&shared).Error
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to delete submission", "error", err)
		}
		return err
	}

	if shared > 0 {
		log.Debug("Image still referenced, keeping it", "path", row.ImagePath)
		return nil
	}
	if c.images != nil && row.ImagePath != "" {
		if err := c.images.Remove(row.ImagePath); err != nil {
			log.Warn("Failed to remove submission image", "path", row.ImagePath, "error", err)
		}
	}
	return nil
}
