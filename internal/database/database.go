package database

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/jon4hz/leafcheck/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ store.Store = (*Client)(nil) // Ensure Client implements store.Store

// Client wraps the gorm.DB instance.
type Client struct {
	db     *gorm.DB
	images store.ImageRemover
}

// New creates a new database connection and performs migrations.
// images may be nil, in which case submission images are left on disk.
func New(dbpath string, images store.ImageRemover) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(dbpath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Submission{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db, images: images}, nil
}

// Close closes the underlying sql connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
