// Package store defines the record store contract shared by the json and sqlite backends.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an account with the same identifier already exists.
	ErrDuplicate = errors.New("record already exists")
)

// Account is a registered user.
type Account struct {
	Identifier string    `json:"identifier"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FullName returns first and last name separated by a space.
func (a Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// Submission is one logged classification.
type Submission struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	ImagePath  string    `json:"imagePath"`
	LabelIndex int       `json:"labelIndex"`
	Prediction string    `json:"prediction"`
	Timestamp  time.Time `json:"timestamp"`
}

// ImageRemover deletes the image backing a submission.
type ImageRemover interface {
	Remove(path string) error
}

// Store persists accounts and submissions.
type Store interface {
	// LoadAccounts returns all accounts keyed by identifier. It returns an empty map if nothing was stored yet.
	LoadAccounts(ctx context.Context) (map[string]Account, error)
	// SaveAccounts replaces all accounts.
	SaveAccounts(ctx context.Context, accounts map[string]Account) error
	// CreateAccount inserts an account unless its identifier is taken.
	CreateAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, identifier string) (*Account, error)
	UpdateAccount(ctx context.Context, account Account) error
	RemoveAccount(ctx context.Context, identifier string) error

	// LoadSubmissions returns all submissions in insertion order.
	LoadSubmissions(ctx context.Context) ([]Submission, error)
	// AppendSubmission assigns an ID and timestamp if unset and appends the record.
	AppendSubmission(ctx context.Context, submission *Submission) error
	GetSubmission(ctx context.Context, id string) (*Submission, error)
	UpdateSubmissionLabel(ctx context.Context, id string, labelIndex int, prediction string) error
	// RemoveSubmission deletes the record and its image.
	RemoveSubmission(ctx context.Context, id string) error

	Close() error
}

// ClampTimestamp keeps submission timestamps non-decreasing in insertion order.
func ClampTimestamp(ts, previous time.Time) time.Time {
	if ts.Before(previous) {
		return previous
	}
	return ts
}
