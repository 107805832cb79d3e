// Package jsonstore implements store.Store on top of two flat json files.
//
// The account file is an object keyed by identifier and the submission file is an array,
// the same layout the first version of the app wrote. Every mutation rewrites the whole
// file through an atomic rename. Writers inside one process are serialized, writers in
// different processes are not.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/natefinch/atomic"
)

var _ store.Store = (*Store)(nil)

// timestampLayout matches python's str(datetime.now()).
const timestampLayout = "2006-01-02 15:04:05.000000"

type accountRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at,omitempty"`
}

type submissionRecord struct {
	ID           string `json:"id,omitempty"`
	MobileNumber string `json:"mobile_number"`
	ImagePath    string `json:"image_path"`
	Prediction   string `json:"prediction"`
	LabelIndex   *int   `json:"label_index,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Store is a json file backed record store.
type Store struct {
	mu              sync.Mutex
	usersPath       string
	submissionsPath string
	images          store.ImageRemover
	now             func() time.Time
}

// New creates a json store in dataDir. images may be nil, in which case submission images are left on disk.
func New(dataDir, usersFile, submissionsFile string, images store.ImageRemover) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		usersPath:       filepath.Join(dataDir, usersFile),
		submissionsPath: filepath.Join(dataDir, submissionsFile),
		images:          images,
		now:             time.Now,
	}, nil
}

// Close is a no-op, files are not kept open.
func (s *Store) Close() error {
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05.999999", s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	log.Warn("Unparseable timestamp in submission log", "timestamp", s)
	return time.Time{}
}

// accounts

func (s *Store) readAccounts() (map[string]accountRecord, error) {
	records := make(map[string]accountRecord)
	if err := readJSON(s.usersPath, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]accountRecord)
	}
	return records, nil
}

func toAccount(identifier string, r accountRecord) store.Account {
	return store.Account{
		Identifier: identifier,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Password:   r.Password,
		CreatedAt:  parseTimestamp(r.CreatedAt),
	}
}

func fromAccount(a store.Account) accountRecord {
	r := accountRecord{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Password:  a.Password,
	}
	if !a.CreatedAt.IsZero() {
		r.CreatedAt = formatTimestamp(a.CreatedAt)
	}
	return r
}

func (s *Store) LoadAccounts(_ context.Context) (map[string]store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAccounts()
	if err != nil {
		log.Error("failed to load accounts", "error", err)
		return nil, err
	}
	accounts := make(map[string]store.Account, len(records))
	for id, r := range records {
		accounts[id] = toAccount(id, r)
	}
	return accounts, nil
}

func (s *Store) SaveAccounts(_ context.Context, accounts map[string]store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(map[string]accountRecord, len(accounts))
	for id, a := range accounts {
		records[id] = fromAccount(a)
	}
	if err := writeJSON(s.usersPath, records); err != nil {
		log.Error("failed to save accounts", "error", err)
		return err
	}
	return nil
}

func (s *Store) CreateAccount(_ context.Context, account store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAccounts()
	if err != nil {
		return err
	}
	if _, ok := records[account.Identifier]; ok {
		return store.ErrDuplicate
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}
	records[account.Identifier] = fromAccount(account)
	if err := writeJSON(s.usersPath, records); err != nil {
		log.Error("failed to create account", "error", err)
		return err
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, identifier string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAccounts()
	if err != nil {
		return nil, err
	}
	r, ok := records[identifier]
	if !ok {
		return nil, store.ErrNotFound
	}
	a := toAccount(identifier, r)
	return &a, nil
}

func (s *Store) UpdateAccount(_ context.Context, account store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAccounts()
	if err != nil {
		return err
	}
	existing, ok := records[account.Identifier]
	if !ok {
		return store.ErrNotFound
	}
	updated := fromAccount(account)
	if updated.CreatedAt == "" {
		updated.CreatedAt = existing.CreatedAt
	}
	if updated.Password == "" {
		updated.Password = existing.Password
	}
	records[account.Identifier] = updated
	if err := writeJSON(s.usersPath, records); err != nil {
		log.Error("failed to update account", "error", err)
		return err
	}
	return nil
}

func (s *Store) RemoveAccount(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAccounts()
	if err != nil {
		return err
	}
	if _, ok := records[identifier]; !ok {
		return store.ErrNotFound
	}
	delete(records, identifier)
	if err := writeJSON(s.usersPath, records); err != nil {
		log.Error("failed to remove account", "error", err)
		return err
	}
	return nil
}

// submissions

// readSubmissions loads the log and persists IDs for legacy entries that were written without one.
func (s *Store) readSubmissions() ([]submissionRecord, error) {
	var records []submissionRecord
	if err := readJSON(s.submissionsPath, &records); err != nil {
		return nil, err
	}

	var assigned int
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
			assigned++
		}
	}
	if assigned > 0 {
		log.Info("Assigned ids to legacy submissions", "count", assigned)
		if err := writeJSON(s.submissionsPath, records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func toSubmission(r submissionRecord) store.Submission {
	index := -1
	if r.LabelIndex != nil {
		index = *r.LabelIndex
	}
	return store.Submission{
		ID:         r.ID,
		Identifier: r.MobileNumber,
		ImagePath:  r.ImagePath,
		LabelIndex: index,
		Prediction: r.Prediction,
		Timestamp:  parseTimestamp(r.Timestamp),
	}
}

func fromSubmission(sub store.Submission) submissionRecord {
	r := submissionRecord{
		ID:           sub.ID,
		MobileNumber: sub.Identifier,
		ImagePath:    sub.ImagePath,
		Prediction:   sub.Prediction,
		Timestamp:    formatTimestamp(sub.Timestamp),
	}
	if sub.LabelIndex >= 0 {
		index := sub.LabelIndex
		r.LabelIndex = &index
	}
	return r
}

func (s *Store) LoadSubmissions(_ context.Context) ([]store.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readSubmissions()
	if err != nil {
		log.Error("failed to load submissions", "error", err)
		return nil, err
	}
	submissions := make([]store.Submission, 0, len(records))
	for _, r := range records {
		submissions = append(submissions, toSubmission(r))
	}
	return submissions, nil
}

func (s *Store) AppendSubmission(_ context.Context, submission *store.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readSubmissions()
	if err != nil {
		return err
	}

	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Timestamp.IsZero() {
		submission.Timestamp = s.now()
	}
	submission.Timestamp = submission.Timestamp.Truncate(time.Microsecond)
	if n := len(records); n > 0 {
		submission.Timestamp = store.ClampTimestamp(submission.Timestamp, parseTimestamp(records[n-1].Timestamp))
	}

	records = append(records, fromSubmission(*submission))
	if err := writeJSON(s.submissionsPath, records); err != nil {
		log.Error("failed to append submission", "error", err)
		return err
	}
	return nil
}

func (s *Store) GetSubmission(_ context.Context, id string) (*store.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readSubmissions()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			sub := toSubmission(r)
			return &sub, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateSubmissionLabel(_ context.Context, id string, labelIndex int, prediction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readSubmissions()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i].Prediction = prediction
		if labelIndex >= 0 {
			index := labelIndex
			records[i].LabelIndex = &index
		} else {
			records[i].LabelIndex = nil
		}
		if err := writeJSON(s.submissionsPath, records); err != nil {
			log.Error("failed to update submission", "error", err)
			return err
		}
		return nil
	}
	return store.ErrNotFound
}

func (s *Store) RemoveSubmission(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readSubmissions()
	if err != nil {
		return err
	}

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	if err := writeJSON(s.submissionsPath, records); err != nil {
		log.Error("failed to remove submission", "error", err)
		return err
	}

	for _, r := range records {
		if r.ImagePath == removed.ImagePath {
			log.Debug("Image still referenced, keeping it", "path", removed.ImagePath)
			return nil
		}
	}
	if s.images != nil && removed.ImagePath != "" {
		if err := s.images.Remove(removed.ImagePath); err != nil {
			log.Warn("Failed to remove submission image", "path", removed.ImagePath, "error", err)
		}
	}
	return nil
}
