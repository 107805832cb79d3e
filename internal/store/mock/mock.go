package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jon4hz/leafcheck/internal/store"
)

var _ store.Store = (*MockStore)(nil)

// MockStore is an in-memory implementation of store.Store for testing.
type MockStore struct {
	mu sync.RWMutex

	accounts    map[string]store.Account
	submissions []store.Submission

	// RemovedImages records image paths passed to the image remover.
	RemovedImages []string

	// Error simulation
	LoadAccountsError          error
	SaveAccountsError          error
	CreateAccountError         error
	GetAccountError            error
	UpdateAccountError         error
	RemoveAccountError         error
	LoadSubmissionsError       error
	AppendSubmissionError      error
	GetSubmissionError         error
	UpdateSubmissionLabelError error
	RemoveSubmissionError      error
}

// NewMockStore creates a new MockStore instance.
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]store.Account),
	}
}

// Reset clears all data and errors from the mock store.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts = make(map[string]store.Account)
	m.submissions = nil
	m.RemovedImages = nil

	m.LoadAccountsError = nil
	m.SaveAccountsError = nil
	m.CreateAccountError = nil
	m.GetAccountError = nil
	m.UpdateAccountError = nil
	m.RemoveAccountError = nil
	m.LoadSubmissionsError = nil
	m.AppendSubmissionError = nil
	m.GetSubmissionError = nil
	m.UpdateSubmissionLabelError = nil
	m.RemoveSubmissionError = nil
}

// Submissions returns a copy of the stored submissions for assertions.
func (m *MockStore) Submissions() []store.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Submission(nil), m.submissions...)
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) LoadAccounts(ctx context.Context) (map[string]store.Account, error) {
	if m.LoadAccountsError != nil {
		return nil, m.LoadAccountsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make(map[string]store.Account, len(m.accounts))
	for id, a := range m.accounts {
		accounts[id] = a
	}
	return accounts, nil
}

func (m *MockStore) SaveAccounts(ctx context.Context, accounts map[string]store.Account) error {
	if m.SaveAccountsError != nil {
		return m.SaveAccountsError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts = make(map[string]store.Account, len(accounts))
	for id, a := range accounts {
		m.accounts[id] = a
	}
	return nil
}

func (m *MockStore) CreateAccount(ctx context.Context, account store.Account) error {
	if m.CreateAccountError != nil {
		return m.CreateAccountError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.Identifier]; ok {
		return store.ErrDuplicate
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.accounts[account.Identifier] = account
	return nil
}

func (m *MockStore) GetAccount(ctx context.Context, identifier string) (*store.Account, error) {
	if m.GetAccountError != nil {
		return nil, m.GetAccountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[identifier]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (m *MockStore) UpdateAccount(ctx context.Context, account store.Account) error {
	if m.UpdateAccountError != nil {
		return m.UpdateAccountError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.accounts[account.Identifier]
	if !ok {
		return store.ErrNotFound
	}
	existing.FirstName = account.FirstName
	existing.LastName = account.LastName
	if account.Password != "" {
		existing.Password = account.Password
	}
	m.accounts[account.Identifier] = existing
	return nil
}

func (m *MockStore) RemoveAccount(ctx context.Context, identifier string) error {
	if m.RemoveAccountError != nil {
		return m.RemoveAccountError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[identifier]; !ok {
		return store.ErrNotFound
	}
	delete(m.accounts, identifier)
	return nil
}

func (m *MockStore) LoadSubmissions(ctx context.Context) ([]store.Submission, error) {
	if m.LoadSubmissionsError != nil {
		return nil, m.LoadSubmissionsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	submissions := make([]store.Submission, len(m.submissions))
	copy(submissions, m.submissions)
	return submissions, nil
}

func (m *MockStore) AppendSubmission(ctx context.Context, submission *store.Submission) error {
	if m.AppendSubmissionError != nil {
		return m.AppendSubmissionError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Timestamp.IsZero() {
		submission.Timestamp = time.Now()
	}
	if n := len(m.submissions); n > 0 {
		submission.Timestamp = store.ClampTimestamp(submission.Timestamp, m.submissions[n-1].Timestamp)
	}
	m.submissions = append(m.submissions, *submission)
	return nil
}

func (m *MockStore) GetSubmission(ctx context.Context, id string) (*store.Submission, error) {
	if m.GetSubmissionError != nil {
		return nil, m.GetSubmissionError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.submissions {
		if m.submissions[i].ID == id {
			sub := m.submissions[i]
			return &sub, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) UpdateSubmissionLabel(ctx context.Context, id string, labelIndex int, prediction string) error {
	if m.UpdateSubmissionLabelError != nil {
		return m.UpdateSubmissionLabelError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.submissions {
		if m.submissions[i].ID == id {
			m.submissions[i].LabelIndex = labelIndex
			m.submissions[i].Prediction = prediction
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *MockStore) RemoveSubmission(ctx context.Context, id string) error {
	if m.RemoveSubmissionError != nil {
		return m.RemoveSubmissionError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.submissions {
		if m.submissions[i].ID == id {
			m.RemovedImages = append(m.RemovedImages, m.submissions[i].ImagePath)
			m.submissions = append(m.submissions[:i], m.submissions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
