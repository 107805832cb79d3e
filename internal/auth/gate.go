package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidIdentifier       = errors.New("invalid identifier")
	ErrDuplicateIdentifier     = errors.New("identifier already registered")
	ErrPasswordMismatch        = errors.New("passwords do not match")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidAdminCredentials = errors.New("invalid admin credentials")
	ErrLoginRequired           = errors.New("login required")
	ErrAdminRequired           = errors.New("admin required")
)

// mobileLength is the exact length of a mobile number identifier.
const mobileLength = 11

// RegistrationNotifier is told about new accounts.
type RegistrationNotifier interface {
	NotifyRegistration(ctx context.Context, account store.Account) error
}

// Registration is a sign-up request.
type Registration struct {
	Identifier      string `json:"identifier" form:"identifier"`
	FirstName       string `json:"firstName" form:"first_name"`
	LastName        string `json:"lastName" form:"last_name"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirm_password"`
}

// Gate checks credentials against the record store and drives the session state machine.
type Gate struct {
	store      store.Store
	admin      *config.AdminConfig
	identifier config.IdentifierKind
	cost       int
	notifier   RegistrationNotifier
	now        func() time.Time
}

// NewGate creates a new gate. notifier may be nil.
func NewGate(s store.Store, cfg *config.Config, notifier RegistrationNotifier) *Gate {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Gate{
		store:      s,
		admin:      cfg.Admin,
		identifier: cfg.Identifier,
		cost:       cost,
		notifier:   notifier,
		now:        time.Now,
	}
}

// IdentifierKind returns how accounts are keyed.
func (g *Gate) IdentifierKind() config.IdentifierKind {
	return g.identifier
}

// ValidIdentifier reports whether id is acceptable for the configured identifier kind.
func (g *Gate) ValidIdentifier(id string) bool {
	if g.identifier == config.IdentifierUsername {
		return strings.TrimSpace(id) != ""
	}
	return utf8.RuneCountInString(id) == mobileLength
}

// Register validates the request and creates the account.
// Checks run in order: identifier format, uniqueness, password confirmation.
func (g *Gate) Register(ctx context.Context, req Registration) (*store.Account, error) {
	if !g.ValidIdentifier(req.Identifier) {
		return nil, ErrInvalidIdentifier
	}

	_, err := g.store.GetAccount(ctx, req.Identifier)
	switch {
	case err == nil:
		return nil, ErrDuplicateIdentifier
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to look up account", "identifier", req.Identifier, "error", err)
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := HashPassword(req.Password, g.cost)
	if err != nil {
		return nil, err
	}

	account := store.Account{
		Identifier: req.Identifier,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   hash,
		CreatedAt:  g.now(),
	}
	if err := g.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateIdentifier
		}
		log.Error("failed to create account", "identifier", req.Identifier, "error", err)
		return nil, err
	}
	log.Info("Registered new account", "identifier", account.Identifier)

	if g.notifier != nil {
		if err := g.notifier.NotifyRegistration(ctx, account); err != nil {
			log.Warn("failed to send registration notification", "identifier", account.Identifier, "error", err)
		}
	}
	return &account, nil
}

// Login authenticates a user or, with the configured admin credentials, the admin.
// On failure the returned state is the unchanged input.
func (g *Gate) Login(ctx context.Context, state State, id, password string) (State, error) {
	if g.isAdmin(id, password) {
		state.Authenticated = true
		state.Admin = true
		state.Identifier = id
		state.Page = PageAdminDashboard
		log.Info("Admin logged in", "identifier", id)
		return state, nil
	}

	account, err := g.store.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return state, ErrInvalidCredentials
		}
		log.Error("failed to look up account", "identifier", id, "error", err)
		return state, err
	}

	ok, legacy := CheckPassword(account.Password, password)
	if !ok {
		return state, ErrInvalidCredentials
	}
	if legacy {
		g.upgradePassword(ctx, *account, password)
	}

	state.Authenticated = true
	state.Identifier = id
	state.Page = PageDiseaseRecognition
	log.Info("User logged in", "identifier", id)
	return state, nil
}

// upgradePassword replaces a plaintext password with a hash. Failures are logged only.
func (g *Gate) upgradePassword(ctx context.Context, account store.Account, password string) {
	hash, err := HashPassword(password, g.cost)
	if err != nil {
		log.Warn("failed to hash legacy password", "identifier", account.Identifier, "error", err)
		return
	}
	account.Password = hash
	if err := g.store.UpdateAccount(ctx, account); err != nil {
		log.Warn("failed to upgrade legacy password", "identifier", account.Identifier, "error", err)
		return
	}
	log.Info("Upgraded legacy password", "identifier", account.Identifier)
}

// AdminLogin sets the admin flag without touching the user identity.
func (g *Gate) AdminLogin(state State, username, password string) (State, error) {
	if !g.isAdmin(username, password) {
		return state, ErrInvalidAdminCredentials
	}
	state.Admin = true
	state.Page = PageAdminDashboard
	log.Info("Admin logged in", "identifier", username)
	return state, nil
}

// AdminLogout drops the admin flag and returns to the home page.
func (g *Gate) AdminLogout(state State) State {
	state.Admin = false
	state.Page = PageHome
	return state
}

// Logout resets the session.
func (g *Gate) Logout(State) State {
	return Anonymous()
}

// Authorize checks whether the session may access page.
func (g *Gate) Authorize(state State, page Page) error {
	switch page {
	case PageDiseaseRecognition:
		if !state.Authenticated {
			return ErrLoginRequired
		}
	case PageAdminDashboard:
		if !state.Admin {
			return ErrAdminRequired
		}
	}
	return nil
}

func (g *Gate) isAdmin(username, password string) bool {
	if g.admin == nil || g.admin.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.admin.Username)) == 1
	passOK, _ := CheckPassword(g.admin.Password, password)
	return userOK && passOK
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a stored password with a candidate. Stored values that are not bcrypt
// hashes are compared as plaintext, in which case legacy is true.
func CheckPassword(stored, candidate string) (ok, legacy bool) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, true
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
