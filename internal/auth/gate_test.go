package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/jon4hz/leafcheck/internal/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	accounts []store.Account
	err      error
}

func (r *recordingNotifier) NotifyRegistration(_ context.Context, account store.Account) error {
	r.accounts = append(r.accounts, account)
	return r.err
}

type GateTestSuite struct {
	suite.Suite
	store    *mock.MockStore
	notifier *recordingNotifier
	gate     *Gate
	ctx      context.Context
}

func testConfig() *config.Config {
	return &config.Config{
		Identifier: config.IdentifierMobile,
		BcryptCost: bcrypt.MinCost,
		Admin: &config.AdminConfig{
			Username: "admin",
			Password: "admin",
		},
	}
}

func (s *GateTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = mock.NewMockStore()
	s.notifier = &recordingNotifier{}
	s.gate = NewGate(s.store, testConfig(), s.notifier)
}

func (s *GateTestSuite) register(id, pw string) {
	_, err := s.gate.Register(s.ctx, Registration{
		Identifier:      id,
		FirstName:       "Rahim",
		LastName:        "Uddin",
		Password:        pw,
		ConfirmPassword: pw,
	})
	s.Require().NoError(err)
}

func (s *GateTestSuite) TestRegister() {
	account, err := s.gate.Register(s.ctx, Registration{
		Identifier:      "01712345678",
		FirstName:       "Rahim",
		LastName:        "Uddin",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	s.Require().NoError(err)
	s.Equal("01712345678", account.Identifier)
	s.NotEqual("secret", account.Password, "password must be stored hashed")

	stored, err := s.store.GetAccount(s.ctx, "01712345678")
	s.Require().NoError(err)
	s.Equal("Rahim Uddin", stored.FullName())
	s.Require().Len(s.notifier.accounts, 1)
}

func (s *GateTestSuite) TestRegisterValidationOrder() {
	s.register("01712345678", "secret")

	tests := []struct {
		name string
		req  Registration
		want error
	}{
		{
			name: "short identifier wins over mismatch",
			req:  Registration{Identifier: "0171", Password: "a", ConfirmPassword: "b"},
			want: ErrInvalidIdentifier,
		},
		{
			name: "long identifier",
			req:  Registration{Identifier: "017123456789", Password: "a", ConfirmPassword: "a"},
			want: ErrInvalidIdentifier,
		},
		{
			name: "duplicate wins over mismatch",
			req:  Registration{Identifier: "01712345678", Password: "a", ConfirmPassword: "b"},
			want: ErrDuplicateIdentifier,
		},
		{
			name: "mismatch",
			req:  Registration{Identifier: "01812345678", Password: "a", ConfirmPassword: "b"},
			want: ErrPasswordMismatch,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.gate.Register(s.ctx, tt.req)
			s.Require().ErrorIs(err, tt.want)
		})
	}

	accounts, err := s.store.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Len(accounts, 1, "failed registrations must not mutate the store")
}

func (s *GateTestSuite) TestRegisterUsernameMode() {
	cfg := testConfig()
	cfg.Identifier = config.IdentifierUsername
	gate := NewGate(s.store, cfg, nil)

	_, err := gate.Register(s.ctx, Registration{Identifier: "  ", Password: "a", ConfirmPassword: "a"})
	s.Require().ErrorIs(err, ErrInvalidIdentifier)

	_, err = gate.Register(s.ctx, Registration{Identifier: "farmer", Password: "a", ConfirmPassword: "a"})
	s.Require().NoError(err)
}

func (s *GateTestSuite) TestRegisterStoreRace() {
	s.store.CreateAccountError = store.ErrDuplicate
	_, err := s.gate.Register(s.ctx, Registration{Identifier: "01712345678", Password: "a", ConfirmPassword: "a"})
	s.Require().ErrorIs(err, ErrDuplicateIdentifier)
}

func (s *GateTestSuite) TestRegisterNotifierFailureIsIgnored() {
	s.notifier.err = errors.New("smtp down")
	s.register("01712345678", "secret")
}

func (s *GateTestSuite) TestLogin() {
	s.register("01712345678", "secret")

	state, err := s.gate.Login(s.ctx, Anonymous(), "01712345678", "secret")
	s.Require().NoError(err)
	s.True(state.Authenticated)
	s.False(state.Admin)
	s.Equal("01712345678", state.Identifier)
	s.Equal(PageDiseaseRecognition, state.Page)
	s.Equal(RoleUser, state.Role())
}

func (s *GateTestSuite) TestLoginFailureLeavesStateUnchanged() {
	s.register("01712345678", "secret")
	before := State{Page: PageLogin}

	for _, tc := range [][2]string{
		{"01712345678", "wrong"},
		{"01899999999", "secret"},
		{"", ""},
	} {
		state, err := s.gate.Login(s.ctx, before, tc[0], tc[1])
		s.Require().ErrorIs(err, ErrInvalidCredentials)
		s.Equal(before, state)
	}
}

func (s *GateTestSuite) TestLoginAdminCredentials() {
	state, err := s.gate.Login(s.ctx, Anonymous(), "admin", "admin")
	s.Require().NoError(err)
	s.True(state.Admin)
	s.True(state.Authenticated)
	s.Equal(PageAdminDashboard, state.Page)
	s.Equal(RoleAdmin, state.Role())
}

func (s *GateTestSuite) TestLoginLegacyPlaintextIsUpgraded() {
	s.Require().NoError(s.store.CreateAccount(s.ctx, store.Account{
		Identifier: "01712345678",
		Password:   "plain",
	}))

	_, err := s.gate.Login(s.ctx, Anonymous(), "01712345678", "plain")
	s.Require().NoError(err)

	stored, err := s.store.GetAccount(s.ctx, "01712345678")
	s.Require().NoError(err)
	s.NotEqual("plain", stored.Password)
	s.True(isBcryptHash(stored.Password))

	// the upgraded hash keeps working
	_, err = s.gate.Login(s.ctx, Anonymous(), "01712345678", "plain")
	s.Require().NoError(err)
}

func (s *GateTestSuite) TestAdminLogin() {
	user := State{Authenticated: true, Identifier: "01712345678", Page: PageAdminDashboard}

	state, err := s.gate.AdminLogin(user, "admin", "nope")
	s.Require().ErrorIs(err, ErrInvalidAdminCredentials)
	s.Equal(user, state)

	state, err = s.gate.AdminLogin(user, "admin", "admin")
	s.Require().NoError(err)
	s.True(state.Admin)
	s.Equal("01712345678", state.Identifier, "admin login keeps the user identity")

	state = s.gate.AdminLogout(state)
	s.False(state.Admin)
	s.True(state.Authenticated)
	s.Equal(PageHome, state.Page)
}

func (s *GateTestSuite) TestAdminHashedPassword() {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	s.Require().NoError(err)
	cfg := testConfig()
	cfg.Admin.Password = hash
	gate := NewGate(s.store, cfg, nil)

	_, err = gate.AdminLogin(Anonymous(), "admin", "s3cret")
	s.Require().NoError(err)
	_, err = gate.AdminLogin(Anonymous(), "admin", hash)
	s.Require().ErrorIs(err, ErrInvalidAdminCredentials)
}

func (s *GateTestSuite) TestLogout() {
	state := State{Authenticated: true, Admin: true, Identifier: "x", Page: PageAbout}
	s.Equal(Anonymous(), s.gate.Logout(state))
}

func (s *GateTestSuite) TestAuthorize() {
	anon := Anonymous()
	user := State{Authenticated: true, Identifier: "01712345678"}
	admin := State{Admin: true}

	s.Require().ErrorIs(s.gate.Authorize(anon, PageDiseaseRecognition), ErrLoginRequired)
	s.Require().ErrorIs(s.gate.Authorize(anon, PageAdminDashboard), ErrAdminRequired)
	s.Require().NoError(s.gate.Authorize(anon, PageHome))
	s.Require().NoError(s.gate.Authorize(user, PageDiseaseRecognition))
	s.Require().ErrorIs(s.gate.Authorize(user, PageAdminDashboard), ErrAdminRequired)
	s.Require().NoError(s.gate.Authorize(admin, PageAdminDashboard))
}

func TestGateTestSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please enter a valid 11-digit mobile number.", Message(ErrInvalidIdentifier, config.IdentifierMobile))
	assert.Equal(t, "This mobile number is already registered.", Message(ErrDuplicateIdentifier, config.IdentifierMobile))
	assert.Equal(t, "Passwords do not match.", Message(ErrPasswordMismatch, config.IdentifierMobile))
	assert.Equal(t, "Login failed: Invalid mobile number or password.", Message(ErrInvalidCredentials, config.IdentifierMobile))
	assert.Equal(t, "Login failed: Invalid username or password.", Message(ErrInvalidCredentials, config.IdentifierUsername))
	assert.Equal(t, "Invalid admin credentials.", Message(ErrInvalidAdminCredentials, config.IdentifierMobile))
	assert.Equal(t, MsgUnexpectedError, Message(errors.New("boom"), config.IdentifierMobile))
}

func TestStateNormalize(t *testing.T) {
	assert.Equal(t, Anonymous(), State{}.Normalize())
	assert.Equal(t, State{Page: PageHome}, State{Identifier: "stale"}.Normalize())
}
