// Package auth implements the session state machine, registration and credential checks.
package auth

// Page names a view of the application.
type Page string

const (
	PageHome               Page = "home"
	PageLogin              Page = "login"
	PageRegister           Page = "register"
	PageDiseaseRecognition Page = "disease-recognition"
	PageAdminDashboard     Page = "admin-dashboard"
	PageAbout              Page = "about"
)

// Role is the coarse access level of a session.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// State is the per-session authentication state.
type State struct {
	Authenticated bool   `json:"authenticated"`
	Admin         bool   `json:"admin"`
	Identifier    string `json:"identifier,omitempty"`
	Page          Page   `json:"page"`
}

// Anonymous returns the initial session state.
func Anonymous() State {
	return State{Page: PageHome}
}

// Role returns the highest role held by the session.
func (s State) Role() Role {
	switch {
	case s.Admin:
		return RoleAdmin
	case s.Authenticated:
		return RoleUser
	default:
		return RoleAnonymous
	}
}

// Normalize fills in defaults for a state decoded from an older or empty session.
func (s State) Normalize() State {
	if s.Page == "" {
		s.Page = PageHome
	}
	if !s.Authenticated {
		s.Identifier = ""
	}
	return s
}
