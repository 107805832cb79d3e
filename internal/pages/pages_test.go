package pages

import (
	"testing"

	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	anon  = auth.Anonymous()
	user  = auth.State{Authenticated: true, Identifier: "01712345678", Page: auth.PageHome}
	admin = auth.State{Authenticated: true, Admin: true, Identifier: "admin", Page: auth.PageHome}
)

func pageNames(entries []Entry) []auth.Page {
	return lo.Map(entries, func(e Entry, _ int) auth.Page { return e.Page })
}

func TestPages(t *testing.T) {
	listed := NewController(config.PageVisibilityListed)
	hidden := NewController(config.PageVisibilityHidden)

	all := []auth.Page{
		auth.PageHome, auth.PageDiseaseRecognition, auth.PageLogin,
		auth.PageRegister, auth.PageAdminDashboard, auth.PageAbout,
	}
	assert.Equal(t, all, pageNames(listed.Pages(anon)))
	assert.Equal(t, all, pageNames(hidden.Pages(admin)))
	assert.NotContains(t, pageNames(hidden.Pages(user)), auth.PageAdminDashboard)

	entries := listed.Pages(anon)
	assert.True(t, entries[0].Active)
	assert.Equal(t, "Home", entries[0].Title)
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name       string
		visibility config.PageVisibility
		state      auth.State
		requested  string
		want       auth.Page
		adminLogin bool
		notice     Level
	}{
		{"home", config.PageVisibilityListed, anon, "home", auth.PageHome, false, ""},
		{"unknown page", config.PageVisibilityListed, anon, "settings", auth.PageHome, false, LevelError},
		{"recognition anonymous", config.PageVisibilityListed, anon, "disease-recognition", auth.PageLogin, false, LevelWarning},
		{"recognition user", config.PageVisibilityListed, user, "disease-recognition", auth.PageDiseaseRecognition, false, ""},
		{"admin listed anonymous", config.PageVisibilityListed, anon, "admin-dashboard", auth.PageAdminDashboard, true, ""},
		{"admin hidden user", config.PageVisibilityHidden, user, "admin-dashboard", auth.PageHome, false, LevelWarning},
		{"admin as admin", config.PageVisibilityHidden, admin, "admin-dashboard", auth.PageAdminDashboard, false, ""},
		{"about", config.PageVisibilityHidden, user, "about", auth.PageAbout, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.visibility)
			state, view := c.Navigate(tt.state, tt.requested)

			assert.Equal(t, tt.want, view.Page)
			assert.Equal(t, tt.want, state.Page, "selected page is stored in the session")
			assert.Equal(t, tt.adminLogin, view.AdminLogin)
			if tt.notice == "" {
				assert.Empty(t, view.Notices)
			} else {
				require.Len(t, view.Notices, 1)
				assert.Equal(t, tt.notice, view.Notices[0].Level)
			}
			assert.Equal(t, tt.state.Authenticated, state.Authenticated, "navigation never changes identity")
			assert.Equal(t, tt.state.Admin, state.Admin)
		})
	}
}

func TestNavigate_LoginWarning(t *testing.T) {
	_, view := NewController(config.PageVisibilityListed).Navigate(anon, "disease-recognition")
	require.Len(t, view.Notices, 1)
	assert.Equal(t, "Please log in to access Disease Recognition.", view.Notices[0].Text)
}

func TestCurrent(t *testing.T) {
	c := NewController("")
	assert.Equal(t, config.PageVisibilityListed, c.Visibility())

	state, view := c.Current(auth.State{})
	assert.Equal(t, auth.PageHome, view.Page)
	assert.Equal(t, auth.PageHome, state.Page)
}
