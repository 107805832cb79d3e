// Package pages resolves which view a session gets to see.
package pages

import (
	"fmt"

	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/samber/lo"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a flash message shown above a view.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Info, Success, Warning and Error build notices.
func Info(text string) Notice    { return Notice{Level: LevelInfo, Text: text} }
func Success(text string) Notice { return Notice{Level: LevelSuccess, Text: text} }
func Warning(text string) Notice { return Notice{Level: LevelWarning, Text: text} }
func Error(text string) Notice   { return Notice{Level: LevelError, Text: text} }

// Entry is one item of the navigation.
type Entry struct {
	Page   auth.Page `json:"page"`
	Title  string    `json:"title"`
	Active bool      `json:"active"`
}

// order is the navigation order.
var order = []auth.Page{
	auth.PageHome,
	auth.PageDiseaseRecognition,
	auth.PageLogin,
	auth.PageRegister,
	auth.PageAdminDashboard,
	auth.PageAbout,
}

var titles = map[auth.Page]string{
	auth.PageHome:               "Home",
	auth.PageDiseaseRecognition: "Disease Recognition",
	auth.PageLogin:              "Login",
	auth.PageRegister:           "Register",
	auth.PageAdminDashboard:     "Admin Dashboard",
	auth.PageAbout:              "About",
}

// Title returns the human readable name of a page.
func Title(page auth.Page) string {
	if t, ok := titles[page]; ok {
		return t
	}
	return string(page)
}

// Parse resolves a page name.
func Parse(name string) (auth.Page, bool) {
	page := auth.Page(name)
	_, ok := titles[page]
	return page, ok
}

// View is the resolved page to render.
type View struct {
	Page  auth.Page `json:"page"`
	Title string    `json:"title"`
	// AdminLogin renders the inline admin login instead of the dashboard.
	AdminLogin bool     `json:"adminLogin,omitempty"`
	Notices    []Notice `json:"notices,omitempty"`
}

// Controller applies navigation rules.
type Controller struct {
	visibility config.PageVisibility
}

// NewController creates a page controller.
func NewController(visibility config.PageVisibility) *Controller {
	if visibility == "" {
		visibility = config.PageVisibilityListed
	}
	return &Controller{visibility: visibility}
}

// Visibility returns the admin dashboard visibility policy.
func (c *Controller) Visibility() config.PageVisibility {
	return c.visibility
}

// Pages returns the navigation entries available to the session.
func (c *Controller) Pages(state auth.State) []Entry {
	visible := lo.Filter(order, func(p auth.Page, _ int) bool {
		return p != auth.PageAdminDashboard || c.visibility == config.PageVisibilityListed || state.Admin
	})
	return lo.Map(visible, func(p auth.Page, _ int) Entry {
		return Entry{Page: p, Title: Title(p), Active: p == state.Page}
	})
}

// Navigate resolves the requested page for the session. The returned state remembers the
// page that is actually shown.
func (c *Controller) Navigate(state auth.State, requested string) (auth.State, View) {
	page, ok := Parse(requested)
	if !ok {
		return c.show(state, auth.PageHome, false, Error(fmt.Sprintf("Unknown page %q.", requested)))
	}

	switch page {
	case auth.PageDiseaseRecognition:
		if !state.Authenticated {
			return c.show(state, auth.PageLogin, false, Warning(auth.MsgLoginRequired))
		}
	case auth.PageAdminDashboard:
		if !state.Admin {
			if c.visibility == config.PageVisibilityHidden {
				return c.show(state, auth.PageHome, false, Warning(auth.MsgAdminRequired))
			}
			return c.show(state, auth.PageAdminDashboard, true)
		}
	}
	return c.show(state, page, false)
}

// Current resolves the page stored in the session.
func (c *Controller) Current(state auth.State) (auth.State, View) {
	return c.Navigate(state, string(state.Normalize().Page))
}

func (c *Controller) show(state auth.State, page auth.Page, adminLogin bool, notices ...Notice) (auth.State, View) {
	state.Page = page
	return state, View{
		Page:       page,
		Title:      Title(page),
		AdminLogin: adminLogin,
		Notices:    notices,
	}
}
