// Package session keeps the auth state in a signed cookie and guards routes with it.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/pages"
)

const (
	// Name is the name of the session cookie.
	Name = "leafcheck_session"

	stateKey = "state"

	keyAuthenticated = "authenticated"
	keyAdmin         = "admin"
	keyIdentifier    = "identifier"
	keyPage          = "page"
)

func init() {
	gob.Register(pages.Notice{})
}

// NewStore creates the cookie store for sessions.
func NewStore(cfg *config.Config) sessions.Store {
	store := cookie.NewStore([]byte(cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Load reads the auth state from the session. Missing values decode to the anonymous state.
func Load(c *gin.Context) auth.State {
	session := sessions.Default(c)
	state := auth.State{}
	if v, ok := session.Get(keyAuthenticated).(bool); ok {
		state.Authenticated = v
	}
	if v, ok := session.Get(keyAdmin).(bool); ok {
		state.Admin = v
	}
	if v, ok := session.Get(keyIdentifier).(string); ok {
		state.Identifier = v
	}
	if v, ok := session.Get(keyPage).(string); ok {
		if page, known := pages.Parse(v); known {
			state.Page = page
		}
	}
	return state.Normalize()
}

// Save writes the auth state to the session and the request context.
func Save(c *gin.Context, state auth.State) error {
	session := sessions.Default(c)
	session.Set(keyAuthenticated, state.Authenticated)
	session.Set(keyAdmin, state.Admin)
	session.Set(keyIdentifier, state.Identifier)
	session.Set(keyPage, string(state.Page))
	c.Set(stateKey, state)
	return session.Save()
}

// Flash queues notices for the next rendered page.
func Flash(c *gin.Context, notices ...pages.Notice) {
	session := sessions.Default(c)
	for _, n := range notices {
		session.AddFlash(n)
	}
	if err := session.Save(); err != nil {
		log.Error("failed to save flash notices", "error", err)
	}
}

// Flashes pops all queued notices.
func Flashes(c *gin.Context) []pages.Notice {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Error("failed to save session after reading flashes", "error", err)
	}
	notices := make([]pages.Notice, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(pages.Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}

// Middleware loads the auth state into the request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(stateKey, Load(c))
		c.Next()
	}
}

// State returns the auth state stored by Middleware.
func State(c *gin.Context) auth.State {
	if v, ok := c.Get(stateKey); ok {
		if state, ok := v.(auth.State); ok {
			return state
		}
	}
	return auth.Anonymous()
}

// WantsJSON reports whether the client prefers a JSON response.
func WantsJSON(c *gin.Context) bool {
	if c.ContentType() == gin.MIMEJSON {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// RequireAuth rejects anonymous sessions. Browsers are sent to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if State(c).Authenticated {
			c.Next()
			return
		}
		deny(c, http.StatusUnauthorized, auth.ErrLoginRequired, auth.PageLogin)
	}
}

// RequireAdmin rejects sessions without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if State(c).Admin {
			c.Next()
			return
		}
		deny(c, http.StatusForbidden, auth.ErrAdminRequired, auth.PageAdminDashboard)
	}
}

func deny(c *gin.Context, status int, err error, page auth.Page) {
	msg := auth.Message(err, "")
	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{
			"success": false,
			"error":   msg,
		})
		return
	}
	Flash(c, pages.Warning(msg))
	c.Redirect(http.StatusSeeOther, "/pages/"+string(page))
	c.Abort()
}
