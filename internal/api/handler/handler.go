package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/api/session"
	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/cache"
	"github.com/jon4hz/leafcheck/internal/classify"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/pages"
	"github.com/jon4hz/leafcheck/internal/scheduler"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/jon4hz/leafcheck/internal/uploads"
	"github.com/jon4hz/leafcheck/internal/web"
	"golang.org/x/sync/errgroup"
)

// Deps are the services the handlers work on.
type Deps struct {
	Store       store.Store
	Gate        *auth.Gate
	Pages       *pages.Controller
	Pipeline    *classify.Pipeline
	Uploads     *uploads.Store
	Scheduler   *scheduler.Scheduler
	Maintenance *scheduler.Maintenance
	// PredictionCache may be nil if caching is disabled.
	PredictionCache *cache.PredictionCache
}

// Handler serves the pages and the JSON API.
type Handler struct {
	cfg *config.Config
	Deps
}

// New creates a new handler.
func New(cfg *config.Config, deps Deps) *Handler {
	return &Handler{cfg: cfg, Deps: deps}
}

// Home renders the page stored in the session.
func (h *Handler) Home(c *gin.Context) {
	state, view := h.Pages.Current(session.State(c))
	h.renderView(c, http.StatusOK, state, view, nil)
}

// Page renders the requested page.
func (h *Handler) Page(c *gin.Context) {
	state, view := h.Pages.Navigate(session.State(c), c.Param("page"))
	h.renderView(c, http.StatusOK, state, view, nil)
}

// renderView saves the session and renders the view as HTML or JSON.
func (h *Handler) renderView(c *gin.Context, status int, state auth.State, view pages.View, result *classify.Result) {
	notices := session.Flashes(c)
	if err := session.Save(c, state); err != nil {
		log.Error("Failed to save session", "error", err)
	}

	var admin *web.AdminData
	if view.Page == auth.PageAdminDashboard && !view.AdminLogin {
		var err error
		admin, err = h.adminData(c)
		if err != nil {
			log.Error("Failed to load admin dashboard data", "error", err)
			view.Notices = append(view.Notices, pages.Error("Failed to load the dashboard data."))
		}
	}

	if session.WantsJSON(c) {
		resp := gin.H{
			"success": true,
			"view":    view,
			"pages":   h.Pages.Pages(state),
			"state":   state,
			"notices": notices,
		}
		if result != nil {
			resp["result"] = result
		}
		if admin != nil {
			resp["admin"] = admin
		}
		c.JSON(status, resp)
		return
	}

	c.HTML(status, web.Layout, web.PageData{
		View:             view,
		Nav:              h.Pages.Pages(state),
		State:            state,
		Notices:          notices,
		IdentifierLabel:  identifierLabel(h.cfg.Identifier),
		IdentifierLength: identifierLength(h.cfg.Identifier),
		MaxUploadSize:    h.cfg.Uploads.MaxSize,
		Result:           result,
		Admin:            admin,
	})
}

func identifierLabel(kind config.IdentifierKind) string {
	if kind == config.IdentifierUsername {
		return "Username"
	}
	return "Mobile Number"
}

func identifierLength(kind config.IdentifierKind) int {
	if kind == config.IdentifierUsername {
		return 0
	}
	return 11
}

// adminData loads everything shown on the admin dashboard.
func (h *Handler) adminData(c *gin.Context) (*web.AdminData, error) {
	ctx := c.Request.Context()

	var (
		accounts    map[string]store.Account
		submissions []store.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = h.Store.LoadAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = h.Store.LoadSubmissions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &web.AdminData{
		Stats: store.ComputeStats(accounts, submissions),
	}
	if h.Scheduler != nil {
		data.Jobs = h.Scheduler.GetJobs()
	}

	for _, s := range submissions {
		_, statErr := os.Stat(s.ImagePath)
		data.Submissions = append(data.Submissions, web.SubmissionView{
			Submission:   s,
			Text:         submissionLine(s),
			ImageURL:     "/uploads/" + filepath.Base(s.ImagePath),
			ImageMissing: statErr != nil,
		})
	}

	for _, a := range sortedAccounts(accounts) {
		data.Users = append(data.Users, web.UserView{
			Identifier: a.Identifier,
			Text:       userLine(h.cfg.Identifier, a),
		})
	}
	return data, nil
}

func submissionLine(s store.Submission) string {
	return "User " + s.Identifier + " uploaded image " + s.ImagePath +
		" at " + s.Timestamp.Format("2006-01-02 15:04:05.000000") + ". Prediction: " + s.Prediction
}

func userLine(kind config.IdentifierKind, a store.Account) string {
	label := "Mobile"
	if kind == config.IdentifierUsername {
		label = "Username"
	}
	return label + ": " + a.Identifier + ", Name: " + a.FirstName + " " + a.LastName
}

func sortedAccounts(accounts map[string]store.Account) []store.Account {
	out := make([]store.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}
