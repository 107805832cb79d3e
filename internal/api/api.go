// Package api wires the gin engine, the session layer and the routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/leafcheck/internal/api/handler"
	"github.com/jon4hz/leafcheck/internal/api/session"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/metrics"
	"github.com/jon4hz/leafcheck/internal/static"
	"github.com/jon4hz/leafcheck/internal/web"
)

// ReadinessChecker reports whether the model server can take predictions.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	handler   *handler.Handler
	metrics   *metrics.Metrics
	readiness ReadinessChecker
	srv       *http.Server
}

// New creates the server. metrics and readiness may be nil.
func New(cfg *config.Config, deps handler.Deps, m *metrics.Metrics, readiness ReadinessChecker, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Store == nil || deps.Gate == nil || deps.Pages == nil || deps.Pipeline == nil || deps.Uploads == nil {
		return nil, fmt.Errorf("store, gate, pages, pipeline and uploads are required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		handler:   handler.New(cfg, deps),
		metrics:   m,
		readiness: readiness,
	}
	s.setupMiddleware(debug)
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	s.srv = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Engine returns the gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.ginEngine
}

func (s *Server) setupMiddleware(debug bool) {
	if debug {
		s.ginEngine.Use(gin.Logger())
	}
	s.ginEngine.Use(gin.Recovery())
	if s.metrics != nil {
		s.ginEngine.Use(s.metrics.Middleware())
	}
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/metrics"})))

	if s.cfg.CORS != nil && len(s.cfg.CORS.AllowedOrigins) > 0 {
		s.ginEngine.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s.ginEngine.Use(sessions.Sessions(session.Name, session.NewStore(s.cfg)))
	s.ginEngine.Use(session.Middleware())
	s.ginEngine.SetHTMLTemplate(web.Templates())
}

func (s *Server) setupRoutes() error {
	h := s.handler

	staticFS, err := static.FS()
	if err != nil {
		return err
	}
	s.ginEngine.StaticFS("/static", staticFS)

	s.ginEngine.GET("/healthz", s.healthz)
	if s.metrics != nil && s.cfg.Metrics != nil && s.cfg.Metrics.Enabled {
		s.ginEngine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET("/pages/:page", h.Page)

	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.POST("/logout", h.Logout)
	s.ginEngine.POST("/admin/login", h.AdminLogin)
	s.ginEngine.POST("/admin/logout", h.AdminLogout)

	protected := s.ginEngine.Group("/")
	protected.Use(session.RequireAuth())
	protected.POST("/predict", h.Predict)

	api := s.ginEngine.Group("/api")
	api.GET("/me", h.Me)
	api.GET("/pages", h.GetPages)
	api.GET("/catalogue", h.GetCatalogue)

	s.setupAdminRoutes()
	return nil
}

func (s *Server) setupAdminRoutes() {
	h := s.handler

	s.ginEngine.GET("/uploads/:name", session.RequireAdmin(), h.ServeUpload)

	adminGroup := s.ginEngine.Group("/api/admin")
	adminGroup.Use(session.RequireAdmin(), handler.NoStore())

	adminGroup.GET("/submissions", h.GetSubmissions)
	adminGroup.PATCH("/submissions/:id", h.UpdateSubmission)
	adminGroup.DELETE("/submissions/:id", h.DeleteSubmission)

	adminGroup.GET("/users", h.GetUsers)
	adminGroup.PATCH("/users/:identifier", h.UpdateUser)
	adminGroup.DELETE("/users/:identifier", h.DeleteUser)

	adminGroup.GET("/stats", h.GetStats)
	adminGroup.POST("/cache/clear", h.ClearCache)

	if h.Scheduler != nil {
		adminGroup.GET("/jobs", h.GetJobs)
		adminGroup.POST("/jobs/:id/run", h.RunJob)
		adminGroup.POST("/jobs/:id/enable", h.EnableJob)
		adminGroup.POST("/jobs/:id/disable", h.DisableJob)
	}
	if h.Maintenance != nil {
		adminGroup.POST("/uploads/sweep", h.SweepOrphans)
	}
}

func (s *Server) healthz(c *gin.Context) {
	if s.readiness != nil {
		if err := s.readiness.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	log.Info("starting API server", "listen", s.cfg.Listen)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server and waits for running requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
