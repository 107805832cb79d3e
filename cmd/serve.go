package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/api"
	"github.com/jon4hz/leafcheck/internal/api/handler"
	"github.com/jon4hz/leafcheck/internal/auth"
	"github.com/jon4hz/leafcheck/internal/cache"
	"github.com/jon4hz/leafcheck/internal/catalogue"
	"github.com/jon4hz/leafcheck/internal/classify"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/database"
	"github.com/jon4hz/leafcheck/internal/inference"
	"github.com/jon4hz/leafcheck/internal/metrics"
	"github.com/jon4hz/leafcheck/internal/notify/email"
	"github.com/jon4hz/leafcheck/internal/pages"
	"github.com/jon4hz/leafcheck/internal/scheduler"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/jon4hz/leafcheck/internal/store/jsonstore"
	"github.com/jon4hz/leafcheck/internal/uploads"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the leafcheck server",
	Long:  `Start the leafcheck web server and the background maintenance jobs.`,
	Example: `leafcheck serve --config config.yml
leafcheck serve -c /path/to/config.yml --log-level debug
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openStore opens the record store selected in the config.
func openStore(cfg *config.Config, images store.ImageRemover) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.DatabasePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return database.New(cfg.Store.DatabasePath, images)
	default:
		return jsonstore.New(cfg.Store.DataDir, cfg.Store.UsersFile, cfg.Store.SubmissionsFile, images)
	}
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	up, err := uploads.New(cfg.Uploads)
	if err != nil {
		log.Fatalf("failed to initialize uploads: %v", err)
	}

	st, err := openStore(cfg, up)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer st.Close() //nolint:errcheck

	cat, err := catalogue.New(cfg.Language)
	if err != nil {
		log.Fatalf("failed to load class catalogue: %v", err)
	}

	m := metrics.New()

	var predCache *cache.PredictionCache
	if cfg.Cache != nil && cfg.Cache.Enabled {
		predCache = cache.NewPredictionCache(cfg.Cache, cfg.Model.Name)
	}

	tf := inference.NewTFServingClient(cfg.Model)
	svc := inference.NewService(tf, cfg.Model.InputSize, cat.Len(), predCache, m)
	pipeline := classify.NewPipeline(classify.NewClassifier(svc, cat), up, st, m)

	gate := auth.NewGate(st, cfg, email.New(cfg.Email, cfg.ServerURL))

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("failed to create scheduler: %v", err)
	}
	maintenance := scheduler.NewMaintenance(st, up, cfg.Uploads)
	if err := maintenance.Register(sched); err != nil {
		log.Fatalf("failed to register maintenance jobs: %v", err)
	}

	server, err := api.New(cfg, handler.Deps{
		Store:           st,
		Gate:            gate,
		Pages:           pages.NewController(cfg.Admin.PageVisibility),
		Pipeline:        pipeline,
		Uploads:         up,
		Scheduler:       sched,
		Maintenance:     maintenance,
		PredictionCache: predCache,
	}, m, tf, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	readyCtx, readyCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := tf.Ready(readyCtx); err != nil {
		log.Warn("model server is not ready yet, predictions will fail until it is", "url", cfg.Model.URL, "error", err)
	}
	readyCancel()

	sched.Start()

	// Start the API server in a goroutine
	go func() {
		if err := server.Run(); err != nil {
			log.Error("API server error", "error", err)
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	log.Info("leafcheck started successfully", "store", cfg.Store.Backend, "language", cfg.Language, "model", cfg.Model.Name)
	select {
	case <-c:
	case <-ctx.Done():
	}
	log.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down API server", "error", err)
	}
	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler", "error", err)
	}
}
