package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/scheduler"
	"github.com/jon4hz/leafcheck/internal/uploads"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove uploaded images no submission refers to",
	Long:  `This command runs the orphan sweep and the thumbnail cleanup once, the same jobs the server runs on a schedule.`,
	Run:   prune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func prune(cmd *cobra.Command, _ []string) {
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

	maintenance := scheduler.NewMaintenance(st, up, cfg.Uploads)

	log.Info("Starting sweep of orphaned uploads...")
	removed, err := maintenance.SweepOrphans(cmd.Context())
	if err != nil {
		log.Fatalf("failed to sweep orphaned uploads: %v", err)
	}
	if err := maintenance.PruneThumbnails(cmd.Context()); err != nil {
		log.Fatalf("failed to prune thumbnails: %v", err)
	}

	log.Info("Successfully pruned uploads", "removed", len(removed))
}
