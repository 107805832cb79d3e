package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/database"
	"github.com/jon4hz/leafcheck/internal/store/jsonstore"
	"github.com/spf13/cobra"
)

var migrateCmdFlags struct {
	Force bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the json records into the sqlite database",
	Long:  `Create or update the sqlite schema and import the accounts and the submission log from the json files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		src, err := jsonstore.New(cfg.Store.DataDir, cfg.Store.UsersFile, cfg.Store.SubmissionsFile, nil)
		if err != nil {
			return fmt.Errorf("failed to open json store: %w", err)
		}
		defer src.Close() //nolint: errcheck

		if err := os.MkdirAll(filepath.Dir(cfg.Store.DatabasePath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := database.New(cfg.Store.DatabasePath, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		ctx := cmd.Context()

		existing, err := db.LoadSubmissions(ctx)
		if err != nil {
			return fmt.Errorf("failed to read database: %w", err)
		}
		if len(existing) > 0 && !migrateCmdFlags.Force {
			return fmt.Errorf("database already holds %d submissions, use --force to import anyway", len(existing))
		}

		accounts, err := src.LoadAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
		if err := db.SaveAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("failed to import accounts: %w", err)
		}

		submissions, err := src.LoadSubmissions(ctx)
		if err != nil {
			return fmt.Errorf("failed to load submissions: %w", err)
		}
		for i := range submissions {
			if err := db.AppendSubmission(ctx, &submissions[i]); err != nil {
				return fmt.Errorf("failed to import submission %s: %w", submissions[i].ID, err)
			}
		}

		log.Info("Migration completed successfully", "accounts", len(accounts), "submissions", len(submissions), "database", cfg.Store.DatabasePath)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCmdFlags.Force, "force", false, "Import even if the database already holds submissions")
	rootCmd.AddCommand(migrateCmd)
}
