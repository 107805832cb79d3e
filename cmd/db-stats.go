package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/mergestat/timediff"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show record store statistics",
	Long:  `Display statistics about registered accounts and logged predictions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		st, err := openStore(cfg, nil)
		if err != nil {
			return fmt.Errorf("failed to open record store: %w", err)
		}
		defer st.Close() //nolint: errcheck

		stats, err := store.LoadStats(cmd.Context(), st)
		if err != nil {
			return fmt.Errorf("failed to get store stats: %w", err)
		}

		fmt.Printf("Record Store Statistics (%s):\n", cfg.Store.Backend)
		fmt.Printf("Total Accounts: %s\n", humanize.Comma(int64(stats.TotalAccounts)))
		fmt.Printf("Total Submissions: %s\n", humanize.Comma(int64(stats.TotalSubmissions)))
		fmt.Printf("Active Users: %s\n", humanize.Comma(int64(stats.ActiveUsers)))

		if stats.FirstSubmission != nil {
			fmt.Printf("First Submission: %s (%s)\n", stats.FirstSubmission.Format(time.RFC3339), timediff.TimeDiff(*stats.FirstSubmission))
		}
		if stats.LastSubmission != nil {
			fmt.Printf("Last Submission: %s (%s)\n", stats.LastSubmission.Format(time.RFC3339), timediff.TimeDiff(*stats.LastSubmission))
		}

		if len(stats.Labels) > 0 {
			fmt.Println("\nPredictions:")
			for _, l := range stats.Labels {
				fmt.Printf("  %-50s %s\n", l.Prediction, humanize.Comma(int64(l.Count)))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
