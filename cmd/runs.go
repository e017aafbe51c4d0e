package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"argus/config"
	"argus/core"
	"argus/storage"
)

func newRunsCmd() *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabasePath == "" {
				return fmt.Errorf("no database configured: set database_path or ARGUS_DATABASE_PATH")
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := storage.NewStore(cfg.DatabaseFile(), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				infoColor.Println("No runs recorded")
				return nil
			}

			headerColor.Printf("%-36s  %-20s  %8s  %8s  %8s  %8s\n",
				"RUN", "STARTED", "EVENTS", "SESSIONS", "CRITICAL", "HIGH")
			for _, run := range runs {
				fmt.Printf("%-36s  %-20s  %8d  %8d  %8d  %8d\n",
					run.ID,
					run.StartedAt.Format(time.RFC3339),
					run.Events,
					run.Sessions,
					run.LevelCounts[core.RiskCritical],
					run.LevelCounts[core.RiskHigh])
			}
			return nil
		},
	}

	runsCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return runsCmd
}
