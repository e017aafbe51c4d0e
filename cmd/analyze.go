package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"argus/catalog"
	"argus/config"
	"argus/core"
	"argus/correlate"
	"argus/ingest"
	"argus/metrics"
	"argus/risk"
	"argus/sessionize"
	"argus/storage"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		timelinePath string
		accessPath   string
		changePath   string
		outputDir    string
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline",
		Long: `Read the normalized event table (a unified timeline, or separate
access-log and change-document tables), correlate, sessionize, score, and
export the enriched table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if timelinePath != "" {
				cfg.Input.Timeline = timelinePath
			}
			if accessPath != "" {
				cfg.Input.AccessLog = accessPath
			}
			if changePath != "" {
				cfg.Input.ChangeLog = changePath
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if cfg.Input.Timeline == "" && cfg.Input.AccessLog == "" {
				return fmt.Errorf("no input: set --timeline or both --access-log and --change-log")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var s *spinner.Spinner
			if !quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = " Analyzing audit events..."
				s.Start()
			}
			run, summary, err := runAnalysis(cmd.Context(), cfg, logger)
			if s != nil {
				s.Stop()
			}
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
				return err
			}

			if !quiet {
				renderSummary(run, summary)
			}
			return nil
		},
	}

	analyzeCmd.Flags().StringVar(&timelinePath, "timeline", "", "Unified event timeline file")
	analyzeCmd.Flags().StringVar(&accessPath, "access-log", "", "Access-log event table")
	analyzeCmd.Flags().StringVar(&changePath, "change-log", "", "Change-document event table")
	analyzeCmd.Flags().StringVar(&outputDir, "output", "", "Output directory")
	return analyzeCmd
}

// runAnalysis executes the pipeline: ingest, correlate, sessionize, score,
// export, persist.
func runAnalysis(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*storage.Run, *risk.Summary, error) {
	started := time.Now().UTC()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	}()

	cat, err := catalog.Load(cfg.CatalogOverlay)
	if err != nil {
		return nil, nil, err
	}

	reader := ingest.NewReader(logger)
	var events []*core.Event
	if cfg.Input.Timeline != "" {
		events, err = reader.ReadFile(cfg.Input.Timeline, cfg.Input.Format, core.SourceAccessLog)
		if err != nil {
			return nil, nil, err
		}
	} else {
		access, err := reader.ReadFile(cfg.Input.AccessLog, cfg.Input.Format, core.SourceAccessLog)
		if err != nil {
			return nil, nil, err
		}
		changes, err := reader.ReadFile(cfg.Input.ChangeLog, cfg.Input.Format, core.SourceChangeItem)
		if err != nil {
			return nil, nil, err
		}
		result := correlate.New(cfg.CorrelationTolerance, logger).Correlate(access, changes)
		metrics.CorrelationMatches.Add(float64(len(result.Pairs)))
		metrics.CorrelationResidue.WithLabelValues("access").Add(float64(len(result.UnmatchedAccess)))
		metrics.CorrelationResidue.WithLabelValues("change").Add(float64(len(result.UnmatchedChanges)))
		events = result.Timeline()
	}

	sessions := sessionize.New(cfg.SessionTimeout, logger).Assign(events)
	metrics.SessionsFormed.Add(float64(len(sessions.Sessions)))

	summary := risk.New(cat, logger).Assess(sessions.Sessions)

	run := storage.NewRun(started)
	run.CompletedAt = time.Now().UTC()
	run.Events = len(events)
	run.Sessions = len(sessions.Sessions)
	run.Unsessioned = len(sessions.Unsessioned)
	run.LevelCounts = summary.LevelCounts
	run.DetectorHits = summary.DetectorHits

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	exportPath := filepath.Join(cfg.Output.Dir, "timeline_enriched."+cfg.Output.Format)
	switch cfg.Output.Format {
	case "jsonl":
		err = storage.ExportJSONL(exportPath, sessions.Events())
	default:
		err = storage.ExportCSV(exportPath, sessions.Events())
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Infow("Enriched timeline exported", "path", exportPath)

	if cfg.DatabasePath != "" {
		store, err := storage.NewStore(cfg.DatabaseFile(), logger)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		if err := store.SaveRun(ctx, run, sessions.Events()); err != nil {
			return nil, nil, err
		}
	}
	return run, summary, nil
}

func renderSummary(run *storage.Run, summary *risk.Summary) {
	headerColor.Println("Analysis complete")
	fmt.Printf("  Run:         %s\n", run.ID)
	fmt.Printf("  Events:      %d (%d sessions, %d unsessioned)\n",
		run.Events, run.Sessions, run.Unsessioned)

	levels := []struct {
		level core.RiskLevel
		c     *color.Color
	}{
		{core.RiskCritical, errorColor},
		{core.RiskHigh, errorColor},
		{core.RiskMedium, warningColor},
		{core.RiskLow, successColor},
	}
	for _, l := range levels {
		l.c.Printf("  %-9s %6d (%.1f%%)\n",
			l.level.String()+":", summary.LevelCounts[l.level], summary.Percent(l.level))
	}

	if len(summary.DetectorHits) > 0 {
		infoColor.Println("  Detector hits:")
		for name, hits := range summary.DetectorHits {
			fmt.Printf("    %-26s %d\n", name, hits)
		}
	}
}
