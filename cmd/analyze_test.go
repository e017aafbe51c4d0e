package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"argus/config"
	"argus/core"
	"argus/storage"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		SessionTimeout:       60 * time.Minute,
		CorrelationTolerance: 15 * time.Minute,
		Input:                config.InputConfig{Format: "csv"},
		Output:               config.OutputConfig{Dir: filepath.Join(dir, "out"), Format: "csv"},
		LogLevel:             "info",
	}
}

func TestRunAnalysisTwoStreams(t *testing.T) {
	dir := t.TempDir()
	access := writeInput(t, dir, "access.csv",
		"User,Datetime,TCode,Table,Description,Event,Variable_2\n"+
			"jdoe,2025-05-12 09:00:00,SE16,USR02,Display table contents,AU3,\n"+
			"jdoe,2025-05-12 09:01:00,ZRUN,,,BU4,D!\n")
	changes := writeInput(t, dir, "changes.csv",
		"User,Datetime,TCode,Table,Field,Change_Indicator,Old_Value,New_Value\n"+
			"jdoe,2025-05-12 09:02:00,XK02,LFA1,BANKN,U,111,222\n")

	cfg := testConfig(dir)
	cfg.Input.AccessLog = access
	cfg.Input.ChangeLog = changes

	run, summary, err := runAnalysis(context.Background(), cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	assert.Equal(t, 3, run.Events)
	assert.Equal(t, 1, run.Sessions)
	// Debugging plus a real change in one session escalates.
	assert.Positive(t, summary.LevelCounts[core.RiskCritical])

	exported, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "timeline_enriched.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(exported), "S0001")
}

func TestRunAnalysisUnifiedTimelinePersistsRun(t *testing.T) {
	dir := t.TempDir()
	timeline := writeInput(t, dir, "timeline.csv",
		"Source,User,Datetime,TCode,Table\n"+
			"SM20,jdoe,2025-05-12 09:00:00,SU01,\n"+
			"SM20,jdoe,2025-05-12 09:05:00,MM03,\n")

	cfg := testConfig(dir)
	cfg.Input.Timeline = timeline
	cfg.DatabasePath = filepath.Join(dir, "argus.db")

	run, _, err := runAnalysis(context.Background(), cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	store, err := storage.NewStore(cfg.DatabasePath, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Events)
	assert.Equal(t, run.LevelCounts[core.RiskHigh], got.LevelCounts[core.RiskHigh])
}

func TestNewRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["catalog"])
	assert.True(t, names["runs"])
}
