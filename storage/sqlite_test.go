package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"argus/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "argus.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvents() []*core.Event {
	base := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	return []*core.Event{
		{
			Source: core.SourceAccessLog, Index: 0, User: "JDOE", Timestamp: base,
			TCode: "SE16", Table: "USR02", SessionID: "S0001", SessionKey: "S0001 (2025-05-12)",
			RiskLevel: core.RiskHigh, SAPRiskLevel: core.SAPImportant,
			RiskDescription: "Sensitive table accessed", ActivityType: core.ActivityView,
		},
		{
			Source: core.SourceChangeItem, Index: 0, User: "JDOE", Timestamp: base.Add(2 * time.Minute),
			TCode: "XK02", Table: "LFA1", Field: "BANKN", ChangeIndicator: core.ChangeUpdate,
			OldValue: "111", NewValue: "222", SessionID: "S0001",
			RiskLevel: core.RiskMedium, ActivityType: core.ActivityUpdate, DisplayButChanged: true,
		},
		{
			Source: core.SourceAccessLog, Index: 1, User: "JDOE",
			RiskLevel: core.RiskLow, ActivityType: core.ActivityOther,
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := NewRun(time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC))
	run.CompletedAt = run.StartedAt.Add(3 * time.Second)
	run.Events = 3
	run.Sessions = 1
	run.Unsessioned = 1
	run.LevelCounts[core.RiskHigh] = 1
	run.LevelCounts[core.RiskMedium] = 1
	run.LevelCounts[core.RiskLow] = 1
	run.DetectorHits["stealth-change"] = 1

	require.NoError(t, s.SaveRun(ctx, run, sampleEvents()))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 3, got.Events)
	assert.Equal(t, 1, got.LevelCounts[core.RiskHigh])
	assert.Equal(t, 1, got.DetectorHits["stealth-change"])
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := NewRun(time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC))
	older.CompletedAt = older.StartedAt
	newer := NewRun(time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC))
	newer.CompletedAt = newer.StartedAt
	require.NoError(t, s.SaveRun(ctx, older, nil))
	require.NoError(t, s.SaveRun(ctx, newer, nil))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestEventsByLevel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := NewRun(time.Now().UTC())
	run.CompletedAt = run.StartedAt
	require.NoError(t, s.SaveRun(ctx, run, sampleEvents()))

	events, err := s.EventsByLevel(ctx, run.ID, core.RiskMedium)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.GreaterOrEqual(t, e.RiskLevel, core.RiskMedium)
	}

	all, err := s.EventsByLevel(ctx, run.ID, core.RiskLow)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEventsByLevelRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := NewRun(time.Now().UTC())
	run.CompletedAt = run.StartedAt
	require.NoError(t, s.SaveRun(ctx, run, sampleEvents()))

	events, err := s.EventsByLevel(ctx, run.ID, core.RiskMedium)
	require.NoError(t, err)

	var change *core.Event
	for _, e := range events {
		if e.Source == core.SourceChangeItem {
			change = e
		}
	}
	require.NotNil(t, change)
	assert.Equal(t, core.ChangeUpdate, change.ChangeIndicator)
	assert.Equal(t, "BANKN", change.Field)
	assert.True(t, change.DisplayButChanged)
	assert.Equal(t, core.ActivityUpdate, change.ActivityType)
}
