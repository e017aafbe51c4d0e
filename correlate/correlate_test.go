package correlate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"argus/core"
)

func at(h, m int) time.Time {
	return time.Date(2025, 5, 12, h, m, 0, 0, time.UTC)
}

func TestCorrelate_NearestCandidateWins(t *testing.T) {
	// Change at 10:02 with access candidates at 09:50 and 10:00: the 10:00
	// event is nearer and wins.
	early := &core.Event{Source: core.SourceAccessLog, User: "JDOE", Timestamp: at(9, 50)}
	near := &core.Event{Source: core.SourceAccessLog, User: "JDOE", Timestamp: at(10, 0)}
	change := &core.Event{Source: core.SourceChangeItem, User: "JDOE", Timestamp: at(10, 2), ActualChange: true}

	result := New(0, zaptest.NewLogger(t).Sugar()).Correlate(
		[]*core.Event{early, near}, []*core.Event{change})

	require.Len(t, result.Pairs, 1)
	assert.Same(t, near, result.Pairs[0].Access)
	assert.Equal(t, 2*time.Minute, result.Pairs[0].Delta)
	require.Len(t, result.UnmatchedAccess, 1)
	assert.Same(t, early, result.UnmatchedAccess[0])
}

func TestCorrelate_ToleranceExcludesFarMatches(t *testing.T) {
	access := &core.Event{User: "JDOE", Timestamp: at(9, 0)}
	change := &core.Event{User: "JDOE", Timestamp: at(9, 20)}

	result := New(15*time.Minute, nil).Correlate(
		[]*core.Event{access}, []*core.Event{change})

	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedChanges, 1)
	assert.Len(t, result.UnmatchedAccess, 1)
}

func TestCorrelate_UserBoundary(t *testing.T) {
	// Same second, different users: never paired.
	access := &core.Event{User: "ALICE", Timestamp: at(10, 0)}
	change := &core.Event{User: "BOB", Timestamp: at(10, 0)}

	result := New(0, nil).Correlate([]*core.Event{access}, []*core.Event{change})
	assert.Empty(t, result.Pairs)
}

func TestCorrelate_OneAccessServesManyChanges(t *testing.T) {
	access := &core.Event{User: "JDOE", Timestamp: at(10, 0)}
	changes := []*core.Event{
		{User: "JDOE", Timestamp: at(10, 1)},
		{User: "JDOE", Timestamp: at(10, 2)},
		{User: "JDOE", Timestamp: at(10, 3)},
	}

	result := New(0, nil).Correlate([]*core.Event{access}, changes)
	require.Len(t, result.Pairs, 3)
	for _, p := range result.Pairs {
		assert.Same(t, access, p.Access)
	}
	assert.Empty(t, result.UnmatchedAccess)
}

func TestCorrelate_DisplayButChanged(t *testing.T) {
	access := &core.Event{User: "JDOE", Timestamp: at(10, 0), DisplayOnly: true}
	change := &core.Event{User: "JDOE", Timestamp: at(10, 1), ActualChange: true}

	result := New(0, nil).Correlate([]*core.Event{access}, []*core.Event{change})
	require.Len(t, result.Pairs, 1)
	assert.True(t, change.DisplayButChanged)
	assert.True(t, access.DisplayButChanged)
}

func TestCorrelate_DisplayButChangedFromDescription(t *testing.T) {
	access := &core.Event{User: "JDOE", Timestamp: at(10, 0),
		Description: "Display table contents"}
	change := &core.Event{User: "JDOE", Timestamp: at(10, 1),
		ChangeIndicator: core.ChangeUpdate}

	result := New(0, nil).Correlate([]*core.Event{access}, []*core.Event{change})
	require.Len(t, result.Pairs, 1)
	assert.True(t, change.DisplayButChanged)
}

func TestCorrelate_NoFlagWithoutActualChange(t *testing.T) {
	access := &core.Event{User: "JDOE", Timestamp: at(10, 0), DisplayOnly: true}
	change := &core.Event{User: "JDOE", Timestamp: at(10, 1)}

	result := New(0, nil).Correlate([]*core.Event{access}, []*core.Event{change})
	require.Len(t, result.Pairs, 1)
	assert.False(t, change.DisplayButChanged)
}

func TestCorrelate_FallbackEqualityJoin(t *testing.T) {
	// No parseable timestamps anywhere: degrade to the same-user join.
	access := &core.Event{User: "JDOE", DisplayOnly: true}
	change := &core.Event{User: "JDOE", ActualChange: true}
	orphan := &core.Event{User: "KROE", ActualChange: true}

	result := New(0, zaptest.NewLogger(t).Sugar()).Correlate(
		[]*core.Event{access}, []*core.Event{change, orphan})

	assert.True(t, result.Fallback)
	require.Len(t, result.Pairs, 1)
	assert.Same(t, access, result.Pairs[0].Access)
	assert.True(t, change.DisplayButChanged)
	require.Len(t, result.UnmatchedChanges, 1)
	assert.Same(t, orphan, result.UnmatchedChanges[0])
}

func TestCorrelate_FallbackPairsEveryAccessOfUser(t *testing.T) {
	first := &core.Event{User: "JDOE", DisplayOnly: true}
	second := &core.Event{User: "JDOE"}
	change := &core.Event{User: "JDOE", ActualChange: true}

	result := New(0, zaptest.NewLogger(t).Sugar()).Correlate(
		[]*core.Event{first, second}, []*core.Event{change})

	assert.True(t, result.Fallback)
	require.Len(t, result.Pairs, 2)
	assert.Same(t, first, result.Pairs[0].Access)
	assert.Same(t, second, result.Pairs[1].Access)
	assert.Empty(t, result.UnmatchedAccess)
	assert.True(t, change.DisplayButChanged)
}

func TestTimeline_EveryEventOnceOrdered(t *testing.T) {
	access := []*core.Event{
		{User: "JDOE", Timestamp: at(10, 0)},
		{User: "JDOE", Timestamp: at(11, 30)},
	}
	changes := []*core.Event{
		{User: "JDOE", Timestamp: at(10, 1)},
		{User: "JDOE", Timestamp: at(10, 2)},
	}

	result := New(0, nil).Correlate(access, changes)
	timeline := result.Timeline()
	require.Len(t, timeline, 4)
	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Timestamp.Before(timeline[i-1].Timestamp))
	}
}

func TestCorrelate_Empty(t *testing.T) {
	result := New(0, nil).Correlate(nil, nil)
	assert.True(t, result.Fallback)
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.Timeline())
}
