package sessionize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"argus/core"
)

func ts(minute int) time.Time {
	return time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC).Add(time.Duration(minute) * time.Minute)
}

func TestStandardizeTicket(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#120,568", "120568"},
		{"120568", "120568"},
		{"SR-120568", "120568"},
		{"CR-99001", "99001"},
		{"sr-42", "42"},
		{" 120568 ", "120568"},
		{"", "UNKNOWN"},
		{"nan", "UNKNOWN"},
		{"None", "UNKNOWN"},
		{"NULL", "UNKNOWN"},
		{"#", "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizeTicket(tt.in), "input %q", tt.in)
	}
}

func TestStandardizeTicket_Idempotent(t *testing.T) {
	for _, in := range []string{"#120,568", "SR-120568", "SRSR-7", "", "UNKNOWN", "ABC123"} {
		once := StandardizeTicket(in)
		assert.Equal(t, once, StandardizeTicket(once), "input %q", in)
	}
}

func TestAssign_UserGapClustering(t *testing.T) {
	// Two events 5 minutes apart form one session; a third event 90 minutes
	// later exceeds the 60-minute default and opens a new one.
	events := []*core.Event{
		{Source: core.SourceAccessLog, Index: 0, User: "JDOE", Timestamp: ts(0)},
		{Source: core.SourceAccessLog, Index: 1, User: "JDOE", Timestamp: ts(5)},
		{Source: core.SourceAccessLog, Index: 2, User: "JDOE", Timestamp: ts(95)},
	}

	result := New(0, zaptest.NewLogger(t).Sugar()).Assign(events)
	require.Len(t, result.Sessions, 2)
	assert.Len(t, result.Sessions[0].Events, 2)
	assert.Len(t, result.Sessions[1].Events, 1)
	assert.Equal(t, "S0001", result.Sessions[0].ID)
	assert.Equal(t, "S0002", result.Sessions[1].ID)
}

func TestAssign_UserChangeOpensSession(t *testing.T) {
	events := []*core.Event{
		{User: "ALICE", Timestamp: ts(0)},
		{User: "BOB", Timestamp: ts(1)},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 2)
}

func TestAssign_TicketGroupingIgnoresGaps(t *testing.T) {
	// Same standardized ticket in two clusters hours apart: one session.
	events := []*core.Event{
		{User: "JDOE", Timestamp: ts(0), Ticket: "#120,568"},
		{User: "JDOE", Timestamp: ts(300), Ticket: "120568"},
		{User: "JDOE", Timestamp: ts(600)},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 2)

	ticketed := result.Sessions[0]
	assert.Equal(t, "120568", ticketed.Ticket)
	assert.Len(t, ticketed.Events, 2)
	assert.Equal(t, TicketUnknown, result.Sessions[1].Ticket)
}

func TestAssign_MostFrequentTicketWins(t *testing.T) {
	events := []*core.Event{
		{User: "JDOE", Timestamp: ts(0), Ticket: "111"},
		{User: "JDOE", Timestamp: ts(1), Ticket: "222"},
		{User: "JDOE", Timestamp: ts(2), Ticket: "222"},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "222", result.Sessions[0].Ticket)
}

func TestAssign_TicketTieFirstSeen(t *testing.T) {
	events := []*core.Event{
		{User: "JDOE", Timestamp: ts(0), Ticket: "111"},
		{User: "JDOE", Timestamp: ts(1), Ticket: "222"},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "111", result.Sessions[0].Ticket)
}

func TestAssign_ChronologicalRenumbering(t *testing.T) {
	// BOB starts before ALICE; session numbering follows start time, not
	// user sort order.
	events := []*core.Event{
		{User: "ALICE", Timestamp: ts(10)},
		{User: "BOB", Timestamp: ts(0)},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 2)
	assert.Equal(t, "BOB", result.Sessions[0].User)
	assert.Equal(t, "S0001", result.Sessions[0].ID)
	assert.Equal(t, "ALICE", result.Sessions[1].User)
	assert.Equal(t, "S0002", result.Sessions[1].ID)
}

func TestAssign_SessionKeyEmbedsDate(t *testing.T) {
	events := []*core.Event{{User: "JDOE", Timestamp: ts(0)}}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "S0001 (2025-05-12)", result.Sessions[0].Key)
	assert.Equal(t, "S0001 (2025-05-12)", result.Sessions[0].Events[0].SessionKey)
}

func TestAssign_CountPreservedAndAllSessioned(t *testing.T) {
	events := []*core.Event{
		{User: "JDOE", Timestamp: ts(0)},
		{User: "JDOE", Timestamp: ts(1)},
		{User: "KROE", Timestamp: ts(2)},
		{User: "KROE"}, // malformed timestamp: retained but unsessioned
	}
	result := New(0, nil).Assign(events)
	assert.Len(t, result.Events(), len(events))
	assert.Len(t, result.Unsessioned, 1)
	for _, s := range result.Sessions {
		for _, e := range s.Events {
			assert.NotEmpty(t, e.SessionID)
		}
	}
}

func TestAssign_EventsTimestampAscending(t *testing.T) {
	events := []*core.Event{
		{User: "JDOE", Timestamp: ts(5)},
		{User: "JDOE", Timestamp: ts(0)},
		{User: "JDOE", Timestamp: ts(3)},
	}
	result := New(0, nil).Assign(events)
	require.Len(t, result.Sessions, 1)
	evs := result.Sessions[0].Events
	for i := 1; i < len(evs); i++ {
		assert.False(t, evs[i].Timestamp.Before(evs[i-1].Timestamp))
	}
}

func TestAssign_Idempotent(t *testing.T) {
	events := []*core.Event{
		{Index: 0, User: "JDOE", Timestamp: ts(0), Ticket: "120568"},
		{Index: 1, User: "JDOE", Timestamp: ts(5), Ticket: "120568"},
		{Index: 2, User: "KROE", Timestamp: ts(2)},
	}
	s := New(0, nil)
	first := s.Assign(events)

	firstIDs := make(map[string]string)
	for _, e := range first.Events() {
		firstIDs[e.ID()] = e.SessionID
	}

	second := s.Assign(events)
	for _, e := range second.Events() {
		assert.Equal(t, firstIDs[e.ID()], e.SessionID)
	}
}

func TestAssign_Empty(t *testing.T) {
	result := New(0, nil).Assign(nil)
	assert.Empty(t, result.Sessions)
	assert.Empty(t, result.Unsessioned)
}
