package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseChangeIndicator(t *testing.T) {
	tests := []struct {
		in   string
		want ChangeIndicator
	}{
		{"I", ChangeInsert},
		{"insert", ChangeInsert},
		{"U", ChangeUpdate},
		{"update", ChangeUpdate},
		{"D", ChangeDelete},
		{"DELETE", ChangeDelete},
		{"", ChangeNone},
		{"none", ChangeNone},
		{"X", ChangeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseChangeIndicator(tt.in), "input %q", tt.in)
	}
}

func TestChangeIndicatorIsChange(t *testing.T) {
	assert.True(t, ChangeInsert.IsChange())
	assert.True(t, ChangeUpdate.IsChange())
	assert.True(t, ChangeDelete.IsChange())
	assert.False(t, ChangeNone.IsChange())
}

func TestEventEscalate_Monotonic(t *testing.T) {
	e := &Event{}
	assert.Equal(t, RiskLow, e.RiskLevel)

	e.Escalate(RiskHigh)
	assert.Equal(t, RiskHigh, e.RiskLevel)

	// Escalation never downgrades.
	e.Escalate(RiskMedium)
	assert.Equal(t, RiskHigh, e.RiskLevel)

	e.Escalate(RiskCritical)
	assert.Equal(t, RiskCritical, e.RiskLevel)

	e.Escalate(RiskLow)
	assert.Equal(t, RiskCritical, e.RiskLevel)
}

func TestEventAppendRiskFactor(t *testing.T) {
	e := &Event{}
	e.AppendRiskFactor("first factor")
	assert.Equal(t, "first factor", e.RiskDescription)

	e.AppendRiskFactor("second factor")
	assert.Equal(t, "first factor; second factor", e.RiskDescription)

	e.AppendRiskFactor("")
	assert.Equal(t, "first factor; second factor", e.RiskDescription)
}

func TestEventID(t *testing.T) {
	e := &Event{Source: SourceAccessLog, Index: 41}
	assert.Equal(t, "SM20/41", e.ID())
}

func TestEventHasTimestamp(t *testing.T) {
	e := &Event{}
	assert.False(t, e.HasTimestamp())
	e.Timestamp = time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	assert.True(t, e.HasTimestamp())
}

func TestSessionBounds(t *testing.T) {
	t0 := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)
	s := &Session{
		ID: "S0001",
		Events: []*Event{
			{Timestamp: t0},
			{Timestamp: t0.Add(5 * time.Minute), RiskLevel: RiskHigh},
		},
	}
	assert.Equal(t, t0, s.Start())
	assert.Equal(t, t0.Add(5*time.Minute), s.End())
	assert.Equal(t, RiskHigh, s.MaxRisk())
}
