package core

import "time"

// Session is a grouping view over events sharing one grouping key, either a
// helpdesk ticket or a user+time cluster. It does not own its events: the
// pipeline's working table does, and members carry a back-reference via
// their SessionID field.
type Session struct {
	// ID is the stable chronological identifier ("S0001", ...). Sessions are
	// densely renumbered by ascending first-event timestamp.
	ID string `json:"id"`
	// Key is the display form embedding the session's date,
	// e.g. "S0001 (2025-05-12)".
	Key string `json:"key"`
	// Ticket is the standardized grouping ticket, or TicketUnknown when the
	// session was formed by user+gap clustering alone.
	Ticket string `json:"ticket,omitempty"`
	// User owning the cluster. Ticket-grouped sessions keep the user of
	// their first event.
	User string `json:"user"`
	// Events in timestamp-ascending order.
	Events []*Event `json:"-"`
}

// Start returns the timestamp of the session's first event.
func (s *Session) Start() time.Time {
	if len(s.Events) == 0 {
		return time.Time{}
	}
	return s.Events[0].Timestamp
}

// End returns the timestamp of the session's last event.
func (s *Session) End() time.Time {
	if len(s.Events) == 0 {
		return time.Time{}
	}
	return s.Events[len(s.Events)-1].Timestamp
}

// MaxRisk returns the highest risk level among member events.
func (s *Session) MaxRisk() RiskLevel {
	max := RiskLow
	for _, e := range s.Events {
		max = MaxRiskLevel(max, e.RiskLevel)
	}
	return max
}
