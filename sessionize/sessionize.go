// Package sessionize groups the flat, timestamped event table into ordered,
// chronologically numbered sessions. Grouping prefers the standardized
// helpdesk ticket when the export carries one and falls back to user+gap
// clustering otherwise.
package sessionize

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"argus/core"
)

// DefaultTimeout is the user+gap clustering timeout: a gap longer than this
// between two events of the same user opens a new session.
const DefaultTimeout = 60 * time.Minute

// Sessionizer assigns session identifiers to events.
type Sessionizer struct {
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// Result carries the grouped sessions plus the events that could not take
// part in time-based grouping. Unsessioned events stay in the output table;
// they are only excluded from session-scoped analysis.
type Result struct {
	Sessions    []*core.Session
	Unsessioned []*core.Event
}

// Events returns every event in the result, sessioned or not. The total
// count always equals the input count.
func (r *Result) Events() []*core.Event {
	var out []*core.Event
	for _, s := range r.Sessions {
		out = append(out, s.Events...)
	}
	return append(out, r.Unsessioned...)
}

// New creates a Sessionizer. A zero timeout selects DefaultTimeout.
func New(timeout time.Duration, logger *zap.SugaredLogger) *Sessionizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sessionizer{timeout: timeout, logger: logger}
}

// cluster is one user+gap run of events before ticket resolution.
type cluster struct {
	user   string
	ticket string
	events []*core.Event
}

// Assign groups events into sessions. Events without a parseable timestamp
// are returned unsessioned; everything else receives a non-empty session id
// and a display key, and session members are ordered timestamp-ascending.
func (s *Sessionizer) Assign(events []*core.Event) *Result {
	result := &Result{}

	var timed []*core.Event
	for _, e := range events {
		if e.HasTimestamp() {
			timed = append(timed, e)
		} else {
			result.Unsessioned = append(result.Unsessioned, e)
		}
	}
	if len(result.Unsessioned) > 0 {
		s.logger.Warnw("Events excluded from sessionizing due to missing timestamps",
			"count", len(result.Unsessioned))
	}
	if len(timed) == 0 {
		return result
	}

	clusters := s.clusterByUserGap(timed)
	sessions := s.groupClusters(clusters)
	s.renumber(sessions)

	result.Sessions = sessions
	s.logger.Infow("Sessionizing complete",
		"events", len(timed),
		"sessions", len(sessions),
		"unsessioned", len(result.Unsessioned))
	return result
}

// clusterByUserGap sorts by (user, timestamp) and opens a new cluster when
// the user changes or the gap since the previous event exceeds the timeout.
func (s *Sessionizer) clusterByUserGap(events []*core.Event) []*cluster {
	sorted := make([]*core.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].User != sorted[j].User {
			return sorted[i].User < sorted[j].User
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var clusters []*cluster
	var current *cluster
	var prev *core.Event
	for _, e := range sorted {
		if current == nil || e.User != prev.User || e.Timestamp.Sub(prev.Timestamp) > s.timeout {
			current = &cluster{user: e.User}
			clusters = append(clusters, current)
		}
		current.events = append(current.events, e)
		prev = e
	}

	for _, c := range clusters {
		c.ticket = resolveTicket(c.events)
	}
	return clusters
}

// resolveTicket picks the cluster's grouping ticket: the most frequent
// non-UNKNOWN standardized reference, ties broken by first appearance.
func resolveTicket(events []*core.Event) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, e := range events {
		ticket := StandardizeTicket(e.Ticket)
		if ticket == TicketUnknown {
			continue
		}
		counts[ticket]++
		if _, ok := firstSeen[ticket]; !ok {
			firstSeen[ticket] = i
		}
	}
	if len(counts) == 0 {
		return TicketUnknown
	}

	best := ""
	for ticket, n := range counts {
		if best == "" {
			best = ticket
			continue
		}
		if n > counts[best] || (n == counts[best] && firstSeen[ticket] < firstSeen[best]) {
			best = ticket
		}
	}
	return best
}

// groupClusters merges clusters that resolved to the same ticket into one
// session regardless of time gaps; UNKNOWN clusters stay separate sessions.
func (s *Sessionizer) groupClusters(clusters []*cluster) []*core.Session {
	var sessions []*core.Session
	byTicket := make(map[string]*core.Session)

	for _, c := range clusters {
		if c.ticket == TicketUnknown {
			sessions = append(sessions, &core.Session{
				Ticket: TicketUnknown,
				User:   c.user,
				Events: c.events,
			})
			continue
		}
		sess, ok := byTicket[c.ticket]
		if !ok {
			sess = &core.Session{Ticket: c.ticket, User: c.user}
			byTicket[c.ticket] = sess
			sessions = append(sessions, sess)
		}
		sess.Events = append(sess.Events, c.events...)
	}

	for _, sess := range sessions {
		sort.SliceStable(sess.Events, func(i, j int) bool {
			return sess.Events[i].Timestamp.Before(sess.Events[j].Timestamp)
		})
	}
	return sessions
}

// renumber assigns stable, densely numbered identifiers by ascending
// first-event timestamp and writes the session fields onto every member.
func (s *Sessionizer) renumber(sessions []*core.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start().Before(sessions[j].Start())
	})
	for i, sess := range sessions {
		sess.ID = fmt.Sprintf("S%04d", i+1)
		sess.Key = fmt.Sprintf("%s (%s)", sess.ID, sess.Start().Format("2006-01-02"))
		for _, e := range sess.Events {
			e.SessionID = sess.ID
			e.SessionKey = sess.Key
		}
	}
}
