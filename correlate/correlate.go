// Package correlate joins the two raw audit streams when a deployment does
// not ship an already-unified timeline: each change-document event is paired
// with the nearest access-log event of the same user inside a tolerance
// window. The join also derives the display-but-changed anomaly flag, the
// single highest-value signal in the system.
package correlate

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"argus/core"
)

// DefaultTolerance is the nearest-match window for the timestamp join.
const DefaultTolerance = 15 * time.Minute

// ErrNoTimestamps reports that neither stream carries enough parseable
// timestamps for the ordered join; callers fall back to the equality join.
var ErrNoTimestamps = errors.New("correlate: no usable timestamps for ordered join")

// Pair is one matched (change-document, access-log) couple. One access-log
// event may appear in several pairs.
type Pair struct {
	Change *core.Event
	Access *core.Event
	// Delta is the absolute time distance between the two events. Zero for
	// fallback pairs, which carry no time information.
	Delta time.Duration
}

// Result is the correlation outcome: matched pairs plus the residue on both
// sides. Fallback reports whether the unordered same-user join was used, in
// which case pairs are not time-filtered.
type Result struct {
	Pairs            []Pair
	UnmatchedChanges []*core.Event
	UnmatchedAccess  []*core.Event
	Fallback         bool
}

// Correlator pairs change-document events with access-log events.
type Correlator struct {
	tolerance time.Duration
	logger    *zap.SugaredLogger
}

// New creates a Correlator. A zero tolerance selects DefaultTolerance.
func New(tolerance time.Duration, logger *zap.SugaredLogger) *Correlator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Correlator{tolerance: tolerance, logger: logger}
}

// Correlate runs the ordered nearest-timestamp join, falling back to the
// unordered same-user join when timestamps are unusable. The fallback trades
// precision for coverage: every same-user pairing becomes a candidate, and
// the degradation is logged.
func (c *Correlator) Correlate(access, changes []*core.Event) *Result {
	result, err := c.nearestJoin(access, changes)
	if err != nil {
		c.logger.Warnw("Ordered correlation unavailable, using same-user equality join",
			"error", err)
		result = c.equalityJoin(access, changes)
	}

	for i := range result.Pairs {
		flagDisplayButChanged(&result.Pairs[i])
	}

	c.logger.Infow("Correlation complete",
		"access_events", len(access),
		"change_events", len(changes),
		"matched", len(result.Pairs),
		"unmatched_changes", len(result.UnmatchedChanges),
		"unmatched_access", len(result.UnmatchedAccess),
		"fallback", result.Fallback)
	return result
}

// nearestJoin pairs each timestamped change event with the same user's
// access event closest in time, within the tolerance window.
func (c *Correlator) nearestJoin(access, changes []*core.Event) (*Result, error) {
	accessByUser := make(map[string][]*core.Event)
	usable := 0
	for _, a := range access {
		if !a.HasTimestamp() {
			continue
		}
		accessByUser[a.User] = append(accessByUser[a.User], a)
		usable++
	}
	if usable == 0 {
		return nil, ErrNoTimestamps
	}
	for _, events := range accessByUser {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp.Before(events[j].Timestamp)
		})
	}

	result := &Result{}
	matchedAccess := make(map[*core.Event]struct{})

	sortedChanges := make([]*core.Event, len(changes))
	copy(sortedChanges, changes)
	sort.SliceStable(sortedChanges, func(i, j int) bool {
		if !sortedChanges[i].Timestamp.Equal(sortedChanges[j].Timestamp) {
			return sortedChanges[i].Timestamp.Before(sortedChanges[j].Timestamp)
		}
		return sortedChanges[i].User < sortedChanges[j].User
	})

	for _, ch := range sortedChanges {
		if !ch.HasTimestamp() {
			result.UnmatchedChanges = append(result.UnmatchedChanges, ch)
			continue
		}
		candidates := accessByUser[ch.User]
		match, delta := nearest(candidates, ch.Timestamp)
		if match == nil || delta > c.tolerance {
			result.UnmatchedChanges = append(result.UnmatchedChanges, ch)
			continue
		}
		matchedAccess[match] = struct{}{}
		result.Pairs = append(result.Pairs, Pair{Change: ch, Access: match, Delta: delta})
	}

	for _, a := range access {
		if _, ok := matchedAccess[a]; !ok {
			result.UnmatchedAccess = append(result.UnmatchedAccess, a)
		}
	}
	return result, nil
}

// nearest finds the event closest in time within a timestamp-sorted slice,
// returning its absolute distance.
func nearest(sorted []*core.Event, t time.Time) (*core.Event, time.Duration) {
	if len(sorted) == 0 {
		return nil, 0
	}
	idx := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Timestamp.Before(t)
	})

	var best *core.Event
	var bestDelta time.Duration
	consider := func(e *core.Event) {
		delta := e.Timestamp.Sub(t)
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best, bestDelta = e, delta
		}
	}
	if idx < len(sorted) {
		consider(sorted[idx])
	}
	if idx > 0 {
		consider(sorted[idx-1])
	}
	return best, bestDelta
}

// equalityJoin is the degraded path: every change event pairs with every
// access event of the same user, without any time filtering.
func (c *Correlator) equalityJoin(access, changes []*core.Event) *Result {
	result := &Result{Fallback: true}
	accessByUser := make(map[string][]*core.Event)
	for _, a := range access {
		accessByUser[a.User] = append(accessByUser[a.User], a)
	}

	matchedAccess := make(map[*core.Event]struct{})
	for _, ch := range changes {
		candidates := accessByUser[ch.User]
		if len(candidates) == 0 {
			result.UnmatchedChanges = append(result.UnmatchedChanges, ch)
			continue
		}
		for _, match := range candidates {
			matchedAccess[match] = struct{}{}
			result.Pairs = append(result.Pairs, Pair{Change: ch, Access: match})
		}
	}
	for _, a := range access {
		if _, ok := matchedAccess[a]; !ok {
			result.UnmatchedAccess = append(result.UnmatchedAccess, a)
		}
	}
	return result
}

// flagDisplayButChanged marks the pair when the access log claims a
// read-only display action while the change document records a real
// mutation. Both sides of the pair carry the flag so it survives whichever
// event the reviewer looks at.
func flagDisplayButChanged(p *Pair) {
	display := p.Access.DisplayOnly || describesDisplay(p.Access.Description)
	change := p.Change.ActualChange || p.Change.ChangeIndicator.IsChange()
	if display && change {
		p.Change.DisplayButChanged = true
		p.Access.DisplayButChanged = true
	}
}

// describesDisplay reports whether a log description indicates a read-only
// action.
func describesDisplay(description string) bool {
	d := strings.ToUpper(description)
	for _, kw := range []string{"DISPLAY", "VIEW", "SHOW", "LIST"} {
		if strings.Contains(d, kw) {
			return true
		}
	}
	return false
}

// Timeline flattens the correlation result into one event table ordered by
// timestamp: every access-log and change-document event exactly once.
func (r *Result) Timeline() []*core.Event {
	seen := make(map[*core.Event]struct{})
	var out []*core.Event
	add := func(e *core.Event) {
		if _, ok := seen[e]; !ok {
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	for _, p := range r.Pairs {
		add(p.Access)
		add(p.Change)
	}
	for _, e := range r.UnmatchedAccess {
		add(e)
	}
	for _, e := range r.UnmatchedChanges {
		add(e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
