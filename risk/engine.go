// Package risk scores sessionized events: ordered per-event rule passes that
// can only raise an event's level, followed by session-scoped pattern
// detectors that may escalate any member event. Every pass and detector is
// fault-isolated so a broken rule degrades to "no additional signal" instead
// of blocking downstream reporting.
package risk

import (
	"go.uber.org/zap"

	"argus/catalog"
	"argus/core"
	"argus/metrics"
)

// finding is one pass's output for one event. Findings merge into the event
// monotonically: levels via the maximum-of-severity combinator, descriptions
// first-writer-wins.
type finding struct {
	level       core.RiskLevel
	description string
	sap         core.SAPRiskLevel
}

type pass struct {
	name string
	eval func(*Engine, *core.Event) (finding, bool)
}

type detector struct {
	name string
	run  func(*Engine, *core.Session) int
}

// Engine evaluates the rule passes and pattern detectors against sessions.
// It holds no per-run state; the catalog is immutable and injected once.
type Engine struct {
	cat    *catalog.Catalog
	logger *zap.SugaredLogger
}

// New creates an Engine. A nil catalog selects the built-in defaults.
func New(cat *catalog.Catalog, logger *zap.SugaredLogger) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{cat: cat, logger: logger}
}

// Summary aggregates one assessment run for logging and persistence.
type Summary struct {
	Sessions     int                    `json:"sessions"`
	Events       int                    `json:"events"`
	LevelCounts  map[core.RiskLevel]int `json:"level_counts"`
	DetectorHits map[string]int         `json:"detector_hits"`
}

// Percent returns the share of events at the given level, in percent.
func (s *Summary) Percent(level core.RiskLevel) float64 {
	if s.Events == 0 {
		return 0
	}
	return float64(s.LevelCounts[level]) / float64(s.Events) * 100
}

// Assess scores every event of every session in place and returns the run
// summary. An unexpected failure escaping all rule-level isolation is caught
// here: the input is returned as-is so reporting degrades rather than
// crashes.
func (en *Engine) Assess(sessions []*core.Session) (summary *Summary) {
	summary = &Summary{
		Sessions:     len(sessions),
		LevelCounts:  make(map[core.RiskLevel]int),
		DetectorHits: make(map[string]int),
	}
	defer func() {
		if r := recover(); r != nil {
			en.logger.Errorw("Risk engine failed, returning events unmodified", "panic", r)
		}
	}()

	for _, sess := range sessions {
		for _, e := range sess.Events {
			en.assessEvent(e)
		}
		for _, d := range detectors {
			hits := en.runDetector(d, sess)
			if hits > 0 {
				summary.DetectorHits[d.name] += hits
				metrics.DetectorHits.WithLabelValues(d.name).Add(float64(hits))
			}
		}
	}

	for _, sess := range sessions {
		for _, e := range sess.Events {
			summary.Events++
			summary.LevelCounts[e.RiskLevel]++
			metrics.EventsScored.WithLabelValues(e.RiskLevel.String()).Inc()
		}
	}

	en.logger.Infow("Risk assessment complete",
		"sessions", summary.Sessions,
		"events", summary.Events,
		"critical", summary.LevelCounts[core.RiskCritical],
		"high", summary.LevelCounts[core.RiskHigh],
		"medium", summary.LevelCounts[core.RiskMedium],
		"low", summary.LevelCounts[core.RiskLow])
	return summary
}

// assessEvent folds the ordered passes over one event.
func (en *Engine) assessEvent(e *core.Event) {
	if e.ActivityType == "" || e.ActivityType == core.ActivityUnknown {
		e.ActivityType = classifyActivity(e)
	}

	for _, p := range passes {
		f, ok := en.evalPass(p, e)
		if !ok {
			continue
		}
		e.Escalate(f.level)
		if e.RiskDescription == "" && f.description != "" {
			e.RiskDescription = f.description
		}
		if e.SAPRiskLevel == "" && f.sap != "" {
			e.SAPRiskLevel = f.sap
		}
	}

	// Filler for reviewer readability only; never alters the level.
	if e.RiskLevel == core.RiskLow && e.RiskDescription == "" {
		e.RiskDescription = defaultDescription(en.cat, e)
	}
}

// evalPass runs one pass with panic isolation: a failing pass contributes no
// signal and preserves the event's prior risk state.
func (en *Engine) evalPass(p pass, e *core.Event) (f finding, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			en.logger.Warnw("Risk pass failed, treated as no signal",
				"pass", p.name, "event", e.ID(), "panic", r)
			ok = false
		}
	}()
	return p.eval(en, e)
}

// runDetector runs one session-scoped detector with panic isolation.
func (en *Engine) runDetector(d detector, s *core.Session) (hits int) {
	defer func() {
		if r := recover(); r != nil {
			en.logger.Warnw("Pattern detector failed, treated as no signal",
				"detector", d.name, "session", s.ID, "panic", r)
			hits = 0
		}
	}()
	return d.run(en, s)
}
