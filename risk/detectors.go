package risk

import (
	"fmt"
	"sort"
	"strings"

	"argus/core"
)

// detectors is the ordered session-scoped pattern list. Detector output
// always appends to the risk description, unlike pass output.
var detectors = []detector{
	{"debug-with-changes", detectDebugWithChanges},
	{"auth-bypass", detectAuthBypass},
	{"inventory-manipulation", detectInventoryManipulation},
	{"debug-activity", detectDebugActivity},
	{"stealth-change", detectStealthChange},
}

// debugFlag returns the debug/dynamic-execution marker carried by the
// event's variable columns or description: D! (debugger), I! (dynamic code),
// G! (gateway/RFC).
func debugFlag(e *core.Event) (string, bool) {
	desc := strings.ToUpper(e.Description)
	for _, flag := range []string{"I!", "D!", "G!"} {
		if strings.Contains(e.Variable2, flag) ||
			strings.Contains(e.VariableData, flag) ||
			strings.Contains(desc, "EVENT TYPE "+flag) {
			return flag, true
		}
	}
	return "", false
}

// isDebugEvent reports whether the event shows any debugging signal: a
// marker flag or one of the dedicated message codes. AU4 is excluded; it is
// an authorization failure used only as the bypass-sequence trigger.
func (en *Engine) isDebugEvent(e *core.Event) bool {
	if _, ok := debugFlag(e); ok {
		return true
	}
	code := strings.ToUpper(strings.TrimSpace(e.EventCode))
	if code == "AU4" {
		return false
	}
	_, ok := en.cat.DebugMessageCode(code)
	return ok
}

// detectDebugWithChanges escalates sessions that combine debugging with real
// data changes: debug events to Critical, change events to at least High.
// Events independently classified as View keep their level.
func detectDebugWithChanges(en *Engine, s *core.Session) int {
	var debugEvents, changeEvents []*core.Event
	for _, e := range s.Events {
		if _, ok := debugFlag(e); ok {
			debugEvents = append(debugEvents, e)
		}
		if e.ChangeIndicator.IsChange() {
			changeEvents = append(changeEvents, e)
		}
	}
	if len(debugEvents) == 0 || len(changeEvents) == 0 {
		return 0
	}

	hits := 0
	for _, e := range debugEvents {
		if e.ActivityType == core.ActivityView {
			continue
		}
		e.Escalate(core.RiskCritical)
		e.AppendRiskFactor("Debugging followed by data changes in the same session: possible deliberate data manipulation")
		hits++
	}
	for _, e := range changeEvents {
		if e.ActivityType == core.ActivityView {
			continue
		}
		e.Escalate(core.RiskHigh)
		e.AppendRiskFactor("Data changed while debugging tools were active in the same session")
		hits++
	}
	return hits
}

// isAuthFailure reports whether the event records a denied authorization
// check.
func isAuthFailure(e *core.Event) bool {
	desc := strings.ToUpper(e.Description)
	code := strings.ToUpper(strings.TrimSpace(e.EventCode))
	return code == "AU4" ||
		strings.Contains(desc, "AUTHORIZATION FAILURE") ||
		strings.Contains(desc, "AUTH. CHECK: FAILED")
}

// detectAuthBypass scans chronologically for failed authorization, then a
// debugging signal, then a later event matching the failed transaction or
// showing a passed check. Every failure is tried as an anchor, so an earlier
// unrelated failure cannot mask a completed sequence later in the session.
// On match the whole session escalates to Critical.
func detectAuthBypass(en *Engine, s *core.Session) int {
	if len(s.Events) < 3 {
		return 0
	}

	for i, e := range s.Events {
		if !isAuthFailure(e) {
			continue
		}
		failedTCode := strings.ToUpper(strings.TrimSpace(e.TCode))

		debugAt := -1
		for k := i + 1; k < len(s.Events); k++ {
			ev := s.Events[k]
			if debugAt < 0 {
				if en.isDebugEvent(ev) {
					debugAt = k
				}
				continue
			}

			desc := strings.ToUpper(ev.Description)
			sameAction := (failedTCode != "" && strings.ToUpper(strings.TrimSpace(ev.TCode)) == failedTCode) ||
				(failedTCode != "" && strings.Contains(desc, failedTCode)) ||
				strings.Contains(desc, "AUTH. CHECK: PASSED")
			if !sameAction {
				continue
			}

			factor := "Authorization bypass pattern: failed authorization, then debugging, then the action succeeded"
			for _, member := range s.Events {
				member.Escalate(core.RiskCritical)
				member.AppendRiskFactor(factor)
			}
			return len(s.Events)
		}
	}
	return 0
}

// detectInventoryManipulation escalates sessions where debugging co-occurs
// with changes to inventory-valuation-sensitive tables or fields.
func detectInventoryManipulation(en *Engine, s *core.Session) int {
	hasDebug := false
	for _, e := range s.Events {
		if en.isDebugEvent(e) {
			hasDebug = true
			break
		}
	}
	if !hasDebug {
		return 0
	}

	affected := make(map[string]struct{})
	for _, e := range s.Events {
		if !e.ChangeIndicator.IsChange() {
			continue
		}
		if _, ok := en.cat.InventorySensitive(e.Table, e.Field); ok {
			affected[strings.ToUpper(strings.TrimSpace(e.Table))] = struct{}{}
		}
	}
	if len(affected) == 0 {
		return 0
	}

	tables := make([]string, 0, len(affected))
	for t := range affected {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	factor := fmt.Sprintf("Inventory data changed while debugging tools were active (%s): potential valuation or quantity fraud",
		strings.Join(tables, ", "))
	for _, e := range s.Events {
		e.Escalate(core.RiskCritical)
		e.AppendRiskFactor(factor)
	}
	return len(s.Events)
}

// detectDebugActivity applies the per-event debug signals: dedicated message
// codes, marker flags, and service-interface access patterns.
func detectDebugActivity(en *Engine, s *core.Session) int {
	hits := 0
	for _, e := range s.Events {
		level, factor := en.debugSignal(e)
		if factor == "" {
			continue
		}
		e.Escalate(level)
		e.AppendRiskFactor(factor)
		hits++
	}
	return hits
}

// debugSignal evaluates one event's debug indicators in precedence order and
// returns the strongest applicable level with its explanation.
func (en *Engine) debugSignal(e *core.Event) (core.RiskLevel, string) {
	code := strings.ToUpper(strings.TrimSpace(e.EventCode))

	// Dynamic code execution outranks everything; typed variants are the
	// highest-priority Critical triggers.
	if code == "BU4" {
		flag, _ := debugFlag(e)
		switch flag {
		case "I!":
			return core.RiskCritical, "Dynamic code execution (BU4 with I!): custom code run inside an internal operation"
		case "G!":
			return core.RiskCritical, "Dynamic code execution over a remote call (BU4 with G!): custom code interacting with external systems"
		case "D!":
			return core.RiskCritical, "Dynamic code execution while debugging (BU4 with D!): combined debugger and custom code control"
		}
		return core.RiskHigh, "Dynamic code execution (BU4): custom code that can bypass standard controls"
	}

	if action, ok := en.cat.DebugMessageCode(code); ok && code != "AU4" {
		level := core.RiskHigh
		if code == "DU9" {
			level = core.RiskMedium
		}
		return level, fmt.Sprintf("Debugging activity (%s): %s", code, action)
	}

	if flag, ok := debugFlag(e); ok {
		switch flag {
		case "I!":
			return core.RiskHigh, "Dynamic code execution detected (I!): custom code that may bypass normal controls"
		case "D!":
			return core.RiskHigh, "Debug session detected (D!): user stepping through program logic with access to runtime variables"
		case "G!":
			return core.RiskHigh, "Gateway/RFC call detected (G!): remote function call or service interface access"
		}
	}

	varFirst := strings.ToUpper(e.VariableFirst)
	if strings.Contains(varFirst, "R3TR IWSV") || strings.Contains(varFirst, "R3TR IWSG") {
		return core.RiskLow, "Standard service interface access: routine data exchange"
	}
	if strings.Contains(varFirst, "R3TR G4BA") {
		return core.RiskLow, "Standard gateway framework access"
	}
	if strings.Contains(varFirst, "R3TR") {
		return core.RiskMedium, "Service interface access by privileged user"
	}
	if strings.Contains(strings.ToUpper(e.VariableData), "/SAP/OPU/ODATA/") {
		return core.RiskMedium, "API data access through an OData endpoint rather than standard screens"
	}

	return core.RiskLow, ""
}

// detectStealthChange flags access-log rows that show a granted change
// permission with a passed check but no recorded values: edits made through
// the debugger bypass the change-document log entirely.
func detectStealthChange(en *Engine, s *core.Session) int {
	hits := 0
	for _, e := range s.Events {
		if e.Source != core.SourceAccessLog {
			continue
		}
		desc := strings.ToUpper(e.Description)
		if !strings.Contains(desc, "ACTIVITY 02") ||
			!strings.Contains(desc, "AUTH. CHECK: PASSED") {
			continue
		}
		if e.OldValue != "" || e.NewValue != "" {
			continue
		}
		e.Escalate(core.RiskMedium)
		table := strings.ToUpper(strings.TrimSpace(e.Table))
		if table == "" {
			table = "unknown table"
		}
		e.AppendRiskFactor(fmt.Sprintf(
			"Potential unlogged change: change permission granted and check passed on %s but no change record exists", table))
		hits++
	}
	return hits
}
