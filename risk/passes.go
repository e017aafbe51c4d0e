package risk

import (
	"fmt"
	"strings"

	"argus/catalog"
	"argus/core"
)

// passes is the ordered rule list. Order matters only for descriptions
// (first writer wins); levels merge monotonically regardless.
var passes = []pass{
	{"sensitive-table", passSensitiveTable},
	{"sensitive-tcode", passSensitiveTCode},
	{"field-rules", passFieldRules},
	{"display-but-changed", passDisplayButChanged},
	{"change-indicator", passChangeIndicator},
	{"event-code", passEventCode},
}

func passSensitiveTable(en *Engine, e *core.Event) (finding, bool) {
	desc, ok := en.cat.SensitiveTable(e.Table)
	if !ok {
		return finding{}, false
	}
	return finding{
		level: core.RiskHigh,
		description: fmt.Sprintf("Sensitive table accessed: %s - %s",
			strings.ToUpper(strings.TrimSpace(e.Table)), desc),
	}, true
}

func passSensitiveTCode(en *Engine, e *core.Event) (finding, bool) {
	desc, ok := en.cat.SensitiveTCode(e.TCode)
	if !ok {
		return finding{}, false
	}
	return finding{
		level: core.RiskHigh,
		description: fmt.Sprintf("Sensitive transaction executed: %s - %s",
			strings.ToUpper(strings.TrimSpace(e.TCode)), desc),
	}, true
}

func passFieldRules(en *Engine, e *core.Event) (finding, bool) {
	m, ok := en.cat.MatchField(e.Field)
	if !ok {
		return finding{}, false
	}
	return finding{
		level: m.Severity,
		description: fmt.Sprintf("%s (field %s)",
			m.Description, strings.ToUpper(strings.TrimSpace(e.Field))),
	}, true
}

func passDisplayButChanged(en *Engine, e *core.Event) (finding, bool) {
	if !e.DisplayButChanged {
		return finding{}, false
	}
	tcode := strings.ToUpper(strings.TrimSpace(e.TCode))
	if tcode == "" {
		tcode = "unknown transaction"
	}
	return finding{
		level: core.RiskHigh,
		description: fmt.Sprintf(
			"Display transaction made actual changes: %s was logged as display-only but change documents record a real modification",
			tcode),
	}, true
}

func passChangeIndicator(en *Engine, e *core.Event) (finding, bool) {
	table := strings.ToUpper(strings.TrimSpace(e.Table))
	if table == "" {
		table = "unknown table"
	}
	switch e.ChangeIndicator {
	case core.ChangeInsert:
		return finding{
			level:       core.RiskHigh,
			description: fmt.Sprintf("New data inserted into %s", table),
		}, true
	case core.ChangeDelete:
		return finding{
			level:       core.RiskHigh,
			description: fmt.Sprintf("Data deleted from %s", table),
		}, true
	case core.ChangeUpdate:
		return finding{
			level:       core.RiskMedium,
			description: fmt.Sprintf("Data updated in %s", table),
		}, true
	}
	return finding{}, false
}

// passEventCode maps the log source's own three-tier event criticality onto
// the engine scale and records the native tier alongside it.
func passEventCode(en *Engine, e *core.Event) (finding, bool) {
	tier, ok := en.cat.EventTier(e.EventCode)
	if !ok {
		return finding{}, false
	}
	code := strings.ToUpper(strings.TrimSpace(e.EventCode))

	f := finding{}
	switch tier {
	case catalog.TierCritical:
		f.level = core.RiskHigh
		f.sap = core.SAPCritical
		f.description = fmt.Sprintf("High-risk system event %s", code)
	case catalog.TierImportant:
		f.level = core.RiskMedium
		f.sap = core.SAPImportant
		f.description = fmt.Sprintf("Security-relevant system event %s", code)
	case catalog.TierNonCritical:
		f.level = core.RiskLow
		f.sap = core.SAPNonCritical
		f.description = fmt.Sprintf("Routine system event %s", code)
	}
	if d := en.cat.EventDescription(code); d != "" {
		f.description += ": " + d
	}
	if detail := eventDetail(e, code); detail != "" {
		f.description += " (" + detail + ")"
	}
	return f, true
}

// eventDetail extracts extra context from the variable columns of login,
// RFC, and program-start events.
func eventDetail(e *core.Event, code string) string {
	switch code {
	case "AU1":
		if e.VariableFirst != "" {
			return "login type " + e.VariableFirst
		}
	case "AU2":
		if e.Variable2 != "" {
			return "failure reason " + e.Variable2
		}
	case "AUK":
		if e.VariableData != "" {
			return "function " + e.VariableData
		}
	case "CUI":
		if e.VariableFirst != "" {
			return "application " + e.VariableFirst
		}
	}
	return ""
}

// defaultDescription templates an explanation for events that finished the
// passes still Low with nothing to say.
func defaultDescription(cat *catalog.Catalog, e *core.Event) string {
	tcode := strings.ToUpper(strings.TrimSpace(e.TCode))
	suffix := ""
	if tcode != "" {
		suffix = fmt.Sprintf(" (transaction %s", tcode)
		if d := cat.TCodeDescription(tcode); d != "" {
			suffix += " - " + d
		}
		suffix += ")"
	}

	switch e.ActivityType {
	case core.ActivityView:
		return "Information viewing activity: read-only access to system data" + suffix
	case core.ActivityFinancial:
		return "Regular financial transaction: standard accounting activity" + suffix
	case core.ActivityMaterialManagement:
		return "Inventory management: routine material or purchasing activity" + suffix
	case core.ActivitySales:
		return "Sales process: standard sales or customer activity" + suffix
	case core.ActivityOther:
		if table := strings.ToUpper(strings.TrimSpace(e.Table)); table != "" {
			desc := fmt.Sprintf("Standard activity on table %s", table)
			if d := cat.TableDescription(table); d != "" {
				desc += " - " + d
			}
			return desc + suffix
		}
	}
	return "Low-risk system activity: no sensitive data or system changes involved" + suffix
}
