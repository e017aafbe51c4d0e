package risk

import (
	"strings"

	"argus/core"
)

var displayKeywords = []string{"DISPLAY", "VIEW", "SHOW", "LIST"}

// classifyActivity derives the activity type from the event's description,
// change indicator, and transaction-code prefix, in that precedence order.
func classifyActivity(e *core.Event) core.ActivityType {
	if e.TCode == "" && e.Table == "" {
		return core.ActivityUnknown
	}
	tcode := strings.ToUpper(strings.TrimSpace(e.TCode))
	desc := strings.ToUpper(e.Description)

	// Direct table browse with a passed permission check but no recorded
	// values: the permission alone does not prove a change happened.
	if tcode == "SE16" && e.Source == core.SourceAccessLog &&
		e.OldValue == "" && e.NewValue == "" &&
		strings.Contains(desc, "ACTIVITY 02") &&
		strings.Contains(desc, "AUTH. CHECK: PASSED") {
		return core.ActivityView
	}

	for _, kw := range displayKeywords {
		if strings.Contains(desc, kw) {
			return core.ActivityView
		}
	}

	switch e.ChangeIndicator {
	case core.ChangeInsert:
		return core.ActivityCreate
	case core.ChangeUpdate:
		return core.ActivityUpdate
	case core.ChangeDelete:
		return core.ActivityDelete
	}

	switch {
	case strings.HasPrefix(tcode, "F"):
		return core.ActivityFinancial
	case strings.HasPrefix(tcode, "S"):
		return core.ActivitySystem
	case strings.HasPrefix(tcode, "MM"):
		return core.ActivityMaterialManagement
	case strings.HasPrefix(tcode, "VA"):
		return core.ActivitySales
	}
	return core.ActivityOther
}
