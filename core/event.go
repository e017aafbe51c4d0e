// Package core defines the common event and session schema shared by every
// stage of the audit pipeline.
package core

import (
	"fmt"
	"time"
)

// Source identifies which audit log an event was extracted from.
type Source string

const (
	SourceAccessLog    Source = "SM20"  // security audit log
	SourceChangeHeader Source = "CDHDR" // change document header
	SourceChangeItem   Source = "CDPOS" // change document item
)

// ChangeIndicator is the change-document operation type.
type ChangeIndicator string

const (
	ChangeNone   ChangeIndicator = ""
	ChangeInsert ChangeIndicator = "I"
	ChangeUpdate ChangeIndicator = "U"
	ChangeDelete ChangeIndicator = "D"
)

// ParseChangeIndicator accepts both the raw SAP single-letter form and the
// normalized word form used by upstream exporters.
func ParseChangeIndicator(s string) ChangeIndicator {
	switch s {
	case "I", "i", "insert", "Insert", "INSERT":
		return ChangeInsert
	case "U", "u", "update", "Update", "UPDATE":
		return ChangeUpdate
	case "D", "d", "delete", "Delete", "DELETE":
		return ChangeDelete
	default:
		return ChangeNone
	}
}

// IsChange reports whether the indicator records an actual data mutation.
func (c ChangeIndicator) IsChange() bool {
	return c == ChangeInsert || c == ChangeUpdate || c == ChangeDelete
}

// ActivityType is the derived classification of what a user was doing.
type ActivityType string

const (
	ActivityUnknown            ActivityType = "Unknown"
	ActivityView               ActivityType = "View"
	ActivityCreate             ActivityType = "Create"
	ActivityUpdate             ActivityType = "Update"
	ActivityDelete             ActivityType = "Delete"
	ActivityFinancial          ActivityType = "Financial"
	ActivitySystem             ActivityType = "System"
	ActivityMaterialManagement ActivityType = "Material Management"
	ActivitySales              ActivityType = "Sales"
	ActivityOther              ActivityType = "Other"
)

// Event is one logged action from either audit source. It is created once by
// the ingest/correlate boundary and only appended to afterwards: first the
// session fields, then the risk fields.
type Event struct {
	Source Source `json:"source"`
	// Index is the original row index within its source export. Identity is
	// (Source, Index) and is preserved end to end for traceability.
	Index int `json:"index"`

	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	TCode     string    `json:"tcode,omitempty"`
	Table     string    `json:"table,omitempty"`
	Field     string    `json:"field,omitempty"`

	ChangeIndicator ChangeIndicator `json:"change_indicator,omitempty"`
	OldValue        string          `json:"old_value,omitempty"`
	NewValue        string          `json:"new_value,omitempty"`
	Description     string          `json:"description,omitempty"`

	// EventCode is the native SM20 event code (AU1, CUL, ...).
	EventCode string `json:"event_code,omitempty"`

	// Debug/dynamic-execution markers from the SM20 variable columns.
	VariableFirst string `json:"variable_first,omitempty"`
	Variable2     string `json:"variable_2,omitempty"`
	VariableData  string `json:"variable_data,omitempty"`

	// Ticket is the raw helpdesk reference, if the export carried one.
	Ticket string `json:"ticket,omitempty"`

	// Derived flags set by the correlator.
	DisplayOnly       bool `json:"is_display_only"`
	ActualChange      bool `json:"is_actual_change"`
	DisplayButChanged bool `json:"display_but_changed"`

	// Session fields, set by the sessionizer.
	SessionID  string `json:"session_id,omitempty"`
	SessionKey string `json:"session_key,omitempty"`

	// Risk fields, set by the rule engine and pattern detectors.
	RiskLevel       RiskLevel    `json:"risk_level"`
	SAPRiskLevel    SAPRiskLevel `json:"sap_risk_level"`
	RiskDescription string       `json:"risk_description,omitempty"`
	ActivityType    ActivityType `json:"activity_type,omitempty"`
}

// ID returns the stable traceability identity of the event.
func (e *Event) ID() string {
	return fmt.Sprintf("%s/%d", e.Source, e.Index)
}

// HasTimestamp reports whether the event carries a parseable timestamp.
// Events without one are excluded from all time-based operations but are
// retained in the final output.
func (e *Event) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}

// Escalate raises the risk level to at least level. Risk levels are
// monotonic: no stage may lower a level once raised.
func (e *Event) Escalate(level RiskLevel) {
	if level > e.RiskLevel {
		e.RiskLevel = level
	}
}

// AppendRiskFactor adds a detector explanation to the accumulated risk
// description, separated from earlier factors.
func (e *Event) AppendRiskFactor(factor string) {
	if factor == "" {
		return
	}
	if e.RiskDescription == "" {
		e.RiskDescription = factor
		return
	}
	e.RiskDescription += "; " + factor
}
