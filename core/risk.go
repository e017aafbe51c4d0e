package core

// RiskLevel is the engine's ordered severity scale. The zero value is Low so
// a freshly sessionized event starts at the bottom of the scale.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

var riskLevelNames = map[RiskLevel]string{
	RiskLow:      "Low",
	RiskMedium:   "Medium",
	RiskHigh:     "High",
	RiskCritical: "Critical",
}

func (r RiskLevel) String() string {
	if name, ok := riskLevelNames[r]; ok {
		return name
	}
	return "Low"
}

// MarshalJSON renders the level as its display name.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON accepts the display name form.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*r = ParseRiskLevel(s)
	return nil
}

// MarshalText lets the level serve as a readable JSON map key.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts the display name form.
func (r *RiskLevel) UnmarshalText(data []byte) error {
	*r = ParseRiskLevel(string(data))
	return nil
}

// ParseRiskLevel maps a display name to a level. Unrecognized values parse
// as Low rather than failing, matching the best-effort error policy.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "Critical":
		return RiskCritical
	case "High":
		return RiskHigh
	case "Medium":
		return RiskMedium
	default:
		return RiskLow
	}
}

// MaxRiskLevel is the combinator used when merging rule outputs: successive
// assessments can only push the level upward.
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if a > b {
		return a
	}
	return b
}

// SAPRiskLevel mirrors the log source's own three-tier event criticality
// taxonomy. It is carried alongside RiskLevel, never merged into it.
type SAPRiskLevel string

const (
	SAPNonCritical SAPRiskLevel = "Non-Critical"
	SAPImportant   SAPRiskLevel = "Important"
	SAPCritical    SAPRiskLevel = "Critical"
)
