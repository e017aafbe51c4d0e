// Package catalog is the read-only reference knowledge base consulted by the
// risk engine: sensitive tables, sensitive transaction codes, risky
// field-name rules, and the native event-code classification. A Catalog is
// built once (defaults plus an optional YAML overlay) and passed explicitly
// into the engine; it is never mutated afterwards, so swapping or extending
// it requires no engine changes.
package catalog

import (
	"regexp"
	"strings"

	"argus/core"
)

// EventTier is the log source's own criticality tier for an event code.
type EventTier string

const (
	TierCritical    EventTier = "Critical"
	TierImportant   EventTier = "Important"
	TierNonCritical EventTier = "Non-Critical"
)

// FieldRule is one entry in the ordered field-name rule list. Exclusions are
// first-class predicates rather than regex lookbehind tricks: a rule matches
// only when its matcher fires and its exclusion does not.
type FieldRule struct {
	// Name identifies the rule in explanations and overlays.
	Name string
	// Match reports whether the uppercased field name triggers the rule.
	Match func(field string) bool
	// Exclude, when non-nil, suppresses a match for specific field names.
	Exclude func(field string) bool
	Severity    core.RiskLevel
	Description string
}

// FieldMatch is the outcome of evaluating the field rule list.
type FieldMatch struct {
	Rule        string
	Severity    core.RiskLevel
	Description string
}

// Catalog holds every reference set. All lookups are case-insensitive; keys
// are stored uppercased.
type Catalog struct {
	sensitiveTables map[string]string
	commonTables    map[string]string
	sensitiveTCodes map[string]string
	commonTCodes    map[string]string
	commonFields    map[string]string

	// excludedFields are exact field names that never match any field rule
	// (short names that collide lexically with risky substrings).
	excludedFields map[string]struct{}
	fieldRules     []FieldRule

	eventTiers        map[string]EventTier
	eventDescriptions map[string]string

	debugMessageCodes map[string]string
	inventoryTables   map[string]string
	inventoryFields   map[string]string
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{
		sensitiveTables:   defaultSensitiveTables(),
		commonTables:      defaultCommonTables(),
		sensitiveTCodes:   defaultSensitiveTCodes(),
		commonTCodes:      defaultCommonTCodes(),
		commonFields:      defaultCommonFields(),
		excludedFields:    make(map[string]struct{}),
		eventTiers:        defaultEventTiers(),
		eventDescriptions: defaultEventDescriptions(),
		debugMessageCodes: defaultDebugMessageCodes(),
		inventoryTables:   defaultInventoryTables(),
		inventoryFields:   defaultInventoryFields(),
	}
	for _, f := range defaultExcludedFields {
		c.excludedFields[f] = struct{}{}
	}
	c.fieldRules = defaultFieldRules()
	return c
}

// SensitiveTable reports whether table is in the sensitive set, with its
// description when known.
func (c *Catalog) SensitiveTable(table string) (string, bool) {
	desc, ok := c.sensitiveTables[strings.ToUpper(strings.TrimSpace(table))]
	return desc, ok
}

// SensitiveTCode reports whether tcode is in the sensitive set, with its
// description when known.
func (c *Catalog) SensitiveTCode(tcode string) (string, bool) {
	desc, ok := c.sensitiveTCodes[strings.ToUpper(strings.TrimSpace(tcode))]
	return desc, ok
}

// TableDescription returns the short description for any known table,
// sensitive or common.
func (c *Catalog) TableDescription(table string) string {
	key := strings.ToUpper(strings.TrimSpace(table))
	if d, ok := c.sensitiveTables[key]; ok {
		return shortDescription(d)
	}
	if d, ok := c.commonTables[key]; ok {
		return shortDescription(d)
	}
	return ""
}

// TCodeDescription returns the short description for any known transaction
// code, sensitive or common.
func (c *Catalog) TCodeDescription(tcode string) string {
	key := strings.ToUpper(strings.TrimSpace(tcode))
	if d, ok := c.sensitiveTCodes[key]; ok {
		return shortDescription(d)
	}
	if d, ok := c.commonTCodes[key]; ok {
		return shortDescription(d)
	}
	return ""
}

// FieldDescription returns the short description for a known field name.
func (c *Catalog) FieldDescription(field string) string {
	if d, ok := c.commonFields[strings.ToUpper(strings.TrimSpace(field))]; ok {
		return shortDescription(d)
	}
	return ""
}

// MatchField evaluates the ordered field rule list against a field name.
// The exact-name exclusion list is checked first and wins unconditionally.
func (c *Catalog) MatchField(field string) (FieldMatch, bool) {
	name := strings.ToUpper(strings.TrimSpace(field))
	if name == "" {
		return FieldMatch{}, false
	}
	if _, excluded := c.excludedFields[name]; excluded {
		return FieldMatch{}, false
	}
	for _, rule := range c.fieldRules {
		if !rule.Match(name) {
			continue
		}
		if rule.Exclude != nil && rule.Exclude(name) {
			continue
		}
		return FieldMatch{Rule: rule.Name, Severity: rule.Severity, Description: rule.Description}, true
	}
	return FieldMatch{}, false
}

// EventTier returns the native classification tier for an event code.
func (c *Catalog) EventTier(code string) (EventTier, bool) {
	tier, ok := c.eventTiers[strings.ToUpper(strings.TrimSpace(code))]
	return tier, ok
}

// EventDescription returns the human-readable description of an event code.
func (c *Catalog) EventDescription(code string) string {
	return c.eventDescriptions[strings.ToUpper(strings.TrimSpace(code))]
}

// DebugMessageCode reports whether code is a known debugging message code,
// with its action description.
func (c *Catalog) DebugMessageCode(code string) (string, bool) {
	desc, ok := c.debugMessageCodes[strings.ToUpper(strings.TrimSpace(code))]
	return desc, ok
}

// DebugMessageCodes returns the full debug message-code set.
func (c *Catalog) DebugMessageCodes() map[string]string {
	out := make(map[string]string, len(c.debugMessageCodes))
	for k, v := range c.debugMessageCodes {
		out[k] = v
	}
	return out
}

// InventorySensitive reports whether a table or field touches
// inventory-valuation data.
func (c *Catalog) InventorySensitive(table, field string) (string, bool) {
	if d, ok := c.inventoryTables[strings.ToUpper(strings.TrimSpace(table))]; ok {
		return d, true
	}
	if d, ok := c.inventoryFields[strings.ToUpper(strings.TrimSpace(field))]; ok {
		return d, true
	}
	return "", false
}

// Counts summarizes the catalog for CLI display and logging.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"sensitive_tables":    len(c.sensitiveTables),
		"common_tables":       len(c.commonTables),
		"sensitive_tcodes":    len(c.sensitiveTCodes),
		"common_tcodes":       len(c.commonTCodes),
		"common_fields":       len(c.commonFields),
		"excluded_fields":     len(c.excludedFields),
		"field_rules":         len(c.fieldRules),
		"event_codes":         len(c.eventTiers),
		"debug_message_codes": len(c.debugMessageCodes),
		"inventory_tables":    len(c.inventoryTables),
		"inventory_fields":    len(c.inventoryFields),
	}
}

// shortDescription keeps the part before the " - " separator used throughout
// the reference data.
func shortDescription(d string) string {
	if i := strings.Index(d, " - "); i > 0 {
		return d[:i]
	}
	return d
}

// regexRule builds a FieldRule from a word-anchored pattern. Patterns are
// matched against uppercased names, so they are written uppercase.
func regexRule(name, pattern string, severity core.RiskLevel, description string, exclude ...string) FieldRule {
	re := regexp.MustCompile(pattern)
	var excluded map[string]struct{}
	if len(exclude) > 0 {
		excluded = make(map[string]struct{}, len(exclude))
		for _, e := range exclude {
			excluded[strings.ToUpper(e)] = struct{}{}
		}
	}
	return FieldRule{
		Name:  name,
		Match: re.MatchString,
		Exclude: func(field string) bool {
			if excluded == nil {
				return false
			}
			_, ok := excluded[field]
			return ok
		},
		Severity:    severity,
		Description: description,
	}
}
