package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"argus/core"
)

// Overlay is the YAML form of catalog extensions. Entries merge over the
// built-in defaults; an entry with an existing key replaces its description.
// This keeps the catalog versionable without touching engine code.
type Overlay struct {
	SensitiveTables map[string]string `yaml:"sensitive_tables"`
	SensitiveTCodes map[string]string `yaml:"sensitive_tcodes"`
	ExcludedFields  []string          `yaml:"excluded_fields"`
	FieldPatterns   []OverlayPattern  `yaml:"field_patterns"`
	EventCodes      []OverlayEvent    `yaml:"event_codes"`
	InventoryTables map[string]string `yaml:"inventory_tables"`
	InventoryFields map[string]string `yaml:"inventory_fields"`
}

// OverlayPattern is one additional field rule. Pattern is matched against
// uppercased field names; Exclude lists exact names the rule must skip.
type OverlayPattern struct {
	Name        string   `yaml:"name"`
	Pattern     string   `yaml:"pattern"`
	Exclude     []string `yaml:"exclude"`
	Severity    string   `yaml:"severity"`
	Description string   `yaml:"description"`
}

// OverlayEvent adds or reclassifies a native event code.
type OverlayEvent struct {
	Code        string `yaml:"code"`
	Tier        string `yaml:"tier"`
	Description string `yaml:"description"`
}

// Load builds a catalog from the defaults plus the overlay file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog overlay: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse catalog overlay: %w", err)
	}

	if err := cat.apply(&overlay); err != nil {
		return nil, fmt.Errorf("failed to apply catalog overlay: %w", err)
	}
	return cat, nil
}

func (c *Catalog) apply(o *Overlay) error {
	for table, desc := range o.SensitiveTables {
		c.sensitiveTables[strings.ToUpper(table)] = desc
	}
	for tcode, desc := range o.SensitiveTCodes {
		c.sensitiveTCodes[strings.ToUpper(tcode)] = desc
	}
	for _, field := range o.ExcludedFields {
		c.excludedFields[strings.ToUpper(field)] = struct{}{}
	}
	for table, desc := range o.InventoryTables {
		c.inventoryTables[strings.ToUpper(table)] = desc
	}
	for field, desc := range o.InventoryFields {
		c.inventoryFields[strings.ToUpper(field)] = desc
	}

	for _, p := range o.FieldPatterns {
		if p.Pattern == "" {
			return fmt.Errorf("field pattern %q has no pattern", p.Name)
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("field pattern %q: %w", p.Name, err)
		}
		severity := core.RiskHigh
		if p.Severity != "" {
			severity = core.ParseRiskLevel(p.Severity)
		}
		excluded := make(map[string]struct{}, len(p.Exclude))
		for _, e := range p.Exclude {
			excluded[strings.ToUpper(e)] = struct{}{}
		}
		c.fieldRules = append(c.fieldRules, FieldRule{
			Name:  p.Name,
			Match: re.MatchString,
			Exclude: func(field string) bool {
				_, ok := excluded[field]
				return ok
			},
			Severity:    severity,
			Description: p.Description,
		})
	}

	for _, e := range o.EventCodes {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if code == "" {
			return fmt.Errorf("event code overlay entry has no code")
		}
		switch EventTier(e.Tier) {
		case TierCritical, TierImportant, TierNonCritical:
			c.eventTiers[code] = EventTier(e.Tier)
		case "":
			// description-only entry
		default:
			return fmt.Errorf("event code %s: unknown tier %q", code, e.Tier)
		}
		if e.Description != "" {
			c.eventDescriptions[code] = e.Description
		}
	}
	return nil
}
