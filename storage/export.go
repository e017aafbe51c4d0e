package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"argus/core"
)

// exportColumns is the enriched table layout consumed by the report
// generator.
var exportColumns = []string{
	"Source", "User", "Datetime", "TCode", "Table", "Field",
	"Change_Indicator", "Old_Value", "New_Value", "Description", "Event",
	"Ticket", "Session_ID", "Session_Key", "Risk_Level", "SAP_Risk_Level",
	"Risk_Description", "Activity_Type", "Display_But_Changed",
}

// ExportCSV writes the enriched event table to path.
func ExportCSV(path string, events []*core.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range events {
		ts := ""
		if e.HasTimestamp() {
			ts = e.Timestamp.Format(time.RFC3339)
		}
		displayButChanged := ""
		if e.DisplayButChanged {
			displayButChanged = "X"
		}
		row := []string{
			string(e.Source), e.User, ts, e.TCode, e.Table, e.Field,
			string(e.ChangeIndicator), e.OldValue, e.NewValue, e.Description, e.EventCode,
			e.Ticket, e.SessionID, e.SessionKey, e.RiskLevel.String(), string(e.SAPRiskLevel),
			e.RiskDescription, string(e.ActivityType), displayButChanged,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write event %s: %w", e.ID(), err)
		}
	}
	w.Flush()
	return w.Error()
}

// ExportJSONL writes the enriched event table to path, one JSON object per
// line.
func ExportJSONL(path string, events []*core.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode event %s: %w", e.ID(), err)
		}
	}
	return nil
}
