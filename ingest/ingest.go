// Package ingest reads the normalized audit event table from CSV or
// JSON-lines files. Vendor export parsing happens upstream; this package
// only maps already-normalized columns onto the typed event schema.
package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"argus/core"
	"argus/metrics"
)

// timestampLayouts are tried in order when parsing event timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

// Reader loads normalized event tables.
type Reader struct {
	logger *zap.SugaredLogger

	// Quarantined counts rows whose timestamp could not be parsed. Those
	// rows are retained with a zero timestamp and stay out of time-based
	// stages.
	Quarantined int
}

// NewReader creates a Reader.
func NewReader(logger *zap.SugaredLogger) *Reader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Reader{logger: logger}
}

// ReadFile reads a normalized event table in the given format ("csv" or
// "jsonl"). The source is used for rows that do not carry their own.
func (r *Reader) ReadFile(path, format string, source core.Source) ([]*core.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	var events []*core.Event
	switch strings.ToLower(format) {
	case "csv":
		events, err = r.readCSV(f, source)
	case "jsonl":
		events, err = r.readJSONL(f, source)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, e := range events {
		metrics.EventsIngested.WithLabelValues(string(e.Source)).Inc()
	}
	r.logger.Infow("Input loaded",
		"path", path,
		"format", format,
		"events", len(events),
		"quarantined", r.Quarantined)
	return events, nil
}

// rawRecord is the JSON-lines row form. Timestamps arrive as strings so a
// malformed value quarantines the row instead of failing the whole file.
type rawRecord struct {
	Source          string `json:"source"`
	User            string `json:"user"`
	Timestamp       string `json:"timestamp"`
	TCode           string `json:"tcode"`
	Table           string `json:"table"`
	Field           string `json:"field"`
	ChangeIndicator string `json:"change_indicator"`
	OldValue        string `json:"old_value"`
	NewValue        string `json:"new_value"`
	Description     string `json:"description"`
	EventCode       string `json:"event_code"`
	VariableFirst   string `json:"variable_first"`
	Variable2       string `json:"variable_2"`
	VariableData    string `json:"variable_data"`
	Ticket          string `json:"ticket"`
}

func (r *Reader) readJSONL(src io.Reader, source core.Source) ([]*core.Event, error) {
	var events []*core.Event
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, r.toEvent(rec, len(events), source))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Reader) readCSV(src io.Reader, source core.Source) ([]*core.Event, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}

	var events []*core.Event
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(names ...string) string {
			for _, name := range names {
				if i, ok := cols[name]; ok && i < len(row) {
					return strings.TrimSpace(row[i])
				}
			}
			return ""
		}
		rec := rawRecord{
			Source:          cell("source"),
			User:            cell("user", "username"),
			Timestamp:       cell("timestamp", "datetime"),
			TCode:           cell("tcode", "transaction_code"),
			Table:           cell("table", "table_name"),
			Field:           cell("field", "field_name"),
			ChangeIndicator: cell("change_indicator"),
			OldValue:        cell("old_value"),
			NewValue:        cell("new_value"),
			Description:     cell("description"),
			EventCode:       cell("event", "event_code"),
			VariableFirst:   cell("variable_first", "first_variable_value_for_event"),
			Variable2:       cell("variable_2"),
			VariableData:    cell("variable_data", "variable_data_for_message"),
			Ticket:          cell("ticket", "sysaid"),
		}
		events = append(events, r.toEvent(rec, len(events), source))
	}
	return events, nil
}

// toEvent maps one raw row onto the typed schema, quarantining malformed
// timestamps.
func (r *Reader) toEvent(rec rawRecord, index int, source core.Source) *core.Event {
	e := &core.Event{
		Source:          source,
		Index:           index,
		User:            strings.ToUpper(strings.TrimSpace(rec.User)),
		TCode:           rec.TCode,
		Table:           rec.Table,
		Field:           rec.Field,
		ChangeIndicator: core.ParseChangeIndicator(rec.ChangeIndicator),
		OldValue:        rec.OldValue,
		NewValue:        rec.NewValue,
		Description:     rec.Description,
		EventCode:       rec.EventCode,
		VariableFirst:   rec.VariableFirst,
		Variable2:       rec.Variable2,
		VariableData:    rec.VariableData,
		Ticket:          rec.Ticket,
	}
	if s := strings.ToUpper(strings.TrimSpace(rec.Source)); s != "" {
		e.Source = core.Source(s)
	}
	e.ActualChange = e.ChangeIndicator.IsChange()

	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		r.Quarantined++
		metrics.EventsQuarantined.Inc()
		r.logger.Warnw("Malformed timestamp, event retained unsessioned",
			"event", e.ID(), "value", rec.Timestamp)
	} else {
		e.Timestamp = ts
	}
	return e
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// normalizeColumn maps a header cell to its canonical lookup key.
func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}
