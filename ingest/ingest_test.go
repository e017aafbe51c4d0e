package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"argus/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFileCSV(t *testing.T) {
	path := writeFile(t, "timeline.csv",
		"Source,User,Datetime,TCode,Table,Field,Change_Indicator,Old_Value,New_Value,Description,Event,Variable_2,SysAid\n"+
			"SM20,jdoe,2025-05-12 09:00:00,SE16,USR02,,,,,Display table contents,AU3,,#120568\n"+
			"CDPOS,jdoe,2025-05-12 09:02:00,XK02,LFA1,BANKN,U,111,222,Vendor bank changed,,,\n")

	r := NewReader(zaptest.NewLogger(t).Sugar())
	events, err := r.ReadFile(path, "csv", core.SourceAccessLog)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, core.SourceAccessLog, first.Source)
	assert.Equal(t, "JDOE", first.User)
	assert.Equal(t, time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "SE16", first.TCode)
	assert.Equal(t, "AU3", first.EventCode)
	assert.Equal(t, "#120568", first.Ticket)
	assert.False(t, first.ActualChange)

	second := events[1]
	assert.Equal(t, core.SourceChangeItem, second.Source)
	assert.Equal(t, core.ChangeUpdate, second.ChangeIndicator)
	assert.True(t, second.ActualChange)
	assert.Equal(t, "BANKN", second.Field)
}

func TestReadFileCSV_MalformedTimestampQuarantined(t *testing.T) {
	path := writeFile(t, "timeline.csv",
		"User,Datetime,TCode\n"+
			"jdoe,2025-05-12 09:00:00,SE16\n"+
			"jdoe,not-a-date,SE16\n")

	r := NewReader(zaptest.NewLogger(t).Sugar())
	events, err := r.ReadFile(path, "csv", core.SourceAccessLog)
	require.NoError(t, err)

	// Malformed rows are retained, not dropped.
	require.Len(t, events, 2)
	assert.Equal(t, 1, r.Quarantined)
	assert.True(t, events[0].HasTimestamp())
	assert.False(t, events[1].HasTimestamp())
}

func TestReadFileJSONL(t *testing.T) {
	path := writeFile(t, "changes.jsonl",
		`{"user":"jdoe","timestamp":"2025-05-12T09:02:00Z","tcode":"XK02","table":"LFA1","field":"BANKN","change_indicator":"U"}`+"\n"+
			"\n"+
			`{"user":"jdoe","timestamp":"2025-05-12T09:05:00Z","tcode":"XK02","table":"LFA1","field":"BANKN","change_indicator":"update"}`+"\n")

	r := NewReader(zaptest.NewLogger(t).Sugar())
	events, err := r.ReadFile(path, "jsonl", core.SourceChangeItem)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, core.ChangeUpdate, events[0].ChangeIndicator)
	// The word form normalizes like the single-letter form.
	assert.Equal(t, core.ChangeUpdate, events[1].ChangeIndicator)
}

func TestReadFileJSONL_BadLineFails(t *testing.T) {
	path := writeFile(t, "bad.jsonl", "{not json}\n")
	r := NewReader(nil)
	_, err := r.ReadFile(path, "jsonl", core.SourceAccessLog)
	assert.Error(t, err)
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "x.txt", "data")
	_, err := NewReader(nil).ReadFile(path, "xml", core.SourceAccessLog)
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := NewReader(nil).ReadFile("/nonexistent/input.csv", "csv", core.SourceAccessLog)
	assert.Error(t, err)
}
