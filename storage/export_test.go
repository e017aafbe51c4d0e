package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.csv")
	require.NoError(t, ExportCSV(path, sampleEvents()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 events
	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "High", rows[1][14])
	assert.Equal(t, "X", rows[2][18])
	// Unsessioned event exports with an empty timestamp cell.
	assert.Empty(t, rows[3][2])
}

func TestExportJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.jsonl")
	require.NoError(t, ExportJSONL(path, sampleEvents()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"risk_level":"High"`)
	assert.Contains(t, lines[1], `"display_but_changed":true`)
}
