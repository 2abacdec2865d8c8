package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(artifact, status string) Entry {
	return Entry{
		Timestamp: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Artifact:  artifact,
		CommitID:  "d6f1a9e2",
		Ingested:  12,
		Rejected:  1,
		Status:    status,
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	e := entry("jan.csv", "committed")
	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_BadRows(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"wrong field count", []string{"a", "b"}},
		{"bad timestamp", []string{"yesterday", "a.csv", "id", "1", "0", "committed"}},
		{"bad ingested count", []string{"2024-01-15T09:30:00Z", "a.csv", "id", "twelve", "0", "committed"}},
		{"bad rejected count", []string{"2024-01-15T09:30:00Z", "a.csv", "id", "1", "x", "committed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEntry(tt.record)
			assert.Error(t, err)
		})
	}
}

func TestLog_AppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ingest-log.csv")
	l := New(path)

	require.NoError(t, l.Append(entry("jan.csv", "committed")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Contains(t, lines[1], "jan.csv")
}

func TestLog_AppendsWithoutRepeatingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest-log.csv")
	l := New(path)

	require.NoError(t, l.Append(entry("jan.csv", "committed")))
	require.NoError(t, l.Append(entry("feb.csv", "archive-failed")))

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "jan.csv", entries[0].Artifact)
	assert.Equal(t, "feb.csv", entries[1].Artifact)
	assert.Equal(t, "archive-failed", entries[1].Status)
}

func TestLog_ReadMissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "nope.csv"))
	entries, err := l.Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadEntries_Empty(t *testing.T) {
	entries, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
