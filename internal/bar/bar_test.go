package bar_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"codeberg.org/mutker/barfeed/internal/bar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := bar.NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteHeader())

	assert.Equal(t, "{\"version\": 1}\n[\n", buf.String())
}

func TestWriteSnapshot(t *testing.T) {
	var buf bytes.Buffer
	w := bar.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())

	snapshot := bar.Snapshot{
		{FullText: "  42", Name: "volume"},
		{FullText: "12:34:56", Name: "clock"},
	}
	require.NoError(t, w.WriteSnapshot(snapshot))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `{"version": 1}`, lines[0])
	assert.Equal(t, "[", lines[1])

	// Snapshot line carries the protocol's trailing comma
	require.True(t, strings.HasSuffix(lines[2], ","), "line %q lacks trailing comma", lines[2])

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(lines[2], ",")), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "volume", decoded[0]["name"])
	assert.Equal(t, "  42", decoded[0]["full_text"])
	assert.Equal(t, "clock", decoded[1]["name"])
}

func TestColorOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := bar.NewWriter(&buf)

	require.NoError(t, w.WriteSnapshot(bar.Snapshot{
		{FullText: "plain", Name: "volume"},
		{FullText: "accented", Color: "#7aa2f7", Name: "net"},
	}))

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, `"color"`))
	assert.Contains(t, line, `"color":"#7aa2f7"`)
}

func TestEmptySnapshotStillEmitsLine(t *testing.T) {
	var buf bytes.Buffer
	w := bar.NewWriter(&buf)

	require.NoError(t, w.WriteSnapshot(nil))
	assert.Equal(t, "[],\n", buf.String())
}

func TestEveryLineIsOneSnapshot(t *testing.T) {
	var buf bytes.Buffer
	w := bar.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())

	for i := 0; i < 5; i++ {
		require.NoError(t, w.WriteSnapshot(bar.Snapshot{{FullText: "x", Name: "clock"}}))
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	for _, line := range lines[2:] {
		assert.True(t, strings.HasPrefix(line, "["))
		assert.True(t, strings.HasSuffix(line, "],"))
	}
}
