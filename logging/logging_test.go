package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: "warn"})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("event", "GameOver").Msg("not registered")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "GameOver", entry["event"])
	assert.Equal(t, "not registered", entry["message"])
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Console: true})
	require.NoError(t, err)

	log.Info().Msg("merge")
	assert.Contains(t, buf.String(), "merge")
	assert.NotContains(t, buf.String(), "{")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planet.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestOpenFile_EmptyDiscards(t *testing.T) {
	f, err := OpenFile("")
	require.NoError(t, err)
	n, err := f.Write([]byte("dropped"))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, f.Close())
}
