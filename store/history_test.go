package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *History {
	t.Helper()
	h, err := Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_EmptyBest(t *testing.T) {
	h := openMemory(t)

	_, ok, err := h.Best(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistory_RecordAndBest(t *testing.T) {
	h := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{StartedAt: base, EndedAt: base.Add(time.Minute), Score: 40, Merges: 12, Reason: "hazard"},
		{StartedAt: base.Add(time.Hour), EndedAt: base.Add(time.Hour + 2*time.Minute), Score: 95, Merges: 30, Reason: "hazard"},
		{StartedAt: base.Add(2 * time.Hour), EndedAt: base.Add(2*time.Hour + time.Minute), Score: 95, Merges: 28, Reason: "quit"},
	}
	for i := range runs {
		require.NoError(t, h.Record(ctx, &runs[i]))
		assert.NotZero(t, runs[i].ID)
	}

	best, ok, err := h.Best(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, runs[1].ID, best.ID, "earliest of tied scores wins")
	assert.Equal(t, 2*time.Minute, best.Duration())

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestHistory_Recent(t *testing.T) {
	h := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Record(ctx, &Run{StartedAt: base.Add(time.Duration(i) * time.Hour), Score: uint64(i)}))
	}

	recent, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.EqualValues(t, 4, recent[0].Score)
	assert.EqualValues(t, 3, recent[1].Score)
}

func TestHistory_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	h, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, h.Record(ctx, &Run{StartedAt: time.Now(), Score: 7}))
	require.NoError(t, h.Close())

	h, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer h.Close()

	best, ok, err := h.Best(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 7, best.Score)
}
