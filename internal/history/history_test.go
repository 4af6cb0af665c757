package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestStatsEmpty(t *testing.T) {
	r := openTestDB(t)

	stats, err := r.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDownloads)
	assert.Zero(t, stats.ErrorRate)
}

func TestRecordAndStats(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Record(ctx, Entry{
		ID:         "a",
		SourceURL:  "https://example.com/1",
		Format:     "mp4",
		Status:     "completed",
		Duration:   4 * time.Second,
		SizeBytes:  1000,
		CreatedAt:  now.Add(-4 * time.Second),
		FinishedAt: now,
	}))
	require.NoError(t, r.Record(ctx, Entry{
		ID:            "b",
		SourceURL:     "https://example.com/2",
		Format:        "mp3",
		Status:        "error",
		FailureReason: "yt-dlp failed",
		Duration:      2 * time.Second,
		CreatedAt:     now.Add(-2 * time.Second),
		FinishedAt:    now,
	}))

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalDownloads)
	assert.EqualValues(t, 1, stats.TotalErrors)
	assert.InDelta(t, 50, stats.ErrorRate, 0.01)
	assert.InDelta(t, 3000, stats.AvgDurationMs, 0.01)
	assert.EqualValues(t, 1000, stats.TotalSizeBytes)
}
