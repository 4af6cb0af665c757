package jobs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Janitor periodically sweeps aged files out of the shared temp directory.
// Orphans happen: downloads finishing after a cancel, transfers the client
// never collected, crashes between spawn and cleanup.
type Janitor struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

func NewJanitor(dir string, interval, maxAge time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		dir:      dir,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger.WithGroup("janitor"),
	}
}

// Start runs the sweep loop until ctx is done.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				j.logger.Info("janitor stopped")
				return
			case <-ticker.C:
				if n := j.Sweep(); n > 0 {
					j.logger.Info("swept temp files", "count", n)
				}
			}
		}
	}()
}

// Sweep removes files older than the max age and returns how many went.
// Failures on individual files are logged and skipped; cleanup is best
// effort and must never take the service down.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Warn("could not read temp dir", "err", err)
		return 0
	}
	cutoff := time.Now().Add(-j.maxAge)
	cleaned := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Warn("could not remove old file", "file", entry.Name(), "err", err)
			continue
		}
		cleaned++
	}
	return cleaned
}
