package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJanitorSweepsOnlyAgedFiles(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "download_1.mp4")
	newFile := filepath.Join(dir, "download_2.mp4")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-time.Hour)
	if err := os.Chtimes(oldFile, stale, stale); err != nil {
		t.Fatal(err)
	}

	j := NewJanitor(dir, time.Minute, 30*time.Minute, testLogger())
	if n := j.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d files, want 1", n)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("aged file survived the sweep")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("fresh file was swept")
	}
}

func TestJanitorMissingDirIsHarmless(t *testing.T) {
	j := NewJanitor(filepath.Join(t.TempDir(), "nope"), time.Minute, time.Minute, testLogger())
	if n := j.Sweep(); n != 0 {
		t.Errorf("Sweep on missing dir = %d, want 0", n)
	}
}
