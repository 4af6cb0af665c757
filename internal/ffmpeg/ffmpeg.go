// Package ffmpeg wraps the ffmpeg binary for local re-encoding. The main
// download flow gets its containers directly from yt-dlp; this conversion
// path exists for callers that need to re-encode an already-downloaded file
// at a different quality preset.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
)

// Presets accepted by Convert.
const (
	PresetLow    = "low"
	PresetMedium = "medium"
	PresetHigh   = "high"
)

// Convert re-encodes inputPath into outputPath using the given quality
// preset. Unknown presets fall back to a medium video quantizer.
func Convert(ctx context.Context, inputPath, outputPath, preset string) error {
	args := BuildArgs(inputPath, outputPath, preset)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %v: %s", err, out)
	}
	return nil
}

// BuildArgs maps a quality preset to encoder parameters.
func BuildArgs(inputPath, outputPath, preset string) []string {
	args := []string{"-i", inputPath, "-y"}
	switch preset {
	case PresetLow:
		args = append(args, "-q:v", "28", "-q:a", "5")
	case PresetMedium:
		args = append(args, "-q:v", "24", "-q:a", "4")
	case PresetHigh:
		args = append(args, "-q:v", "18", "-q:a", "2")
	default:
		args = append(args, "-q:v", "24")
	}
	return append(args, outputPath)
}
