package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// RawFormat is one entry of yt-dlp's formats list, reduced to the fields the
// negotiator needs.
type RawFormat struct {
	FormatID string  `json:"format_id"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	ABR      float64 `json:"abr"`
}

// Info is the subset of yt-dlp's dump-json output exposed to clients.
type Info struct {
	Title     string      `json:"title"`
	Duration  float64     `json:"duration"`
	Uploader  string      `json:"uploader"`
	Thumbnail string      `json:"thumbnail"`
	Formats   []RawFormat `json:"formats"`
}

// Inspect fetches metadata for url without downloading anything. A non-zero
// exit surfaces the captured diagnostic output as a ToolError.
func (c *Client) Inspect(ctx context.Context, url string) (*Info, error) {
	args := []string{"-j", "--no-warnings"}
	args = append(args, c.cookieArgs()...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	c.logger.DebugContext(ctx, fmt.Sprintf("running cmd %s", cmd))
	out, err := cmd.Output()
	if err != nil {
		return nil, &ToolError{ExitCode: exitCode(err), Output: stderrOf(err)}
	}

	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decoding yt-dlp output: %w", err)
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}
	if info.Uploader == "" {
		info.Uploader = "Unknown"
	}
	return &info, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return string(exitErr.Stderr)
	}
	return err.Error()
}
