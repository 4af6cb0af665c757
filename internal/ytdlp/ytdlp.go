// Package ytdlp shells out to the yt-dlp binary for media inspection and
// download. The binary's stdout/stderr is the only interface: this package
// builds argument vectors, scrapes progress out of the diagnostic stream and
// reports the resulting file, nothing more.
package ytdlp

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	// ErrResultMissing means the subprocess exited cleanly but the expected
	// output file was not on disk.
	ErrResultMissing = errors.New("download completed but file not found")
)

// ToolError carries the exit status and diagnostic output of a failed
// subprocess run.
type ToolError struct {
	ExitCode int
	Output   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("yt-dlp failed (exit %d): %s", e.ExitCode, e.Output)
}

// Client runs yt-dlp against a shared temp directory.
type Client struct {
	tempDir     string
	cookiesPath string
	logger      *slog.Logger
}

// NewClient returns a Client writing into tempDir. cookiesPath may be empty;
// it is only passed to the binary when the file actually exists.
func NewClient(tempDir, cookiesPath string, logger *slog.Logger) *Client {
	return &Client{
		tempDir:     tempDir,
		cookiesPath: cookiesPath,
		logger:      logger.WithGroup("ytdlp"),
	}
}

// cookieArgs returns the --cookies flag pair when a cookies file is configured
// and present on disk.
func (c *Client) cookieArgs() []string {
	if c.cookiesPath == "" {
		return nil
	}
	if _, err := os.Stat(c.cookiesPath); err != nil {
		return nil
	}
	return []string{"--cookies", c.cookiesPath}
}
