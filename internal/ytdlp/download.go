package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/itzwish/ffa-downloader/internal/models"
)

// percentRe matches integer or decimal percentages like "12%" or "12.3%" in
// the tool's interleaved diagnostic output.
var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// Download fetches url into the temp directory and returns the path of the
// produced file. onProgress receives values clamped to [0,100]: a 0 right
// after spawn, every percentage scraped from the diagnostic stream, and a
// final 100 when the process exits regardless of outcome.
//
// The quality tier chosen by the client is accepted but intentionally not
// threaded into the argument vector: the command derives its own selector
// from the output format alone, matching the behavior this service has
// always had. The tier stays informational until that is revisited.
func (c *Client) Download(ctx context.Context, url, format, quality string, onProgress func(float64)) (string, error) {
	_ = quality

	base := filepath.Join(c.tempDir, fmt.Sprintf("download_%d", time.Now().UnixNano()))
	args := buildDownloadArgs(base, format, c.cookieArgs())
	args = append(args, url)

	// Arguments are passed as a vector, never through a shell, so a hostile
	// URL cannot smuggle in extra commands.
	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	c.logger.DebugContext(ctx, fmt.Sprintf("running cmd %s", cmd))

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe for cmd %s: %w", cmd, err)
	}
	if err := cmd.Start(); err != nil {
		onProgress(100)
		return "", &ToolError{ExitCode: -1, Output: err.Error()}
	}

	start := time.Now()
	c.logger.InfoContext(ctx, "download started", "url", url, "format", format)
	onProgress(0)

	// yt-dlp redraws its progress line with '\r', so the scanner splits on
	// both '\r' and '\n'. The full stream is retained for error reporting;
	// process lifetimes are short enough that this stays small.
	var diagnostic strings.Builder
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCRLines)
	for scanner.Scan() {
		line := scanner.Text()
		diagnostic.WriteString(line)
		diagnostic.WriteByte('\n')
		if m := percentRe.FindStringSubmatch(line); m != nil {
			if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
				onProgress(clamp(pct))
			}
		}
	}

	waitErr := cmd.Wait()
	onProgress(100)

	if waitErr != nil {
		exit := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exit = exitErr.ExitCode()
		}
		c.logger.ErrorContext(ctx, "download failed", "url", url, "exit", exit)
		return "", &ToolError{ExitCode: exit, Output: strings.TrimSpace(diagnostic.String())}
	}

	outputFile := base + "." + outputExt(format)
	if _, err := os.Stat(outputFile); err != nil {
		return "", ErrResultMissing
	}

	c.logger.InfoContext(ctx, "download finished", "url", url, "file", outputFile, "took", time.Since(start).String())
	return outputFile, nil
}

// buildDownloadArgs assembles the argument vector ahead of the URL.
func buildDownloadArgs(base, format string, cookieArgs []string) []string {
	var args []string
	if format == models.FormatMP3 {
		args = []string{
			"-f", "bestaudio",
			"--no-warnings",
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", "192K",
		}
	} else {
		args = []string{
			"-f", "best[ext=mp4]",
			"--no-warnings",
		}
	}
	args = append(args, "-o", base+".%(ext)s")
	args = append(args, cookieArgs...)
	return args
}

func outputExt(format string) string {
	if format == models.FormatMP3 {
		return "mp3"
	}
	return "mp4"
}

func clamp(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// scanCRLines is a bufio.SplitFunc that treats both '\r' and '\n' as line
// terminators.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == '\r' || b == '\n' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
