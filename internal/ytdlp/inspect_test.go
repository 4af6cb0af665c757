package ytdlp

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestInspectParsesMetadata(t *testing.T) {
	installFakeTool(t, `
cat <<'EOF'
{"title":"Some Clip","duration":212.5,"uploader":"someone","thumbnail":"https://i.example/t.jpg",
 "formats":[
  {"format_id":"137","vcodec":"avc1","acodec":"none","height":1080,"fps":30},
  {"format_id":"140","vcodec":"none","acodec":"mp4a","abr":129}
 ]}
EOF
exit 0
`)

	client := NewClient(t.TempDir(), "", testLogger())
	info, err := client.Inspect(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Title != "Some Clip" || info.Uploader != "someone" {
		t.Errorf("metadata = %q/%q, want Some Clip/someone", info.Title, info.Uploader)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("formats = %d, want 2", len(info.Formats))
	}
	if info.Formats[0].Height != 1080 {
		t.Errorf("first format height = %d, want 1080", info.Formats[0].Height)
	}
}

func TestInspectDefaultsUnknownFields(t *testing.T) {
	installFakeTool(t, `
printf '{"duration":10}\n'
exit 0
`)

	client := NewClient(t.TempDir(), "", testLogger())
	info, err := client.Inspect(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Title != "Unknown" || info.Uploader != "Unknown" {
		t.Errorf("missing fields = %q/%q, want Unknown/Unknown", info.Title, info.Uploader)
	}
}

func TestInspectFailure(t *testing.T) {
	installFakeTool(t, `
printf 'ERROR: unsupported URL\n' >&2
exit 1
`)

	client := NewClient(t.TempDir(), "", testLogger())
	_, err := client.Inspect(context.Background(), "https://example.com/v")
	if err == nil {
		t.Fatal("expected failure")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T, want *ToolError", err)
	}
	if !strings.Contains(toolErr.Output, "unsupported URL") {
		t.Errorf("output %q does not carry stderr text", toolErr.Output)
	}
}
