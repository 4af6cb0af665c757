package ytdlp

import (
	"testing"
)

func TestNegotiateEmpty(t *testing.T) {
	ladder := Negotiate(nil)
	if ladder.Video == nil || ladder.Audio == nil {
		t.Fatal("ladders must be empty slices, not nil")
	}
	if len(ladder.Video) != 0 || len(ladder.Audio) != 0 {
		t.Errorf("expected empty ladders, got %d video / %d audio", len(ladder.Video), len(ladder.Audio))
	}
}

func TestNegotiateVideoDedup(t *testing.T) {
	formats := []RawFormat{
		{FormatID: "137", VCodec: "avc1", ACodec: "none", Height: 1080, FPS: 30},
		{FormatID: "248", VCodec: "vp9", ACodec: "none", Height: 1080, FPS: 60},
		{FormatID: "134", VCodec: "avc1", ACodec: "none", Height: 400},
	}

	ladder := Negotiate(formats)

	seen := map[string]int{}
	for _, tier := range ladder.Video {
		seen[tier.Quality]++
	}
	for label, n := range seen {
		if n != 1 {
			t.Errorf("tier %s present %d times, want exactly once", label, n)
		}
	}
	if seen["1080p"] != 1 {
		t.Error("expected a 1080p tier")
	}

	// First match wins across the whole ladder: every rung is satisfied by
	// the first listed format tall enough, which here is always format 137.
	for _, tier := range ladder.Video {
		if tier.FormatID != "137" {
			t.Errorf("tier %s picked format %s, want first match 137", tier.Quality, tier.FormatID)
		}
	}
}

func TestNegotiateAudioLadder(t *testing.T) {
	formats := []RawFormat{
		{FormatID: "140", VCodec: "none", ACodec: "mp4a", ABR: 129},
		{FormatID: "251", VCodec: "none", ACodec: "opus", ABR: 200},
		{FormatID: "180", VCodec: "avc1", ACodec: "mp4a", Height: 360, ABR: 500},
	}

	ladder := Negotiate(formats)

	if len(ladder.Audio) != 2 {
		t.Fatalf("audio tiers = %d, want 2 (nothing reaches 256kbps)", len(ladder.Audio))
	}
	if ladder.Audio[0].Bitrate != "128kbps" || ladder.Audio[0].FormatID != "140" {
		t.Errorf("first audio tier = %+v, want 128kbps/140", ladder.Audio[0])
	}
	// Formats carrying a video codec never count as audio tiers, even with a
	// high audio bitrate.
	for _, tier := range ladder.Audio {
		if tier.FormatID == "180" {
			t.Error("muxed format leaked into the audio ladder")
		}
	}
}

func TestNegotiateFPSDefault(t *testing.T) {
	ladder := Negotiate([]RawFormat{
		{FormatID: "18", VCodec: "avc1", ACodec: "mp4a", Height: 360},
	})
	if len(ladder.Video) == 0 {
		t.Fatal("expected at least one video tier")
	}
	if ladder.Video[0].FPS != 30 {
		t.Errorf("FPS = %v, want default 30", ladder.Video[0].FPS)
	}
}
