package ytdlp

import "fmt"

// VideoTier is a selectable video quality bucket.
type VideoTier struct {
	Quality  string  `json:"quality"`
	FormatID string  `json:"formatId"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
}

// AudioTier is a selectable audio bitrate bucket.
type AudioTier struct {
	Bitrate  string `json:"bitrate"`
	FormatID string `json:"formatId"`
}

// Ladder holds the deduplicated quality tiers offered to the client.
type Ladder struct {
	Video []VideoTier `json:"video"`
	Audio []AudioTier `json:"audio"`
}

var (
	videoTargets = []int{1080, 720, 480, 360, 240}
	audioTargets = []int{128, 192, 256, 320}
)

// Negotiate reduces a raw formats list to a small ladder of representative
// tiers. Each video rung picks the first format at least as tall as the
// target, each audio rung the first audio-only format at least as fast as the
// target bitrate, so a rung means "at least this good" rather than an exact
// match. Duplicate labels keep their first match. An empty input yields empty
// (non-nil) ladders.
func Negotiate(formats []RawFormat) Ladder {
	ladder := Ladder{
		Video: []VideoTier{},
		Audio: []AudioTier{},
	}

	var video, audio []RawFormat
	for _, f := range formats {
		hasVideo := f.VCodec != "" && f.VCodec != "none"
		hasAudio := f.ACodec != "" && f.ACodec != "none"
		switch {
		case hasVideo:
			video = append(video, f)
		case hasAudio:
			audio = append(audio, f)
		}
	}

	seenV := map[string]bool{}
	for _, target := range videoTargets {
		for _, f := range video {
			if f.Height < target {
				continue
			}
			label := fmt.Sprintf("%dp", target)
			if !seenV[label] {
				seenV[label] = true
				fps := f.FPS
				if fps == 0 {
					fps = 30
				}
				ladder.Video = append(ladder.Video, VideoTier{
					Quality:  label,
					FormatID: f.FormatID,
					Height:   f.Height,
					FPS:      fps,
				})
			}
			break
		}
	}

	seenA := map[string]bool{}
	for _, target := range audioTargets {
		for _, f := range audio {
			if f.ABR < float64(target) {
				continue
			}
			label := fmt.Sprintf("%dkbps", target)
			if !seenA[label] {
				seenA[label] = true
				ladder.Audio = append(ladder.Audio, AudioTier{
					Bitrate:  label,
					FormatID: f.FormatID,
				})
			}
			break
		}
	}

	return ladder
}
