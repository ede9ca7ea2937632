package models

import (
	"fmt"
	"strings"
	"time"
)

// SubtitleTrack describes one subtitle stream of a media file.
type SubtitleTrack struct {
	Language string `json:"language" yaml:"language"`
	Format   string `json:"format" yaml:"format"`
	Title    string `json:"title" yaml:"title"`
}

// VideoInfo holds the primary video stream properties.
type VideoInfo struct {
	Codec      string  `json:"codec" yaml:"codec"`
	CodecName  string  `json:"codec_name" yaml:"codec_name"`
	Resolution string  `json:"resolution" yaml:"resolution"`
	Width      int     `json:"width" yaml:"width"`
	Height     int     `json:"height" yaml:"height"`
	Bitrate    int     `json:"bitrate" yaml:"bitrate"` // kbps
	Framerate  float64 `json:"framerate" yaml:"framerate"`
}

// AudioInfo holds the primary audio stream properties.
type AudioInfo struct {
	Codec      string `json:"codec" yaml:"codec"`
	CodecName  string `json:"codec_name" yaml:"codec_name"`
	Channels   string `json:"channels" yaml:"channels"` // layout: mono, stereo, 5.1, 7.1
	Bitrate    int    `json:"bitrate" yaml:"bitrate"`   // kbps
	SampleRate int    `json:"sample_rate" yaml:"sample_rate"`
}

// MediaMetadata is the canonical description of a media file, produced once
// per file by the extractor and never mutated afterwards. Re-analysis
// produces a new record.
type MediaMetadata struct {
	Filename        string          `json:"filename" yaml:"filename"`
	Extension       string          `json:"extension" yaml:"extension"`
	Size            int64           `json:"size" yaml:"size"`
	MIMEType        string          `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	LastModified    time.Time       `json:"last_modified" yaml:"last_modified"`
	ContainerFormat string          `json:"container_format" yaml:"container_format"`
	Duration        float64         `json:"duration" yaml:"duration"` // seconds
	Subtitles       []SubtitleTrack `json:"subtitles" yaml:"subtitles"`
	Video           VideoInfo       `json:"video" yaml:"video"`
	Audio           AudioInfo       `json:"audio" yaml:"audio"`
	TotalBitrate    int             `json:"total_bitrate" yaml:"total_bitrate"` // kbps

	IsRealAnalysis bool   `json:"is_real_analysis" yaml:"is_real_analysis"`
	Source         string `json:"source" yaml:"source"`
}

// HasSubtitles reports whether the file carries at least one subtitle track.
func (m *MediaMetadata) HasSubtitles() bool {
	return len(m.Subtitles) > 0
}

// SubtitlesCount returns the number of subtitle tracks.
func (m *MediaMetadata) SubtitlesCount() int {
	return len(m.Subtitles)
}

// BitrateBreakdown splits the total bitrate into video, audio and container
// overhead (all kbps). Overhead is never negative.
func (m *MediaMetadata) BitrateBreakdown() (video, audio, overhead int) {
	overhead = m.TotalBitrate - m.Video.Bitrate - m.Audio.Bitrate
	if overhead < 0 {
		overhead = 0
	}
	return m.Video.Bitrate, m.Audio.Bitrate, overhead
}

// Validate checks the structural invariants of the record.
//
// Returns an error listing every violation found:
//   - filename must not be blank
//   - size must not be negative
//   - video + audio bitrate must not exceed the total bitrate
func (m *MediaMetadata) Validate() error {
	var problems []string

	if strings.TrimSpace(m.Filename) == "" {
		problems = append(problems, "filename cannot be empty")
	}
	if m.Size < 0 {
		problems = append(problems, "size cannot be negative")
	}
	if m.Duration < 0 {
		problems = append(problems, "duration cannot be negative")
	}
	if m.Video.Bitrate < 0 || m.Audio.Bitrate < 0 {
		problems = append(problems, "stream bitrates cannot be negative")
	}
	if m.Video.Bitrate+m.Audio.Bitrate > m.TotalBitrate {
		problems = append(problems, fmt.Sprintf("stream bitrates (%d + %d kbps) exceed total bitrate %d kbps",
			m.Video.Bitrate, m.Audio.Bitrate, m.TotalBitrate))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid metadata: %s", strings.Join(problems, ", "))
	}
	return nil
}
