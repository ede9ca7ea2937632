package subtitle

import (
	"mediaopt/command"
)

// SubtitleFormat represents supported subtitle output formats.
type SubtitleFormat string

const (
	FormatSRT SubtitleFormat = "srt"      // SubRip
	FormatASS SubtitleFormat = "ass"      // Advanced SubStation Alpha
	FormatSSA SubtitleFormat = "ssa"      // SubStation Alpha
	FormatVTT SubtitleFormat = "webvtt"   // WebVTT
	FormatMOV SubtitleFormat = "mov_text" // MP4 compatible
)

// SubtitleBuilder builds the subtitle stream arguments of an encode
// command. By default every track is copied unchanged.
type SubtitleBuilder struct {
	format SubtitleFormat // empty = copy
}

// NewSubtitleBuilder creates a builder that copies subtitle tracks.
func NewSubtitleBuilder() *SubtitleBuilder {
	return &SubtitleBuilder{}
}

// Copy keeps every subtitle track as is.
func (s *SubtitleBuilder) Copy() *SubtitleBuilder {
	s.format = ""
	return s
}

// ConvertFormat converts every subtitle track to format.
func (s *SubtitleBuilder) ConvertFormat(format SubtitleFormat) *SubtitleBuilder {
	s.format = format
	return s
}

// IsCopy reports whether tracks are copied rather than converted.
func (s *SubtitleBuilder) IsCopy() bool {
	return s.format == ""
}

// GetTaskType implements command.ArgBuilder.
func (s *SubtitleBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeSubtitle
}

// BuildArgs constructs the subtitle arguments.
func (s *SubtitleBuilder) BuildArgs() []string {
	codec := "copy"
	if s.format != "" {
		codec = string(s.format)
	}
	return []string{"-c:s", codec}
}
