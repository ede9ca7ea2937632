package extractor

import (
	"context"
	"fmt"

	"mediaopt/ffprobe"
)

// TrackType classifies a track in a TrackReport.
type TrackType string

const (
	TrackGeneral TrackType = "General"
	TrackVideo   TrackType = "Video"
	TrackAudio   TrackType = "Audio"
	TrackText    TrackType = "Text"
)

// Track is one entry of a capability's track list. Zero values mean
// "not reported".
type Track struct {
	Type         TrackType
	Format       string
	Width        int
	Height       int
	FrameRate    float64
	BitRate      int // bits per second
	Channels     int
	SamplingRate int
	Language     string
	Title        string
	Duration     float64 // seconds
}

// TrackReport is the structured output of a precise analysis.
type TrackReport struct {
	Tracks []Track
}

// First returns the first track of the given type.
func (r *TrackReport) First(t TrackType) (Track, bool) {
	for _, tr := range r.Tracks {
		if tr.Type == t {
			return tr, true
		}
	}
	return Track{}, false
}

// All returns every track of the given type, in report order.
func (r *TrackReport) All(t TrackType) []Track {
	var out []Track
	for _, tr := range r.Tracks {
		if tr.Type == t {
			out = append(out, tr)
		}
	}
	return out
}

// Capability is an exact media analyzer.
type Capability interface {
	AnalyzeData(ctx context.Context, src Source) (*TrackReport, error)
}

// FFprobeCapability implements Capability with the ffprobe binary.
type FFprobeCapability struct {
	prober *ffprobe.Prober
}

// NewFFprobeCapability returns a capability running the given binary.
func NewFFprobeCapability(binary string) *FFprobeCapability {
	return &FFprobeCapability{prober: ffprobe.New(binary)}
}

// AnalyzeData runs ffprobe over src and converts its streams to tracks.
func (c *FFprobeCapability) AnalyzeData(ctx context.Context, src Source) (*TrackReport, error) {
	result, err := c.prober.ProbeInput(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("ffprobe analysis of %s: %w", src.Name(), err)
	}
	return reportFromProbe(result), nil
}

func reportFromProbe(pr *ffprobe.ProbeResult) *TrackReport {
	report := &TrackReport{}

	general := Track{
		Type:    TrackGeneral,
		Format:  pr.Format.FormatName,
		BitRate: pr.Format.BitRateKbps() * 1000,
	}
	if d, err := pr.GetDuration(); err == nil {
		general.Duration = d
	}
	report.Tracks = append(report.Tracks, general)

	for _, s := range pr.Streams {
		tr := Track{
			Format:   s.FormatString(),
			BitRate:  s.BitRateKbps() * 1000,
			Language: s.Tags.Language,
			Title:    s.Tags.Title,
		}
		switch s.CodecType {
		case "video":
			tr.Type = TrackVideo
			tr.Width = s.Width
			tr.Height = s.Height
			tr.FrameRate = s.FrameRate()
		case "audio":
			tr.Type = TrackAudio
			tr.Channels = s.Channels
			tr.SamplingRate = s.SampleRateHz()
		case "subtitle":
			tr.Type = TrackText
			tr.Format = s.CodecName
		default:
			continue
		}
		report.Tracks = append(report.Tracks, tr)
	}
	return report
}
