// Package optimizer turns a metadata record and a target profile into
// re-encoding recommendations, an encode command and a size estimate.
//
// An Engine is bound to one record and one profile. Every method is a pure
// function of those two inputs, so an Engine can be shared freely and is
// rebuilt, not mutated, when the profile changes.
package optimizer

import (
	"math"

	"github.com/rs/zerolog"

	"mediaopt/codecdb"
	"mediaopt/command/audio"
	"mediaopt/internal/pathutil"
	"mediaopt/models"
)

// fallbackAudioBitrate is used when a codec has no recommendation for the
// source channel layout.
const fallbackAudioBitrate = 128

// Engine computes recommendations for one file under one profile.
type Engine struct {
	meta     *models.MediaMetadata
	selector codecdb.Selector
	profile  codecdb.Profile

	tool      string
	inputPath string
	suffix    string
	logger    zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTool sets the encoder executable written into commands.
func WithTool(tool string) Option {
	return func(e *Engine) { e.tool = tool }
}

// WithInputPath overrides the input path written into commands. By default
// the metadata filename is used.
func WithInputPath(path string) Option {
	return func(e *Engine) { e.inputPath = path }
}

// WithSuffix overrides the suffix appended to output base names.
func WithSuffix(suffix string) Option {
	return func(e *Engine) { e.suffix = suffix }
}

// WithLogger sets the logger used for skipped recommendations.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New binds an engine to meta and the profile named by sel. Unknown
// profiles resolve to the default profile.
func New(meta *models.MediaMetadata, sel codecdb.Selector, opts ...Option) *Engine {
	e := &Engine{
		meta:     meta,
		selector: sel,
		profile:  codecdb.ResolveProfile(sel),
		suffix:   pathutil.DefaultSuffix,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.inputPath == "" {
		e.inputPath = meta.Filename
	}
	return e
}

// Metadata returns the record the engine is bound to.
func (e *Engine) Metadata() *models.MediaMetadata { return e.meta }

// Selector returns the profile selector the engine was built with.
func (e *Engine) Selector() codecdb.Selector { return e.selector }

// Profile returns the resolved profile.
func (e *Engine) Profile() codecdb.Profile { return e.profile }

// TargetVideoCodec returns the recommended video codec id.
func (e *Engine) TargetVideoCodec() string {
	return codecdb.RecommendVideoCodec(e.meta.Video.Codec, e.meta.Video.Resolution, e.profile.ID)
}

// TargetAudioCodec returns the recommended audio codec id.
func (e *Engine) TargetAudioCodec() string {
	return codecdb.RecommendAudioCodec(e.meta.Audio.Codec, e.meta.Audio.Channels, e.profile.ID)
}

// TargetAudioBitrate returns the bitrate (kbps) the target audio codec is
// encoded at, or 0 when the codec takes no bitrate (lossless or unknown).
//
// AC-3 and E-AC-3 always use their fixed rates. Other codecs use the
// profile bitrate when set, then the codec's recommendation for the source
// channel layout, then 128 kbps.
func (e *Engine) TargetAudioBitrate() int {
	target := e.TargetAudioCodec()
	if fixed, ok := audio.FixedBitrate(target); ok {
		return fixed
	}

	info, ok := codecdb.LookupAudio(target)
	if !ok || info.RecommendedBitrate == nil {
		return 0
	}
	if e.profile.AudioBitrate > 0 {
		return e.profile.AudioBitrate
	}
	if kbps, ok := info.RecommendedBitrate[e.meta.Audio.Channels]; ok {
		return kbps
	}
	return fallbackAudioBitrate
}

// Container returns the output container: the profile's, else matroska for
// H.265 profiles and mp4 for everything else.
func (e *Engine) Container() string {
	if e.profile.Container != "" {
		return e.profile.Container
	}
	if e.profile.VideoCodec == codecdb.VideoH265 {
		return "mkv"
	}
	return "mp4"
}

// InputPath returns the input path written into commands.
func (e *Engine) InputPath() string { return e.inputPath }

// OutputPath returns the output path written into commands.
func (e *Engine) OutputPath() string {
	return pathutil.OutputName(e.inputPath, e.suffix, e.Container())
}

// EstimateOutputSize projects the output size from the profile's target
// efficiency. The recommendation content is not considered.
func (e *Engine) EstimateOutputSize() models.SizeEstimate {
	original := e.meta.Size
	optimized := int64(math.Round(float64(original) * e.profile.TargetEfficiency))
	return models.SizeEstimate{
		Original:   original,
		Optimized:  optimized,
		Saved:      original - optimized,
		Percentage: int(math.Round((1 - e.profile.TargetEfficiency) * 100)),
	}
}

// CheckPlaybackCompatibility reports whether both target codecs are marked
// playback compatible.
func (e *Engine) CheckPlaybackCompatibility() bool {
	v, ok := codecdb.LookupVideo(e.TargetVideoCodec())
	if !ok || !v.PlaybackCompatible {
		return false
	}
	a, ok := codecdb.LookupAudio(e.TargetAudioCodec())
	return ok && a.PlaybackCompatible
}

// CheckHardwareAcceleration reports whether the target video codec can be
// GPU encoded.
func (e *Engine) CheckHardwareAcceleration() bool {
	v, ok := codecdb.LookupVideo(e.TargetVideoCodec())
	return ok && v.GPUSupport
}

// CRFDescription describes a quality factor. Upper bounds are inclusive.
func CRFDescription(crf int) string {
	switch {
	case crf <= 18:
		return "near-transparent"
	case crf <= 23:
		return "excellent (recommended)"
	case crf <= 28:
		return "good"
	default:
		return "acceptable"
	}
}
