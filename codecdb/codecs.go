// Package codecdb is the static codec knowledge base: video, audio and
// subtitle codec properties, the named optimization profiles, and the
// recommendation policy built on top of them.
//
// All tables are read-only package state. Lookups return copies so callers
// can never mutate the shared data.
package codecdb

import "strings"

// Well-known codec identifiers.
const (
	VideoH264  = "h264"
	VideoH265  = "h265"
	VideoVP9   = "vp9"
	VideoAV1   = "av1"
	VideoMPEG2 = "mpeg2"
	VideoMPEG4 = "mpeg4"
	VideoXvid  = "xvid"

	AudioAAC    = "aac"
	AudioAC3    = "ac3"
	AudioEAC3   = "eac3"
	AudioDTS    = "dts"
	AudioFLAC   = "flac"
	AudioOpus   = "opus"
	AudioMP3    = "mp3"
	AudioVorbis = "vorbis"

	SubtitleSRT    = "srt"
	SubtitleASS    = "ass"
	SubtitlePGS    = "pgs"
	SubtitleVobSub = "vobsub"
)

// EfficientVideoCodec is the modern codec targeted for large frames.
const EfficientVideoCodec = VideoH265

// Resolution classes, smallest first.
const (
	Res480p  = "480p"
	Res720p  = "720p"
	Res1080p = "1080p"
	Res1440p = "1440p"
	Res4K    = "4k"
)

// Channel layouts used as keys of the audio bitrate tables.
const (
	LayoutMono   = "mono"
	LayoutStereo = "stereo"
	Layout51     = "5.1"
	Layout71     = "7.1"
)

// VideoCodec describes a video codec known to the knowledge base.
type VideoCodec struct {
	ID                 string
	Name               string
	Efficiency         float64 // relative to H.264 = 1.0
	Quality            string
	Compatibility      string
	GPUSupport         bool
	PlaybackCompatible bool
	AvgBitrate         map[string]int // kbps per resolution class
}

// AudioCodec describes an audio codec known to the knowledge base.
type AudioCodec struct {
	ID                 string
	Name               string
	Efficiency         float64
	Quality            string
	PlaybackCompatible bool
	Lossless           bool
	RecommendedBitrate map[string]int // kbps per channel layout; nil when not applicable
}

// SubtitleKind separates text tracks from bitmap tracks.
type SubtitleKind string

const (
	SubtitleText  SubtitleKind = "text"
	SubtitleImage SubtitleKind = "image"
)

// SubtitleFormat describes a subtitle track format.
type SubtitleFormat struct {
	ID                 string
	Name               string
	Kind               SubtitleKind
	PlaybackCompatible bool
	Footprint          string
}

var videoCodecs = map[string]VideoCodec{
	VideoH264: {
		ID: VideoH264, Name: "H.264 (AVC)", Efficiency: 1.0, Quality: "good",
		Compatibility: "universal", GPUSupport: true, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 1500, Res720p: 3000, Res1080p: 5000, Res1440p: 9000, Res4K: 18000},
	},
	VideoH265: {
		ID: VideoH265, Name: "H.265 (HEVC)", Efficiency: 1.8, Quality: "excellent",
		Compatibility: "modern", GPUSupport: true, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 800, Res720p: 1800, Res1080p: 3000, Res1440p: 5500, Res4K: 10000},
	},
	VideoVP9: {
		ID: VideoVP9, Name: "VP9", Efficiency: 1.7, Quality: "excellent",
		Compatibility: "web", GPUSupport: false, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 900, Res720p: 2000, Res1080p: 3500, Res1440p: 6000, Res4K: 11000},
	},
	VideoAV1: {
		ID: VideoAV1, Name: "AV1", Efficiency: 2.2, Quality: "optimal",
		Compatibility: "very recent", GPUSupport: false, PlaybackCompatible: false,
		AvgBitrate: map[string]int{Res480p: 700, Res720p: 1500, Res1080p: 2500, Res1440p: 4500, Res4K: 8000},
	},
	VideoMPEG2: {
		ID: VideoMPEG2, Name: "MPEG-2", Efficiency: 0.5, Quality: "average",
		Compatibility: "legacy", GPUSupport: false, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 3000, Res720p: 6000, Res1080p: 10000, Res1440p: 18000, Res4K: 35000},
	},
	VideoMPEG4: {
		ID: VideoMPEG4, Name: "MPEG-4", Efficiency: 0.8, Quality: "fair",
		Compatibility: "standard", GPUSupport: false, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 2000, Res720p: 4000, Res1080p: 7000, Res1440p: 12000, Res4K: 25000},
	},
	VideoXvid: {
		ID: VideoXvid, Name: "Xvid", Efficiency: 0.8, Quality: "fair",
		Compatibility: "legacy", GPUSupport: false, PlaybackCompatible: true,
		AvgBitrate: map[string]int{Res480p: 2000, Res720p: 4000, Res1080p: 7000, Res1440p: 12000, Res4K: 25000},
	},
}

var audioCodecs = map[string]AudioCodec{
	AudioAAC: {
		ID: AudioAAC, Name: "AAC", Efficiency: 1.0, Quality: "good", PlaybackCompatible: true,
		RecommendedBitrate: map[string]int{LayoutStereo: 128, Layout51: 384, Layout71: 512},
	},
	AudioAC3: {
		ID: AudioAC3, Name: "AC-3 (Dolby Digital)", Efficiency: 0.8, Quality: "good", PlaybackCompatible: true,
		RecommendedBitrate: map[string]int{LayoutStereo: 192, Layout51: 448, Layout71: 640},
	},
	AudioEAC3: {
		ID: AudioEAC3, Name: "E-AC-3 (Dolby Digital Plus)", Efficiency: 1.2, Quality: "excellent", PlaybackCompatible: true,
		RecommendedBitrate: map[string]int{LayoutStereo: 128, Layout51: 384, Layout71: 512},
	},
	AudioDTS: {
		ID: AudioDTS, Name: "DTS", Efficiency: 0.7, Quality: "excellent", PlaybackCompatible: true,
		RecommendedBitrate: map[string]int{LayoutStereo: 768, Layout51: 1536, Layout71: 2048},
	},
	AudioFLAC: {
		ID: AudioFLAC, Name: "FLAC (Lossless)", Efficiency: 0.5, Quality: "perfect", PlaybackCompatible: true,
		Lossless: true,
	},
	AudioOpus: {
		ID: AudioOpus, Name: "Opus", Efficiency: 1.5, Quality: "excellent", PlaybackCompatible: false,
		RecommendedBitrate: map[string]int{LayoutStereo: 96, Layout51: 256, Layout71: 384},
	},
	AudioMP3: {
		ID: AudioMP3, Name: "MP3", Efficiency: 0.7, Quality: "average", PlaybackCompatible: true,
		RecommendedBitrate: map[string]int{LayoutStereo: 192},
	},
	AudioVorbis: {
		ID: AudioVorbis, Name: "Vorbis", Efficiency: 1.3, Quality: "good", PlaybackCompatible: false,
		RecommendedBitrate: map[string]int{LayoutStereo: 128, Layout51: 320, Layout71: 448},
	},
}

var subtitleFormats = map[string]SubtitleFormat{
	SubtitleSRT:    {ID: SubtitleSRT, Name: "SubRip (SRT)", Kind: SubtitleText, PlaybackCompatible: true, Footprint: "minimal"},
	SubtitleASS:    {ID: SubtitleASS, Name: "Advanced SubStation Alpha", Kind: SubtitleText, PlaybackCompatible: true, Footprint: "minimal"},
	SubtitlePGS:    {ID: SubtitlePGS, Name: "PGS (Blu-ray)", Kind: SubtitleImage, PlaybackCompatible: true, Footprint: "large"},
	SubtitleVobSub: {ID: SubtitleVobSub, Name: "VobSub (DVD)", Kind: SubtitleImage, PlaybackCompatible: true, Footprint: "medium"},
}

// LookupVideo returns the video codec entry for id.
func LookupVideo(id string) (VideoCodec, bool) {
	c, ok := videoCodecs[id]
	if !ok {
		return VideoCodec{}, false
	}
	c.AvgBitrate = copyIntMap(c.AvgBitrate)
	return c, true
}

// LookupAudio returns the audio codec entry for id.
func LookupAudio(id string) (AudioCodec, bool) {
	c, ok := audioCodecs[id]
	if !ok {
		return AudioCodec{}, false
	}
	c.RecommendedBitrate = copyIntMap(c.RecommendedBitrate)
	return c, true
}

// LookupSubtitle returns the subtitle format entry for id.
func LookupSubtitle(id string) (SubtitleFormat, bool) {
	f, ok := subtitleFormats[id]
	return f, ok
}

// VideoName returns the display name of a video codec, or the upper-cased
// raw identifier when the codec is unknown.
func VideoName(id string) string {
	if c, ok := videoCodecs[id]; ok {
		return c.Name
	}
	return strings.ToUpper(id)
}

// AudioName returns the display name of an audio codec, or the upper-cased
// raw identifier when the codec is unknown.
func AudioName(id string) string {
	if c, ok := audioCodecs[id]; ok {
		return c.Name
	}
	return strings.ToUpper(id)
}

// IsUniversalSubtitle reports whether a subtitle format name denotes the
// universal text format (SubRip).
func IsUniversalSubtitle(format string) bool {
	f := strings.ToLower(format)
	return strings.Contains(f, "srt") || strings.Contains(f, "subrip")
}

func copyIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
