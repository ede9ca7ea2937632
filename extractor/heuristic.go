package extractor

import (
	"math"
	"strings"

	"mediaopt/codecdb"
	"mediaopt/internal/pathutil"
	"mediaopt/models"
)

// Provenance labels for MediaMetadata.Source.
const (
	SourcePrecise   = "ffprobe"
	SourceHeader    = "header probe (estimated codecs)"
	SourceSizeGuess = "size heuristics"
)

const (
	videoShare       = 0.80
	audioShare       = 0.15
	surroundKbps     = 10000
	highFramerate    = 30.0
	defaultTypicalKb = 5000
)

type codecPair struct {
	video string
	audio string
}

var codecsByExtension = map[string]codecPair{
	"mp4":  {codecdb.VideoH264, codecdb.AudioAAC},
	"m4v":  {codecdb.VideoH264, codecdb.AudioAAC},
	"mov":  {codecdb.VideoH264, codecdb.AudioAAC},
	"mkv":  {codecdb.VideoH265, codecdb.AudioAC3},
	"webm": {codecdb.VideoVP9, codecdb.AudioOpus},
	"avi":  {codecdb.VideoMPEG4, codecdb.AudioMP3},
	"mpg":  {codecdb.VideoMPEG2, codecdb.AudioMP3},
	"mpeg": {codecdb.VideoMPEG2, codecdb.AudioMP3},
}

// typicalBitrates (kbps) per container, used to guess a duration when the
// header carries none.
var typicalBitrates = map[string]int{
	"mp4":  5000,
	"mkv":  8000,
	"avi":  3000,
	"webm": 2000,
	"mov":  6000,
}

// GuessVideoCodec derives a video codec from MIME substrings, then the extension.
func GuessVideoCodec(name, mimeType string) string {
	mime := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mime, "hevc"), strings.Contains(mime, "h265"):
		return codecdb.VideoH265
	case strings.Contains(mime, "avc"), strings.Contains(mime, "h264"):
		return codecdb.VideoH264
	case strings.Contains(mime, "av01"), strings.Contains(mime, "av1"):
		return codecdb.VideoAV1
	case strings.Contains(mime, "vp9"):
		return codecdb.VideoVP9
	}
	if pair, ok := codecsByExtension[pathutil.Extension(name)]; ok {
		return pair.video
	}
	return codecdb.VideoH264
}

// GuessAudioCodec derives an audio codec from MIME substrings, then the extension.
func GuessAudioCodec(name, mimeType string) string {
	mime := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mime, "opus"):
		return codecdb.AudioOpus
	case strings.Contains(mime, "vorbis"):
		return codecdb.AudioVorbis
	case strings.Contains(mime, "mp4a"):
		return codecdb.AudioAAC
	}
	if pair, ok := codecsByExtension[pathutil.Extension(name)]; ok {
		return pair.audio
	}
	return codecdb.AudioAAC
}

// estimateDuration buckets the duration implied by a typical container
// bitrate into common programme lengths.
func estimateDuration(size int64, ext string) float64 {
	kbps, ok := typicalBitrates[ext]
	if !ok {
		kbps = defaultTypicalKb
	}
	seconds := float64(size) * 8 / float64(kbps*1000)
	switch {
	case seconds < 300:
		return 180
	case seconds < 1800:
		return 1320
	case seconds < 3600:
		return 2700
	case seconds < 7200:
		return 5400
	default:
		return 7200
	}
}

func estimateFramerate(width int, ext string) float64 {
	if width >= 3840 || ext == "webm" {
		return highFramerate
	}
	return defaultFramerate
}

func estimateChannels(ext string, totalKbps int) string {
	if (ext == "mkv" || ext == "mov") && totalKbps > surroundKbps {
		return codecdb.Layout51
	}
	return codecdb.LayoutStereo
}

// metadataFromHeader builds a best-effort record from container header
// fields. Missing dimensions and duration are estimated from the file size.
func metadataFromHeader(in Input, hdr Header) *models.MediaMetadata {
	ext := pathutil.Extension(in.Name())
	size := in.Size()

	source := SourceHeader
	duration := hdr.Duration
	if duration <= 0 {
		duration = estimateDuration(size, ext)
		source = SourceSizeGuess
	}
	total := codecdb.EstimateBitrate(size, duration)

	width, height := hdr.Width, hdr.Height
	var resolution string
	if width > 0 && height > 0 {
		resolution = codecdb.ResolutionClass(width, height)
	} else {
		resolution = codecdb.EstimateResolutionClass(size, duration)
		width, height = codecdb.Dimensions(resolution)
	}

	videoKbps := int(math.Round(float64(total) * videoShare))
	audioKbps := int(math.Round(float64(total) * audioShare))
	if videoKbps+audioKbps > total {
		audioKbps = total - videoKbps
	}

	vCodec := matchCodec(hdr.VideoFormat, videoTokens, GuessVideoCodec(in.Name(), in.MIMEType()))
	aCodec := matchCodec(hdr.AudioFormat, audioTokens, GuessAudioCodec(in.Name(), in.MIMEType()))

	container := strings.ToUpper(ext)
	if hdr.Container != "" {
		container = hdr.Container
	}

	return &models.MediaMetadata{
		Filename:        in.Name(),
		Extension:       ext,
		Size:            size,
		MIMEType:        in.MIMEType(),
		LastModified:    in.ModTime(),
		ContainerFormat: container,
		Duration:        duration,
		Subtitles:       []models.SubtitleTrack{},
		Video: models.VideoInfo{
			Codec:      vCodec,
			CodecName:  codecdb.VideoName(vCodec),
			Resolution: resolution,
			Width:      width,
			Height:     height,
			Bitrate:    videoKbps,
			Framerate:  estimateFramerate(width, ext),
		},
		Audio: models.AudioInfo{
			Codec:      aCodec,
			CodecName:  codecdb.AudioName(aCodec),
			Channels:   estimateChannels(ext, total),
			Bitrate:    audioKbps,
			SampleRate: defaultSampleRate,
		},
		TotalBitrate:   total,
		IsRealAnalysis: source == SourceHeader,
		Source:         source,
	}
}
