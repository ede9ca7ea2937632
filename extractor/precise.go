package extractor

import (
	"math"
	"strings"

	"mediaopt/codecdb"
	"mediaopt/internal/pathutil"
	"mediaopt/models"
)

// codecToken maps format-name substrings to a codec id. Lists are scanned
// in order and the first match wins.
type codecToken struct {
	id     string
	tokens []string
}

var videoTokens = []codecToken{
	{codecdb.VideoH265, []string{"hevc", "h.265", "h265"}},
	{codecdb.VideoH264, []string{"avc", "h.264", "h264"}},
	{codecdb.VideoAV1, []string{"av1", "av01"}},
	{codecdb.VideoVP9, []string{"vp9"}},
	{codecdb.VideoMPEG2, []string{"mpeg-2", "mpeg2", "mpeg video"}},
	{codecdb.VideoMPEG4, []string{"mpeg-4", "mpeg4"}},
	{codecdb.VideoXvid, []string{"xvid"}},
}

// E-AC-3 names contain "ac-3", so eac3 is matched first.
var audioTokens = []codecToken{
	{codecdb.AudioAAC, []string{"aac"}},
	{codecdb.AudioEAC3, []string{"eac3", "e-ac-3"}},
	{codecdb.AudioAC3, []string{"ac-3", "ac3"}},
	{codecdb.AudioDTS, []string{"dts"}},
	{codecdb.AudioFLAC, []string{"flac"}},
	{codecdb.AudioOpus, []string{"opus"}},
	{codecdb.AudioMP3, []string{"mp3", "mpeg audio"}},
	{codecdb.AudioVorbis, []string{"vorbis"}},
}

const (
	defaultFramerate  = 23.976
	defaultSampleRate = 48000
	defaultChannels   = 2
	unknownLabel      = "Unknown"
)

func matchCodec(format string, table []codecToken, fallback string) string {
	f := strings.ToLower(format)
	for _, entry := range table {
		for _, tok := range entry.tokens {
			if strings.Contains(f, tok) {
				return entry.id
			}
		}
	}
	return fallback
}

// VideoCodecFromFormat maps a video format name to a codec id, h264 if unknown.
func VideoCodecFromFormat(format string) string {
	return matchCodec(format, videoTokens, codecdb.VideoH264)
}

// AudioCodecFromFormat maps an audio format name to a codec id, aac if unknown.
func AudioCodecFromFormat(format string) string {
	return matchCodec(format, audioTokens, codecdb.AudioAAC)
}

// metadataFromReport normalizes a capability report.
func metadataFromReport(in Input, report *TrackReport) *models.MediaMetadata {
	general, _ := report.First(TrackGeneral)
	video, _ := report.First(TrackVideo)
	audio, _ := report.First(TrackAudio)
	ext := pathutil.Extension(in.Name())

	vCodec := VideoCodecFromFormat(video.Format)
	aCodec := AudioCodecFromFormat(audio.Format)

	width, height := video.Width, video.Height
	if width <= 0 || height <= 0 {
		width, height = codecdb.Dimensions(codecdb.Res1080p)
	}

	framerate := video.FrameRate
	if framerate <= 0 {
		framerate = defaultFramerate
	}

	channels := audio.Channels
	if channels <= 0 {
		channels = defaultChannels
	}
	sampleRate := audio.SamplingRate
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}

	videoKbps := int(math.Round(float64(video.BitRate) / 1000))
	audioKbps := int(math.Round(float64(audio.BitRate) / 1000))
	total := videoKbps + audioKbps
	if containerKbps := int(math.Round(float64(general.BitRate) / 1000)); containerKbps > total {
		total = containerKbps
	}

	duration := general.Duration
	if duration <= 0 {
		duration = video.Duration
	}

	texts := report.All(TrackText)
	subtitles := make([]models.SubtitleTrack, 0, len(texts))
	for _, t := range texts {
		sub := models.SubtitleTrack{Language: t.Language, Format: t.Format, Title: t.Title}
		if sub.Language == "" {
			sub.Language = unknownLabel
		}
		if sub.Format == "" {
			sub.Format = unknownLabel
		}
		subtitles = append(subtitles, sub)
	}

	return &models.MediaMetadata{
		Filename:        in.Name(),
		Extension:       ext,
		Size:            in.Size(),
		MIMEType:        in.MIMEType(),
		LastModified:    in.ModTime(),
		ContainerFormat: containerName(general.Format, ext),
		Duration:        duration,
		Subtitles:       subtitles,
		Video: models.VideoInfo{
			Codec:      vCodec,
			CodecName:  codecdb.VideoName(vCodec),
			Resolution: codecdb.ResolutionClass(width, height),
			Width:      width,
			Height:     height,
			Bitrate:    videoKbps,
			Framerate:  math.Round(framerate*1000) / 1000,
		},
		Audio: models.AudioInfo{
			Codec:      aCodec,
			CodecName:  codecdb.AudioName(aCodec),
			Channels:   codecdb.ChannelLayout(channels),
			Bitrate:    audioKbps,
			SampleRate: sampleRate,
		},
		TotalBitrate:   total,
		IsRealAnalysis: true,
		Source:         SourcePrecise,
	}
}

// containerName picks a display name from a demuxer list such as
// "mov,mp4,m4a": the file's own extension when listed, else the first name.
func containerName(formats, ext string) string {
	if formats == "" {
		return strings.ToUpper(ext)
	}
	names := strings.Split(strings.ToLower(formats), ",")
	for _, n := range names {
		if n == ext {
			return strings.ToUpper(n)
		}
	}
	return strings.ToUpper(names[0])
}
