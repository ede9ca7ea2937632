package codecdb

import "math"

// defaultDuration is assumed when a file's duration is unknown.
const defaultDuration = 3600.0

// RecommendVideoCodec returns the target video codec for a source.
//
// A source already in the efficient codec is kept under the default usage
// profile. Frames of 1440p and above always target the efficient codec.
// Everything else follows the profile.
func RecommendVideoCodec(current, resolution, profileID string) string {
	if current == EfficientVideoCodec && profileID == DefaultProfileID {
		return current
	}
	if resolution == Res4K || resolution == Res1440p {
		return EfficientVideoCodec
	}
	return GetProfile(profileID).VideoCodec
}

// RecommendAudioCodec returns the target audio codec for a source.
//
// Lossless sources convert to the profile target, DTS always converts to
// AC-3, and any other codec the playback ecosystem handles is kept.
func RecommendAudioCodec(current, channels, profileID string) string {
	p := GetProfile(profileID)
	if c, ok := audioCodecs[current]; ok && c.Lossless {
		return p.AudioCodec
	}
	if current == AudioDTS {
		return AudioAC3
	}
	if c, ok := audioCodecs[current]; ok && c.PlaybackCompatible {
		return current
	}
	return p.AudioCodec
}

// averageKbps is the average bitrate of a file in kbps.
func averageKbps(sizeBytes int64, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		durationSeconds = defaultDuration
	}
	return float64(sizeBytes) * 8 / durationSeconds / 1000
}

// EstimateResolutionClass guesses a resolution class from the average
// bitrate of a file.
func EstimateResolutionClass(sizeBytes int64, durationSeconds float64) string {
	kbps := averageKbps(sizeBytes, durationSeconds)
	switch {
	case kbps > 15000:
		return Res4K
	case kbps > 8000:
		return Res1440p
	case kbps > 4000:
		return Res1080p
	case kbps > 2000:
		return Res720p
	default:
		return Res480p
	}
}

// EstimateBitrate returns the average bitrate of a file in whole kbps.
func EstimateBitrate(sizeBytes int64, durationSeconds float64) int {
	return int(math.Round(averageKbps(sizeBytes, durationSeconds)))
}

// ResolutionClass buckets pixel dimensions into a resolution class.
func ResolutionClass(width, height int) string {
	switch {
	case width >= 3840 && height >= 2160:
		return Res4K
	case width >= 2560 && height >= 1440:
		return Res1440p
	case width >= 1920 && height >= 1080:
		return Res1080p
	case width >= 1280 && height >= 720:
		return Res720p
	default:
		return Res480p
	}
}

// Dimensions returns the nominal frame size of a resolution class. Unknown
// classes map to 1080p.
func Dimensions(class string) (width, height int) {
	switch class {
	case Res4K:
		return 3840, 2160
	case Res1440p:
		return 2560, 1440
	case Res720p:
		return 1280, 720
	case Res480p:
		return 854, 480
	default:
		return 1920, 1080
	}
}

// ChannelLayout maps a channel count onto a layout name.
func ChannelLayout(channels int) string {
	switch {
	case channels >= 8:
		return Layout71
	case channels >= 6:
		return Layout51
	case channels == 1:
		return LayoutMono
	default:
		return LayoutStereo
	}
}
