package codecdb

import (
	"fmt"
	"strings"
)

// Category groups profiles by intent.
type Category string

const (
	CategoryDevice Category = "device" // Tuned for a playback target
	CategoryUsage  Category = "usage"  // Tuned for a size/quality trade-off
)

// DefaultProfileID is returned whenever a requested profile is unknown.
const DefaultProfileID = "balanced"

// Profile is a named bundle of target codec, quality and container settings.
type Profile struct {
	ID               string
	Name             string
	Icon             string
	Description      string
	Category         Category
	VideoCodec       string
	VideoCRF         int
	VideoPreset      string
	Tune             string // optional encoder tuning
	AudioCodec       string
	AudioBitrate     int // kbps, 0 = use the codec's recommendation
	Container        string
	MaxBitrate       int     // kbps, 0 = no ceiling
	TargetEfficiency float64 // expected fraction of the original size
}

// Selector names a profile. IsProfile marks ids from the full device/usage
// table; otherwise the id is resolved against the legacy preset view.
type Selector struct {
	ID        string
	IsProfile bool
}

// profileOrder is the display order of profiles: devices first, then usages.
var profileOrder = []string{
	"plex-4k", "plex-1080p", "mobile", "nas", "youtube", "appletv",
	"balanced", "quality", "compression", "anime",
}

// legacyPresetIDs are the usage profiles historically exposed as presets.
var legacyPresetIDs = []string{"balanced", "quality", "compression", "anime"}

var profiles = map[string]Profile{
	"plex-4k": {
		ID: "plex-4k", Name: "Plex 4K HDR", Icon: "fa-server", Description: "4K direct play",
		Category: CategoryDevice, VideoCodec: VideoH265, VideoCRF: 20, VideoPreset: "slow",
		AudioCodec: AudioEAC3, AudioBitrate: 640, Container: "mkv", MaxBitrate: 15000, TargetEfficiency: 0.65,
	},
	"plex-1080p": {
		ID: "plex-1080p", Name: "Plex 1080p", Icon: "fa-tv", Description: "Balanced for Plex",
		Category: CategoryDevice, VideoCodec: VideoH265, VideoCRF: 22, VideoPreset: "medium",
		AudioCodec: AudioAC3, AudioBitrate: 448, Container: "mkv", MaxBitrate: 8000, TargetEfficiency: 0.5,
	},
	"mobile": {
		ID: "mobile", Name: "Mobile", Icon: "fa-mobile-screen", Description: "Mobile streaming",
		Category: CategoryDevice, VideoCodec: VideoH264, VideoCRF: 24, VideoPreset: "fast",
		AudioCodec: AudioAAC, AudioBitrate: 128, Container: "mp4", MaxBitrate: 3000, TargetEfficiency: 0.3,
	},
	"nas": {
		ID: "nas", Name: "NAS", Icon: "fa-hard-drive", Description: "Compact storage",
		Category: CategoryDevice, VideoCodec: VideoH265, VideoCRF: 26, VideoPreset: "slow",
		AudioCodec: AudioAAC, AudioBitrate: 128, Container: "mkv", MaxBitrate: 5000, TargetEfficiency: 0.35,
	},
	"youtube": {
		ID: "youtube", Name: "YouTube", Icon: "fa-youtube", Description: "Upload ready",
		Category: CategoryDevice, VideoCodec: VideoH264, VideoCRF: 21, VideoPreset: "slow",
		AudioCodec: AudioAAC, AudioBitrate: 192, Container: "mp4", MaxBitrate: 10000, TargetEfficiency: 0.6,
	},
	"appletv": {
		ID: "appletv", Name: "Apple TV", Icon: "fa-apple", Description: "Apple devices",
		Category: CategoryDevice, VideoCodec: VideoH264, VideoCRF: 20, VideoPreset: "medium",
		AudioCodec: AudioAAC, AudioBitrate: 256, Container: "mp4", MaxBitrate: 12000, TargetEfficiency: 0.6,
	},
	"balanced": {
		ID: "balanced", Name: "Balanced", Icon: "fa-balance-scale", Description: "Quality/size balance",
		Category: CategoryUsage, VideoCodec: VideoH265, VideoCRF: 23, VideoPreset: "medium",
		AudioCodec: AudioAAC, Container: "mkv", TargetEfficiency: 0.5,
	},
	"quality": {
		ID: "quality", Name: "Maximum Quality", Icon: "fa-star", Description: "Minimal loss",
		Category: CategoryUsage, VideoCodec: VideoH265, VideoCRF: 18, VideoPreset: "slow",
		AudioCodec: AudioEAC3, Container: "mkv", TargetEfficiency: 0.7,
	},
	"compression": {
		ID: "compression", Name: "Maximum Compression", Icon: "fa-compress", Description: "Maximum savings",
		Category: CategoryUsage, VideoCodec: VideoH265, VideoCRF: 28, VideoPreset: "medium",
		AudioCodec: AudioAAC, AudioBitrate: 128, Container: "mkv", TargetEfficiency: 0.3,
	},
	"anime": {
		ID: "anime", Name: "Anime", Icon: "fa-dragon", Description: "2D animation",
		Category: CategoryUsage, VideoCodec: VideoH265, VideoCRF: 20, VideoPreset: "slow", Tune: "animation",
		AudioCodec: AudioAAC, AudioBitrate: 192, Container: "mkv", TargetEfficiency: 0.4,
	},
}

// Profiles returns a copy of the full profile table.
func Profiles() map[string]Profile {
	out := make(map[string]Profile, len(profiles))
	for id, p := range profiles {
		out[id] = p
	}
	return out
}

// ProfileIDs returns every profile id in display order.
func ProfileIDs() []string {
	return append([]string(nil), profileOrder...)
}

// LegacyPresetView derives the subset of profiles historically exposed as
// presets. The input map is never modified.
func LegacyPresetView(all map[string]Profile) map[string]Profile {
	view := make(map[string]Profile, len(legacyPresetIDs))
	for _, id := range legacyPresetIDs {
		if p, ok := all[id]; ok {
			view[id] = p
		}
	}
	return view
}

// LookupProfile returns the profile for id without any fallback.
func LookupProfile(id string) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// GetProfile returns the profile for id, falling back to the default
// profile when id is unknown.
func GetProfile(id string) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[DefaultProfileID]
}

// ResolveProfile resolves a selector. Device/usage selectors search the full
// table; legacy selectors search the legacy preset view. Both fall back to
// the default profile.
func ResolveProfile(sel Selector) Profile {
	if sel.IsProfile {
		return GetProfile(sel.ID)
	}
	if p, ok := LegacyPresetView(profiles)[sel.ID]; ok {
		return p
	}
	return profiles[DefaultProfileID]
}

// Validate checks that every profile references codecs present in the
// knowledge base and carries a usable target efficiency.
func Validate() error {
	var problems []string
	for _, id := range profileOrder {
		p, ok := profiles[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("profile %s listed but not defined", id))
			continue
		}
		if _, ok := videoCodecs[p.VideoCodec]; !ok {
			problems = append(problems, fmt.Sprintf("profile %s: unknown video codec %q", id, p.VideoCodec))
		}
		if _, ok := audioCodecs[p.AudioCodec]; !ok {
			problems = append(problems, fmt.Sprintf("profile %s: unknown audio codec %q", id, p.AudioCodec))
		}
		if p.TargetEfficiency <= 0 || p.TargetEfficiency > 1 {
			problems = append(problems, fmt.Sprintf("profile %s: target efficiency %.2f out of range", id, p.TargetEfficiency))
		}
	}
	if len(profileOrder) != len(profiles) {
		problems = append(problems, "profile display order does not cover every profile")
	}
	if len(problems) > 0 {
		return fmt.Errorf("codec database validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
