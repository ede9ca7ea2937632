package optimizer

import (
	"fmt"
	"math"
	"strings"

	"mediaopt/codecdb"
	"mediaopt/models"
)

// GenerateRecommendations returns the ordered recommendation list: video
// codec, CRF, preset, audio codec, audio bitrate, subtitles. Each call
// recomputes the list from scratch.
func (e *Engine) GenerateRecommendations() []models.Recommendation {
	var recs []models.Recommendation
	recs = append(recs, e.videoRecommendations()...)
	recs = append(recs, e.audioRecommendations()...)
	if rec, ok := e.subtitleRecommendation(); ok {
		recs = append(recs, rec)
	}
	return recs
}

func (e *Engine) videoRecommendations() []models.Recommendation {
	var recs []models.Recommendation

	current, target := e.meta.Video.Codec, e.TargetVideoCodec()
	if current != target {
		if rec, ok := e.videoCodecChange(current, target); ok {
			recs = append(recs, rec)
		}
	}

	crf := e.profile.VideoCRF
	recs = append(recs, models.Recommendation{
		Type:        models.RecommendationVideo,
		Category:    "Quality (CRF)",
		Description: "Constant Rate Factor for quality control",
		From:        "Variable",
		To:          fmt.Sprintf("CRF %d", crf),
		Impact:      models.ImpactMedium,
		Reason:      fmt.Sprintf("CRF %d = %s", crf, CRFDescription(crf)),
	})

	recs = append(recs, models.Recommendation{
		Type:        models.RecommendationVideo,
		Category:    "Encoding Preset",
		Description: "Balance between encoding speed and compression",
		From:        "Not specified",
		To:          e.profile.VideoPreset,
		Impact:      models.ImpactLow,
		Reason:      fmt.Sprintf("Preset %q offers a good trade-off", e.profile.VideoPreset),
	})

	return recs
}

// videoCodecChange compares efficiencies, so both codecs must be known.
func (e *Engine) videoCodecChange(current, target string) (models.Recommendation, bool) {
	from, okFrom := codecdb.LookupVideo(current)
	to, okTo := codecdb.LookupVideo(target)
	if !okFrom || !okTo {
		e.logger.Debug().
			Str("from", current).
			Str("to", target).
			Msg("Skipping video codec recommendation for unknown codec")
		return models.Recommendation{}, false
	}

	gain := int(math.Round((to.Efficiency/from.Efficiency - 1) * 100))
	reason := fmt.Sprintf("%s offers %d%% more compression", to.Name, gain)
	if gain <= 0 {
		reason = fmt.Sprintf("%s is the target codec of the %s profile", to.Name, e.profile.Name)
	}

	return models.Recommendation{
		Type:        models.RecommendationVideo,
		Category:    "Video Codec",
		Description: fmt.Sprintf("Switch from %s to %s for better efficiency", from.Name, to.Name),
		From:        from.Name,
		To:          to.Name,
		Impact:      models.ImpactHigh,
		Reason:      reason,
	}, true
}

func (e *Engine) audioRecommendations() []models.Recommendation {
	var recs []models.Recommendation

	current, target := e.meta.Audio.Codec, e.TargetAudioCodec()
	if current != target {
		from, to := codecdb.AudioName(current), codecdb.AudioName(target)
		rec := models.Recommendation{
			Type:        models.RecommendationAudio,
			Category:    "Audio Codec",
			Description: fmt.Sprintf("Convert %s → %s", from, to),
			From:        from,
			To:          to,
			Impact:      models.ImpactMedium,
			Reason:      fmt.Sprintf("%s offers better efficiency", to),
		}
		if info, ok := codecdb.LookupAudio(current); ok && info.Lossless {
			rec.Impact = models.ImpactHigh
			rec.Reason = fmt.Sprintf("%s is lossless, a lossy codec saves a lot of space", from)
		}
		recs = append(recs, rec)
	}

	if kbps := e.TargetAudioBitrate(); kbps > 0 && kbps != e.meta.Audio.Bitrate {
		recs = append(recs, models.Recommendation{
			Type:        models.RecommendationAudio,
			Category:    "Audio Bitrate",
			Description: "Audio bitrate optimization",
			From:        fmt.Sprintf("%d kbps", e.meta.Audio.Bitrate),
			To:          fmt.Sprintf("%d kbps", kbps),
			Impact:      models.ImpactLow,
			Reason:      fmt.Sprintf("Optimal bitrate for %s", e.meta.Audio.Channels),
		})
	}

	return recs
}

func (e *Engine) subtitleRecommendation() (models.Recommendation, bool) {
	if !e.meta.HasSubtitles() {
		return models.Recommendation{}, false
	}

	count := e.meta.SubtitlesCount()
	tracks := "track"
	if count > 1 {
		tracks = "tracks"
	}

	if allUniversal(e.meta.Subtitles) {
		return models.Recommendation{
			Type:        models.RecommendationSubtitle,
			Category:    "Subtitles",
			Description: fmt.Sprintf("%d %s already optimized", count, tracks),
			From:        "SRT",
			To:          "Keep",
			Impact:      models.ImpactLow,
			Reason:      "Universal format already in use",
		}, true
	}

	return models.Recommendation{
		Type:        models.RecommendationSubtitle,
		Category:    "Subtitles",
		Description: fmt.Sprintf("Convert %d %s to SRT", count, tracks),
		From:        strings.Join(uniqueFormats(e.meta.Subtitles), ", "),
		To:          "SRT",
		Impact:      models.ImpactLow,
		Reason:      "Universal compatibility (Plex, TV, mobile, Chromecast)",
	}, true
}

// allUniversal reports whether every track is in the universal text format.
// False for an empty list.
func allUniversal(tracks []models.SubtitleTrack) bool {
	if len(tracks) == 0 {
		return false
	}
	for _, t := range tracks {
		if !codecdb.IsUniversalSubtitle(t.Format) {
			return false
		}
	}
	return true
}

func uniqueFormats(tracks []models.SubtitleTrack) []string {
	seen := make(map[string]bool, len(tracks))
	var out []string
	for _, t := range tracks {
		if !seen[t.Format] {
			seen[t.Format] = true
			out = append(out, t.Format)
		}
	}
	return out
}
