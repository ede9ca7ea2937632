package optimizer

import (
	"fmt"

	"mediaopt/codecdb"
	"mediaopt/command"
	"mediaopt/command/audio"
	"mediaopt/command/subtitle"
	"mediaopt/command/video"
	"mediaopt/models"
)

// plan is the set of encoder decisions shared by the command and its
// explanation.
type plan struct {
	videoCodec   string
	videoEncoder string // empty when the target has no known encoder
	tune         string
	hdr          bool

	audioCodec   string
	audioEncoder string
	audioBitrate int

	subtitles     bool
	copySubtitles bool
}

func (e *Engine) plan() plan {
	p := plan{
		videoCodec: e.TargetVideoCodec(),
		audioCodec: e.TargetAudioCodec(),
	}

	if enc, ok := video.EncoderFor(p.videoCodec); ok {
		p.videoEncoder = enc
		if enc == video.EncoderX264 || enc == video.EncoderX265 {
			p.tune = e.profile.Tune
		}
		p.hdr = enc == video.EncoderX265 && e.meta.Video.Resolution == codecdb.Res4K
	}

	if enc, ok := audio.EncoderFor(p.audioCodec); ok {
		p.audioEncoder = enc
		p.audioBitrate = e.TargetAudioBitrate()
	}

	if e.meta.HasSubtitles() {
		p.subtitles = true
		p.copySubtitles = allUniversal(e.meta.Subtitles)
	}

	return p
}

// GenerateCommand synthesizes the encode command:
//
//	<tool> -i "<input>" [video] [audio] [subtitles] -movflags +faststart "<output>"
func (e *Engine) GenerateCommand() *command.EncodeCommand {
	p := e.plan()
	cmd := command.New(e.tool, e.inputPath, e.OutputPath())

	if p.videoEncoder != "" {
		vb := video.NewVideoBuilder(p.videoEncoder).
			SetCRF(e.profile.VideoCRF).
			SetPreset(e.profile.VideoPreset).
			SetTune(p.tune)
		if p.hdr {
			vb.PreserveHDR()
		}
		cmd.Add(vb)
	}

	if ab, ok := audio.ForCodec(p.audioCodec, p.audioBitrate); ok {
		cmd.Add(ab)
	}

	if p.subtitles {
		sb := subtitle.NewSubtitleBuilder()
		if !p.copySubtitles {
			sb.ConvertFormat(subtitle.FormatSRT)
		}
		cmd.Add(sb)
	}

	return cmd.Add(command.Faststart())
}

// ExplainCommand describes each parameter of GenerateCommand in order.
func (e *Engine) ExplainCommand() []models.CommandExplanation {
	p := e.plan()
	out := []models.CommandExplanation{{Param: `-i "input"`, Description: "Input file"}}

	if p.videoEncoder != "" {
		out = append(out,
			models.CommandExplanation{
				Param:       "-c:v " + p.videoEncoder,
				Description: "Video encoding in " + codecdb.VideoName(p.videoCodec),
			},
			models.CommandExplanation{
				Param:       fmt.Sprintf("-crf %d", e.profile.VideoCRF),
				Description: "Constant quality: " + CRFDescription(e.profile.VideoCRF),
			},
			models.CommandExplanation{
				Param:       "-preset " + e.profile.VideoPreset,
				Description: "Encoding speed: " + e.profile.VideoPreset,
			},
		)
		if p.tune != "" {
			out = append(out, models.CommandExplanation{Param: "-tune " + p.tune, Description: "Encoder tuning for " + p.tune + " content"})
		}
		if p.hdr {
			out = append(out, models.CommandExplanation{Param: "-x265-params", Description: "Preserve HDR metadata"})
		}
	}

	if p.audioEncoder != "" {
		out = append(out, models.CommandExplanation{
			Param:       "-c:a " + p.audioEncoder,
			Description: "Audio encoding in " + codecdb.AudioName(p.audioCodec),
		})
		if p.audioBitrate > 0 {
			out = append(out, models.CommandExplanation{
				Param:       fmt.Sprintf("-b:a %dk", p.audioBitrate),
				Description: fmt.Sprintf("Audio bitrate: %d kbps", p.audioBitrate),
			})
		}
	}

	if p.subtitles {
		if p.copySubtitles {
			out = append(out, models.CommandExplanation{Param: "-c:s copy", Description: "Keep subtitle tracks unchanged"})
		} else {
			out = append(out, models.CommandExplanation{Param: "-c:s srt", Description: "Convert subtitle tracks to SRT"})
		}
	}

	return append(out, models.CommandExplanation{Param: "-movflags +faststart", Description: "Streaming optimization"})
}
