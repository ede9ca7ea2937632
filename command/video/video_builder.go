package video

import (
	"strconv"

	"mediaopt/codecdb"
	"mediaopt/command"
)

// Encoder names for each target video codec.
const (
	EncoderX264   = "libx264"
	EncoderX265   = "libx265"
	EncoderVP9    = "libvpx-vp9"
	EncoderSVTAV1 = "libsvtav1"
)

// HDRParams preserves HDR metadata in x265 output.
const HDRParams = "hdr-opt=1:repeat-headers=1"

var encoders = map[string]string{
	codecdb.VideoH264: EncoderX264,
	codecdb.VideoH265: EncoderX265,
	codecdb.VideoVP9:  EncoderVP9,
	codecdb.VideoAV1:  EncoderSVTAV1,
}

// EncoderFor returns the encoder for a codec id.
func EncoderFor(codec string) (string, bool) {
	enc, ok := encoders[codec]
	return enc, ok
}

// VideoBuilder builds the video stream arguments of an encode command.
type VideoBuilder struct {
	encoder string
	crf     int // -1 = unset
	preset  string
	tune    string

	x265Params string
}

// NewVideoBuilder creates a builder for encoder (e.g. "libx265"). An empty
// encoder defaults to libx264.
func NewVideoBuilder(encoder string) *VideoBuilder {
	if encoder == "" {
		encoder = EncoderX264
	}
	return &VideoBuilder{encoder: encoder, crf: -1}
}

// Encoder returns the configured encoder.
func (v *VideoBuilder) Encoder() string {
	return v.encoder
}

// SetCRF sets the Constant Rate Factor (0-51, lower is better quality).
// Negative values leave it unset.
func (v *VideoBuilder) SetCRF(crf int) *VideoBuilder {
	v.crf = crf
	return v
}

// SetPreset sets the encoding preset (ultrafast ... veryslow).
func (v *VideoBuilder) SetPreset(preset string) *VideoBuilder {
	v.preset = preset
	return v
}

// SetTune sets the encoder tuning (e.g. "film", "animation", "grain").
func (v *VideoBuilder) SetTune(tune string) *VideoBuilder {
	v.tune = tune
	return v
}

// SetX265Params passes encoder-private options to libx265. Ignored for
// other encoders.
func (v *VideoBuilder) SetX265Params(params string) *VideoBuilder {
	v.x265Params = params
	return v
}

// PreserveHDR keeps HDR metadata when encoding with libx265.
func (v *VideoBuilder) PreserveHDR() *VideoBuilder {
	return v.SetX265Params(HDRParams)
}

// GetTaskType implements command.ArgBuilder.
func (v *VideoBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeVideo
}

// BuildArgs constructs the video arguments.
func (v *VideoBuilder) BuildArgs() []string {
	args := []string{"-c:v", v.encoder}

	if v.crf >= 0 {
		args = append(args, "-crf", strconv.Itoa(v.crf))
		// libvpx-vp9 only honours -crf in constant quality mode.
		if v.encoder == EncoderVP9 {
			args = append(args, "-b:v", "0")
		}
	}
	if v.preset != "" {
		args = append(args, "-preset", v.preset)
	}
	if v.tune != "" {
		args = append(args, "-tune", v.tune)
	}
	if v.x265Params != "" && v.encoder == EncoderX265 {
		args = append(args, "-x265-params", v.x265Params)
	}

	return args
}
