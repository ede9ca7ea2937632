package audio

import (
	"fmt"

	"mediaopt/codecdb"
	"mediaopt/command"
)

// Fixed bitrates (kbps) used for Dolby targets regardless of profile.
const (
	AC3Bitrate  = 640
	EAC3Bitrate = 384
)

var encoders = map[string]string{
	codecdb.AudioAAC:    "aac",
	codecdb.AudioAC3:    "ac3",
	codecdb.AudioEAC3:   "eac3",
	codecdb.AudioMP3:    "libmp3lame",
	codecdb.AudioOpus:   "libopus",
	codecdb.AudioVorbis: "libvorbis",
	codecdb.AudioFLAC:   "flac",
	codecdb.AudioDTS:    "dca",
}

// EncoderFor returns the encoder for a codec id.
func EncoderFor(codec string) (string, bool) {
	enc, ok := encoders[codec]
	return enc, ok
}

// FixedBitrate returns the bitrate a codec is always encoded at, if any.
func FixedBitrate(codec string) (int, bool) {
	switch codec {
	case codecdb.AudioAC3:
		return AC3Bitrate, true
	case codecdb.AudioEAC3:
		return EAC3Bitrate, true
	}
	return 0, false
}

// AudioBuilder builds the audio stream arguments of an encode command.
type AudioBuilder struct {
	encoder string
	bitrate int // kbps, 0 = encoder default
}

// NewAudioBuilder creates a builder for encoder (e.g. "aac", "libopus"). An
// empty encoder defaults to aac.
func NewAudioBuilder(encoder string) *AudioBuilder {
	if encoder == "" {
		encoder = "aac"
	}
	return &AudioBuilder{encoder: encoder}
}

// ForCodec creates a builder for a codec id, applying the codec's fixed
// bitrate when it has one and bitrate otherwise. ok is false when the codec
// has no known encoder.
func ForCodec(codec string, bitrate int) (*AudioBuilder, bool) {
	enc, ok := EncoderFor(codec)
	if !ok {
		return nil, false
	}
	if fixed, ok := FixedBitrate(codec); ok {
		bitrate = fixed
	}
	return NewAudioBuilder(enc).SetBitrate(bitrate), true
}

// Encoder returns the configured encoder.
func (a *AudioBuilder) Encoder() string {
	return a.encoder
}

// SetBitrate sets the audio bitrate in kbps. Zero leaves it unset.
func (a *AudioBuilder) SetBitrate(kbps int) *AudioBuilder {
	a.bitrate = kbps
	return a
}

// GetTaskType implements command.ArgBuilder.
func (a *AudioBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeAudio
}

// BuildArgs constructs the audio arguments.
func (a *AudioBuilder) BuildArgs() []string {
	args := []string{"-c:a", a.encoder}

	if a.bitrate > 0 {
		args = append(args, "-b:a", fmt.Sprintf("%dk", a.bitrate))
	}

	return args
}
