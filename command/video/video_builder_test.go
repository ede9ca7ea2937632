package video

import (
	"strings"
	"testing"

	"mediaopt/command"
)

func TestNewVideoBuilder(t *testing.T) {
	builder := NewVideoBuilder("")

	if builder.Encoder() != EncoderX264 {
		t.Errorf("Expected default encoder 'libx264', got '%s'", builder.Encoder())
	}
	if builder.GetTaskType() != command.TaskTypeVideo {
		t.Errorf("Expected task type video, got %s", builder.GetTaskType())
	}

	args := strings.Join(builder.BuildArgs(), " ")
	if args != "-c:v libx264" {
		t.Errorf("Expected only the codec flag, got %q", args)
	}
}

func TestVideoBuilder_X265(t *testing.T) {
	builder := NewVideoBuilder(EncoderX265).
		SetCRF(20).
		SetPreset("slow").
		SetTune("animation").
		PreserveHDR()

	argsStr := strings.Join(builder.BuildArgs(), " ")
	expected := "-c:v libx265 -crf 20 -preset slow -tune animation -x265-params hdr-opt=1:repeat-headers=1"
	if argsStr != expected {
		t.Errorf("BuildArgs() = %q; want %q", argsStr, expected)
	}
}

func TestVideoBuilder_X265ParamsIgnoredForOtherEncoders(t *testing.T) {
	argsStr := strings.Join(NewVideoBuilder(EncoderX264).SetCRF(23).PreserveHDR().BuildArgs(), " ")
	if strings.Contains(argsStr, "-x265-params") {
		t.Errorf("libx264 should not receive x265 params: %s", argsStr)
	}
}

func TestVideoBuilder_VP9ConstantQuality(t *testing.T) {
	argsStr := strings.Join(NewVideoBuilder(EncoderVP9).SetCRF(31).BuildArgs(), " ")
	if !strings.Contains(argsStr, "-crf 31 -b:v 0") {
		t.Errorf("Expected constant quality mode for vp9, got %s", argsStr)
	}
}

func TestEncoderFor(t *testing.T) {
	tests := []struct {
		codec    string
		expected string
		ok       bool
	}{
		{"h264", EncoderX264, true},
		{"h265", EncoderX265, true},
		{"vp9", EncoderVP9, true},
		{"av1", EncoderSVTAV1, true},
		{"mpeg2", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			got, ok := EncoderFor(tt.codec)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("EncoderFor(%q) = %q, %v; want %q, %v", tt.codec, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
