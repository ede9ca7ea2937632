package ffprobe

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "hevc", "codec_type": "video", "codec_long_name": "H.265 / HEVC (High Efficiency Video Coding)",
     "width": 3840, "height": 2160, "r_frame_rate": "24000/1001", "tags": {"BPS": "18000000"}},
    {"index": 1, "codec_name": "eac3", "codec_type": "audio", "codec_long_name": "ATSC A/52B (AC-3, E-AC-3)",
     "channels": 6, "sample_rate": "48000", "bit_rate": "640000", "tags": {"language": "eng"}},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle", "codec_long_name": "SubRip subtitle",
     "tags": {"language": "fre", "title": "Forced"}}
  ],
  "format": {"filename": "movie.mkv", "format_name": "matroska,webm", "duration": "5400.5", "size": "12150000000", "bit_rate": "18700000"}
}`

func TestProbe_EmptyPath(t *testing.T) {
	_, err := Probe(context.Background(), "")
	if err == nil {
		t.Fatal("Expected error for empty path")
	}
	if !strings.Contains(err.Error(), "cannot be empty") {
		t.Errorf("Expected 'cannot be empty' error, got: %v", err)
	}
}

func TestProbe_NonExistentFile(t *testing.T) {
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("ffprobe not installed, skipping")
	}
	_, err := Probe(context.Background(), "/nonexistent/file.mp4")
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "ffprobe failed") {
		t.Errorf("Expected ffprobe error, got: %v", err)
	}
}

func TestProber_MissingBinary(t *testing.T) {
	p := New("/nonexistent/bin/ffprobe")
	_, err := p.ProbeInput(context.Background(), &memInput{data: []byte("abc")})
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "ffprobe failed") {
		t.Errorf("Expected 'ffprobe failed' error, got: %v", err)
	}
}

func TestProber_NilInput(t *testing.T) {
	if _, err := New("").ProbeInput(context.Background(), nil); err == nil {
		t.Error("Expected error for nil input")
	}
}

func TestParse(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.GetVideoStreams()) != 1 || len(result.GetAudioStreams()) != 1 || len(result.GetSubtitleStreams()) != 1 {
		t.Fatalf("Unexpected stream split: %+v", result.Streams)
	}

	video := result.GetVideoStreams()[0]
	if video.BitRateKbps() != 18000 {
		t.Errorf("Expected BPS tag fallback 18000 kbps, got %d", video.BitRateKbps())
	}
	if fps := video.FrameRate(); fps < 23.97 || fps > 23.98 {
		t.Errorf("Expected ~23.976 fps, got %f", fps)
	}
	if !strings.Contains(video.FormatString(), "hevc") {
		t.Errorf("Expected format string to contain hevc, got %q", video.FormatString())
	}

	audio := result.GetAudioStreams()[0]
	if audio.BitRateKbps() != 640 || audio.SampleRateHz() != 48000 || audio.Tags.Language != "eng" {
		t.Errorf("Unexpected audio stream: %+v", audio)
	}

	sub := result.GetSubtitleStreams()[0]
	if sub.Tags.Title != "Forced" {
		t.Errorf("Expected subtitle title 'Forced', got %q", sub.Tags.Title)
	}

	if result.Format.BitRateKbps() != 18700 {
		t.Errorf("Expected 18700 kbps container rate, got %d", result.Format.BitRateKbps())
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Expected parse error, got: %v", err)
	}
}

func TestProbeResult_GetDuration(t *testing.T) {
	tests := []struct {
		name        string
		result      ProbeResult
		expected    float64
		expectError bool
	}{
		{name: "Valid duration", result: ProbeResult{Format: Format{Duration: "30.5"}}, expected: 30.5},
		{name: "Integer duration", result: ProbeResult{Format: Format{Duration: "120"}}, expected: 120.0},
		{name: "Empty duration", result: ProbeResult{Format: Format{Duration: ""}}, expectError: true},
		{name: "Invalid duration", result: ProbeResult{Format: Format{Duration: "invalid"}}, expectError: true},
		{name: "Zero duration", result: ProbeResult{Format: Format{Duration: "0"}}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, err := tt.result.GetDuration()

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if duration != tt.expected {
					t.Errorf("Expected duration %f, got %f", tt.expected, duration)
				}
			}
		})
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"25/1", 25},
		{"30", 30},
		{"0/0", 0},
		{"", 0},
		{"abc/1", 0},
	}
	for _, tt := range tests {
		if got := parseRational(tt.raw); got != tt.expected {
			t.Errorf("parseRational(%q) = %f; want %f", tt.raw, got, tt.expected)
		}
	}
}

type memInput struct {
	data  []byte
	reads int
	fail  bool
}

func (m *memInput) Size() int64 { return int64(len(m.data)) }

func (m *memInput) ReadChunk(size int, offset int64) ([]byte, error) {
	m.reads++
	if m.fail {
		return nil, fmt.Errorf("disk gone")
	}
	end := offset + int64(size)
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	return m.data[offset:end], nil
}

func TestChunkReader(t *testing.T) {
	in := &memInput{data: []byte("0123456789")}
	r := &chunkReader{in: in, chunk: 4}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "0123456789" {
		t.Errorf("Expected full payload, got %q", got)
	}
	if in.reads != 3 {
		t.Errorf("Expected 3 chunk reads, got %d", in.reads)
	}
}

func TestChunkReader_Error(t *testing.T) {
	r := &chunkReader{in: &memInput{data: []byte("abc"), fail: true}, chunk: 2}
	_, err := io.ReadAll(r)
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Errorf("Expected wrapped read error, got %v", err)
	}
}
