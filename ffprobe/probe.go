package ffprobe

// Package ffprobe provides utilities for extracting metadata from media files
// using the ffprobe command-line tool.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is the executable looked up on PATH when no binary is configured.
const DefaultBinary = "ffprobe"

// DefaultChunkSize is the read size used when piping a source to ffprobe.
const DefaultChunkSize = 1 << 20

// Tags holds the stream tags ffprobe reports that the analysis cares about.
type Tags struct {
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
	BPS      string `json:"BPS,omitempty"`
}

// Stream represents a media stream (audio, video, subtitle, etc.)
type Stream struct {
	Index          int    `json:"index"`
	CodecName      string `json:"codec_name"`
	CodecType      string `json:"codec_type"`
	CodecLongName  string `json:"codec_long_name"`
	CodecTagString string `json:"codec_tag_string,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	RFrameRate     string `json:"r_frame_rate,omitempty"`
	AvgFrameRate   string `json:"avg_frame_rate,omitempty"`
	SampleRate     string `json:"sample_rate,omitempty"`
	Channels       int    `json:"channels,omitempty"`
	BitRate        string `json:"bit_rate,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Tags           Tags   `json:"tags"`
}

// Format represents the container format information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// ProbeResult holds the stream and container metadata extracted from a media file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Input is a byte source that can be piped to ffprobe when no path is available.
type Input interface {
	Size() int64
	ReadChunk(size int, offset int64) ([]byte, error)
}

// Pather is implemented by inputs backed by a file on disk. ffprobe reads
// those directly instead of through stdin.
type Pather interface {
	Path() string
}

// Prober runs a specific ffprobe binary.
type Prober struct {
	Binary    string
	ChunkSize int
}

// New returns a Prober for binary, defaulting to DefaultBinary.
func New(binary string) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{Binary: binary, ChunkSize: DefaultChunkSize}
}

// GetDuration returns the duration of the media file in seconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (float64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return duration, nil
}

// GetVideoStreams returns all video streams from the media file.
func (pr *ProbeResult) GetVideoStreams() []Stream {
	return pr.streamsOfType("video")
}

// GetAudioStreams returns all audio streams from the media file.
func (pr *ProbeResult) GetAudioStreams() []Stream {
	return pr.streamsOfType("audio")
}

// GetSubtitleStreams returns all subtitle streams from the media file.
func (pr *ProbeResult) GetSubtitleStreams() []Stream {
	return pr.streamsOfType("subtitle")
}

func (pr *ProbeResult) streamsOfType(codecType string) []Stream {
	var out []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == codecType {
			out = append(out, stream)
		}
	}
	return out
}

// FormatString joins the identifying names of a stream so that callers can
// match codec tokens against a single lower-case string.
func (s Stream) FormatString() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.CodecName, s.CodecLongName, s.CodecTagString} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// BitRateKbps returns the stream bit rate in kbps, falling back to the
// Matroska BPS tag when ffprobe does not report bit_rate. Zero when unknown.
func (s Stream) BitRateKbps() int {
	for _, raw := range []string{s.BitRate, s.Tags.BPS} {
		if raw == "" {
			continue
		}
		if bps, err := strconv.ParseFloat(raw, 64); err == nil && bps > 0 {
			return int(bps / 1000)
		}
	}
	return 0
}

// FrameRate parses r_frame_rate ("24000/1001", falling back to
// avg_frame_rate). Zero when unknown.
func (s Stream) FrameRate() float64 {
	for _, raw := range []string{s.RFrameRate, s.AvgFrameRate} {
		if fps := parseRational(raw); fps > 0 {
			return fps
		}
	}
	return 0
}

// SampleRateHz returns the audio sample rate, zero when unknown.
func (s Stream) SampleRateHz() int {
	n, err := strconv.Atoi(s.SampleRate)
	if err != nil {
		return 0
	}
	return n
}

// BitRateKbps returns the container bit rate in kbps, zero when unknown.
func (f Format) BitRateKbps() int {
	bps, err := strconv.ParseFloat(f.BitRate, 64)
	if err != nil || bps <= 0 {
		return 0
	}
	return int(bps / 1000)
}

func parseRational(raw string) float64 {
	if raw == "" {
		return 0
	}
	num, den, found := strings.Cut(raw, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (*ProbeResult, error) {
	var result ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}

// Probe analyzes a media file on disk with the default binary.
//
// Example:
//
//	result, err := ffprobe.Probe(ctx, "/path/to/video.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	duration, _ := result.GetDuration()
//	fmt.Printf("Duration: %.2f seconds\n", duration)
func Probe(ctx context.Context, sourcePath string) (*ProbeResult, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	return New("").run(ctx, sourcePath, nil)
}

// ProbeInput analyzes in. Inputs implementing Pather are passed by path,
// all others are streamed to ffprobe's stdin chunk by chunk.
func (p *Prober) ProbeInput(ctx context.Context, in Input) (*ProbeResult, error) {
	if in == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if pp, ok := in.(Pather); ok && pp.Path() != "" {
		return p.run(ctx, pp.Path(), nil)
	}
	return p.run(ctx, "pipe:0", &chunkReader{in: in, chunk: p.chunkSize()})
}

func (p *Prober) chunkSize() int {
	if p.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return p.ChunkSize
}

func (p *Prober) run(ctx context.Context, target string, stdin io.Reader) (*ProbeResult, error) {
	// -v quiet: suppress verbose output
	// -print_format json: output in JSON format
	// -show_streams: include stream information
	// -show_format: include format information
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		target,
	}

	cmd := exec.CommandContext(ctx, p.Binary, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe failed: %w (output: %s)", err, stderr.String())
	}

	return Parse(stdout.Bytes())
}

// chunkReader adapts an Input to io.Reader using fixed-size chunk reads.
type chunkReader struct {
	in     Input
	chunk  int
	offset int64
	buf    []byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if r.offset >= r.in.Size() {
			return 0, io.EOF
		}
		size := r.chunk
		if remaining := r.in.Size() - r.offset; remaining < int64(size) {
			size = int(remaining)
		}
		data, err := r.in.ReadChunk(size, r.offset)
		if err != nil {
			return 0, fmt.Errorf("read chunk at %d: %w", r.offset, err)
		}
		if len(data) == 0 {
			return 0, io.EOF
		}
		r.offset += int64(len(data))
		r.buf = data
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
