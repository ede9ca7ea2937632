package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediaopt/codecdb"
	"mediaopt/ffprobe"
)

func TestVideoCodecFromFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"HEVC", codecdb.VideoH265},
		{"hevc h.265 / hevc (high efficiency video coding) hvc1", codecdb.VideoH265},
		{"AVC", codecdb.VideoH264},
		{"h264 h.264 / avc / mpeg-4 avc / mpeg-4 part 10", codecdb.VideoH264},
		{"AV1", codecdb.VideoAV1},
		{"av01", codecdb.VideoAV1},
		{"VP9", codecdb.VideoVP9},
		{"mpeg2video mpeg-2 video", codecdb.VideoMPEG2},
		{"MPEG-4 Visual", codecdb.VideoMPEG4},
		{"MPEG Video", codecdb.VideoMPEG2},
		{"XviD", codecdb.VideoXvid},
		{"ProRes", codecdb.VideoH264},
		{"", codecdb.VideoH264},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := VideoCodecFromFormat(tt.format); got != tt.expected {
				t.Errorf("VideoCodecFromFormat(%q) = %s; want %s", tt.format, got, tt.expected)
			}
		})
	}
}

func TestAudioCodecFromFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"AAC LC", codecdb.AudioAAC},
		{"E-AC-3", codecdb.AudioEAC3},
		{"eac3 atsc a/52b (ac-3, e-ac-3)", codecdb.AudioEAC3},
		{"AC-3", codecdb.AudioAC3},
		{"DTS-HD MA", codecdb.AudioDTS},
		{"FLAC", codecdb.AudioFLAC},
		{"Opus", codecdb.AudioOpus},
		{"MPEG Audio mp3", codecdb.AudioMP3},
		{"MPEG Audio", codecdb.AudioMP3},
		{"Vorbis", codecdb.AudioVorbis},
		{"PCM", codecdb.AudioAAC},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := AudioCodecFromFormat(tt.format); got != tt.expected {
				t.Errorf("AudioCodecFromFormat(%q) = %s; want %s", tt.format, got, tt.expected)
			}
		})
	}
}

func preciseReport() *TrackReport {
	return &TrackReport{Tracks: []Track{
		{Type: TrackGeneral, Format: "matroska,webm", Duration: 5400.5, BitRate: 9_000_000},
		{Type: TrackVideo, Format: "AVC", Width: 1920, Height: 1080, FrameRate: 23.976023, BitRate: 8_000_000},
		{Type: TrackAudio, Format: "AC-3", Channels: 6, SamplingRate: 48000, BitRate: 640_000},
		{Type: TrackText, Format: "subrip", Language: "en", Title: "English"},
		{Type: TrackText, Format: "hdmv_pgs_subtitle"},
	}}
}

func TestAnalyze_Precise(t *testing.T) {
	capability := &fakeCapability{report: preciseReport()}
	in := &fakeInput{name: "Movie.Name.2019.mkv", data: []byte("x"), size: 6_000_000_000, mime: "video/x-matroska"}

	meta, err := New(PreciseStrategy(capability)).Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if meta.Source != SourcePrecise || !meta.IsRealAnalysis {
		t.Errorf("Expected precise provenance, got %q/%v", meta.Source, meta.IsRealAnalysis)
	}
	if meta.Extension != "mkv" || meta.ContainerFormat != "MATROSKA" {
		t.Errorf("Unexpected container: ext=%s format=%s", meta.Extension, meta.ContainerFormat)
	}
	if meta.Video.Codec != codecdb.VideoH264 || meta.Video.Resolution != codecdb.Res1080p || meta.Video.Framerate != 23.976 {
		t.Errorf("Unexpected video: %+v", meta.Video)
	}
	if meta.Audio.Codec != codecdb.AudioAC3 || meta.Audio.Channels != codecdb.Layout51 || meta.Audio.Bitrate != 640 {
		t.Errorf("Unexpected audio: %+v", meta.Audio)
	}
	if meta.TotalBitrate != 9000 {
		t.Errorf("Expected container bitrate 9000 kbps, got %d", meta.TotalBitrate)
	}
	if meta.SubtitlesCount() != 2 {
		t.Fatalf("Expected 2 subtitles, got %d", meta.SubtitlesCount())
	}
	if meta.Subtitles[1].Language != "Unknown" || meta.Subtitles[1].Title != "" {
		t.Errorf("Expected defaulted subtitle fields, got %+v", meta.Subtitles[1])
	}
	if err := meta.Validate(); err != nil {
		t.Errorf("Precise metadata should validate: %v", err)
	}
}

func TestAnalyze_PreciseDefaults(t *testing.T) {
	capability := &fakeCapability{report: &TrackReport{Tracks: []Track{
		{Type: TrackGeneral},
		{Type: TrackVideo, Format: "something new"},
		{Type: TrackAudio, Format: "something else"},
	}}}
	in := &fakeInput{name: "clip.mp4", data: []byte("x")}

	meta, err := New(PreciseStrategy(capability)).Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if meta.Video.Codec != codecdb.VideoH264 || meta.Audio.Codec != codecdb.AudioAAC {
		t.Errorf("Expected conservative defaults, got %s/%s", meta.Video.Codec, meta.Audio.Codec)
	}
	if meta.Video.Width != 1920 || meta.Video.Height != 1080 || meta.Video.Framerate != 23.976 {
		t.Errorf("Expected default geometry, got %+v", meta.Video)
	}
	if meta.Audio.Channels != codecdb.LayoutStereo || meta.Audio.SampleRate != 48000 {
		t.Errorf("Expected default audio, got %+v", meta.Audio)
	}
	if meta.ContainerFormat != "MP4" {
		t.Errorf("Expected extension-derived container, got %s", meta.ContainerFormat)
	}
}

func TestAnalyze_PreciseFailureFallsBack(t *testing.T) {
	capability := &fakeCapability{err: errors.New("ffprobe failed: exit status 1")}
	withMediaInfo(t, containerTracks("Matroska", 3840, 2160, "5400.500", "HEVC", "AC-3")...)
	in := &fakeInput{name: "uhd.mkv", data: []byte("matroska"), size: 10_000_000_000, mime: "video/x-matroska"}

	meta, err := New(PreciseStrategy(capability)).Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected heuristic fallback, got %v", err)
	}
	if capability.calls != 1 {
		t.Errorf("Expected one capability call, got %d", capability.calls)
	}
	if meta.Source != SourceHeader {
		t.Errorf("Expected header provenance, got %q", meta.Source)
	}
	if meta.Video.Codec != codecdb.VideoH265 || meta.Audio.Codec != codecdb.AudioAC3 {
		t.Errorf("Expected header codecs, got %s/%s", meta.Video.Codec, meta.Audio.Codec)
	}
	if meta.Video.Resolution != codecdb.Res4K || meta.Video.Framerate != 30 {
		t.Errorf("Expected 4k at 30fps, got %s at %f", meta.Video.Resolution, meta.Video.Framerate)
	}
	if meta.Audio.Channels != codecdb.Layout51 {
		t.Errorf("Expected 5.1 for high-bitrate mkv, got %s", meta.Audio.Channels)
	}
	if meta.Duration != 5400.5 {
		t.Errorf("Expected header duration, got %f", meta.Duration)
	}
}

func TestAnalyze_Heuristic(t *testing.T) {
	tests := []struct {
		name       string
		input      *fakeInput
		tracks     []miTrack
		video      string
		audio      string
		resolution string
		framerate  float64
		source     string
	}{
		{
			name:       "mp4 header",
			input:      &fakeInput{name: "clip.mp4", data: []byte("mp4"), mime: "video/mp4"},
			tracks:     containerTracks("MPEG-4", 1280, 720, "60.000", "AVC", "AAC LC"),
			video:      codecdb.VideoH264,
			audio:      codecdb.AudioAAC,
			resolution: codecdb.Res720p,
			framerate:  23.976,
			source:     SourceHeader,
		},
		{
			name:       "webm header",
			input:      &fakeInput{name: "talk.webm", data: []byte("webm"), mime: "video/webm"},
			tracks:     containerTracks("WebM", 1920, 1080, "60.000", "VP9", "Opus"),
			video:      codecdb.VideoVP9,
			audio:      codecdb.AudioOpus,
			resolution: codecdb.Res1080p,
			framerate:  30,
			source:     SourceHeader,
		},
		{
			name:       "header formats win over extension",
			input:      &fakeInput{name: "rip.mkv", data: []byte("mkv"), mime: "video/x-matroska"},
			tracks:     containerTracks("Matroska", 1920, 1080, "60.000", "MPEG Video", "MPEG Audio"),
			video:      codecdb.VideoMPEG2,
			audio:      codecdb.AudioMP3,
			resolution: codecdb.Res1080p,
			framerate:  23.976,
			source:     SourceHeader,
		},
		{
			name:  "MIME codecs win over extension",
			input: &fakeInput{name: "clip.mkv", data: []byte("mkv"), mime: `video/mp4; codecs="avc1.64001f, mp4a.40.2"`},
			tracks: []miTrack{
				{"@type": "General", "Format": "Matroska", "Duration": "60.000"},
				{"@type": "Video", "Width": "1920", "Height": "1080"},
			},
			video:      codecdb.VideoH264,
			audio:      codecdb.AudioAAC,
			resolution: codecdb.Res1080p,
			framerate:  23.976,
			source:     SourceHeader,
		},
		{
			name:       "unknown container uses size",
			input:      &fakeInput{name: "old.avi", data: []byte("garbage"), size: 1_200_000_000, mime: "video/x-msvideo"},
			tracks:     []miTrack{{"@type": "General", "Format": "Unknown"}},
			video:      codecdb.VideoMPEG4,
			audio:      codecdb.AudioMP3,
			resolution: codecdb.Res720p,
			framerate:  23.976,
			source:     SourceSizeGuess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withMediaInfo(t, tt.tracks...)
			meta, err := New(HeuristicStrategy()).Analyze(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if meta.Video.Codec != tt.video || meta.Audio.Codec != tt.audio {
				t.Errorf("Expected %s/%s, got %s/%s", tt.video, tt.audio, meta.Video.Codec, meta.Audio.Codec)
			}
			if meta.Video.Resolution != tt.resolution {
				t.Errorf("Expected %s, got %s", tt.resolution, meta.Video.Resolution)
			}
			if meta.Video.Framerate != tt.framerate {
				t.Errorf("Expected %f fps, got %f", tt.framerate, meta.Video.Framerate)
			}
			if meta.Source != tt.source {
				t.Errorf("Expected source %q, got %q", tt.source, meta.Source)
			}
			if err := meta.Validate(); err != nil {
				t.Errorf("Heuristic metadata should validate: %v", err)
			}
		})
	}
}

func TestAnalyze_SizeHeuristicValues(t *testing.T) {
	in := &fakeInput{name: "old.avi", data: []byte("RIFF"), size: 1_200_000_000}
	meta, err := New(HeuristicStrategy()).Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if meta.Duration != 2700 {
		t.Errorf("Expected 2700s bucket, got %f", meta.Duration)
	}
	if meta.TotalBitrate != 3556 || meta.Video.Bitrate != 2845 || meta.Audio.Bitrate != 533 {
		t.Errorf("Unexpected bitrates: total=%d video=%d audio=%d", meta.TotalBitrate, meta.Video.Bitrate, meta.Audio.Bitrate)
	}
	if meta.Video.Width != 1280 || meta.Video.Height != 720 {
		t.Errorf("Expected 720p dimensions, got %dx%d", meta.Video.Width, meta.Video.Height)
	}
	if meta.IsRealAnalysis {
		t.Error("Size guesses must not be flagged as real analysis")
	}
}

func TestAnalyze_BothPathsFail(t *testing.T) {
	capability := &fakeCapability{err: errors.New("ffprobe failed")}
	in := &fakeInput{name: "broken.mkv", data: []byte("x"), readErr: errDisk}

	_, err := New(PreciseStrategy(capability)).Analyze(context.Background(), in)
	if err == nil {
		t.Fatal("Expected extraction error")
	}
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Expected *ExtractionError, got %T", err)
	}
	if extractionErr.File != "broken.mkv" {
		t.Errorf("Expected file name in error, got %q", extractionErr.File)
	}
	if !errors.Is(err, ErrReadFailure) {
		t.Errorf("Expected ErrReadFailure, got %v", err)
	}
}

func TestAnalyze_Timeout(t *testing.T) {
	blockMediaInfo(t)
	in := &fakeInput{name: "stall.mp4", data: []byte("data")}

	_, err := New(HeuristicStrategy(), WithTimeout(20*time.Millisecond)).Analyze(context.Background(), in)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "stall.mp4") {
		t.Errorf("Expected file name in error, got %v", err)
	}
}

func TestReportFromProbe(t *testing.T) {
	raw := `{
	  "streams": [
	    {"index": 0, "codec_name": "hevc", "codec_type": "video", "codec_long_name": "H.265 / HEVC", "width": 3840, "height": 2160, "r_frame_rate": "24/1", "bit_rate": "15000000"},
	    {"index": 1, "codec_name": "eac3", "codec_type": "audio", "codec_long_name": "ATSC A/52B (AC-3, E-AC-3)", "channels": 8, "sample_rate": "48000", "bit_rate": "768000"},
	    {"index": 2, "codec_name": "ass", "codec_type": "subtitle", "tags": {"language": "jpn"}},
	    {"index": 3, "codec_name": "ttf", "codec_type": "attachment"}
	  ],
	  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "120.0", "bit_rate": "16000000"}
	}`
	pr, err := ffprobe.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := reportFromProbe(pr)
	if len(report.Tracks) != 4 {
		t.Fatalf("Expected general + 3 tracks, got %d", len(report.Tracks))
	}

	meta := metadataFromReport(&fakeInput{name: "uhd.mp4", data: []byte("x")}, report)
	if meta.Video.Codec != codecdb.VideoH265 || meta.Video.Resolution != codecdb.Res4K {
		t.Errorf("Unexpected video: %+v", meta.Video)
	}
	if meta.Audio.Codec != codecdb.AudioEAC3 || meta.Audio.Channels != codecdb.Layout71 {
		t.Errorf("Unexpected audio: %+v", meta.Audio)
	}
	if meta.ContainerFormat != "MP4" {
		t.Errorf("Expected MP4 container from demuxer list, got %s", meta.ContainerFormat)
	}
	if meta.Subtitles[0].Format != "ass" || meta.Subtitles[0].Language != "jpn" {
		t.Errorf("Unexpected subtitle: %+v", meta.Subtitles[0])
	}
	if meta.TotalBitrate != 16000 {
		t.Errorf("Expected 16000 kbps, got %d", meta.TotalBitrate)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	data := []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	if f.Name() != "clip.mp4" || f.Path() != path || f.Size() != int64(len(data)) {
		t.Errorf("Unexpected handle: name=%s path=%s size=%d", f.Name(), f.Path(), f.Size())
	}
	if f.MIMEType() != "video/mp4" {
		t.Errorf("Expected video/mp4, got %q", f.MIMEType())
	}

	chunk, err := f.ReadChunk(1000, int64(len(data)-4))
	if err != nil || len(chunk) != 4 {
		t.Errorf("Expected truncated 4-byte chunk, got %d bytes, err %v", len(chunk), err)
	}
	if chunk, _ := f.ReadChunk(10, int64(len(data))+5); len(chunk) != 0 {
		t.Errorf("Expected empty chunk past EOF, got %d bytes", len(chunk))
	}
	if _, err := f.ReadChunk(-1, 0); err == nil {
		t.Error("Expected error for negative size")
	}

	doc := mediaInfoDoc(containerTracks("MPEG-4", 640, 480, "5.000", "AVC", "AAC")...)
	stubMediaInfo(t, func(p string) ([]byte, error) {
		if p != path {
			return nil, fmt.Errorf("expected the file's own path, got %s", p)
		}
		return doc, nil
	})

	meta, err := New(HeuristicStrategy()).Analyze(context.Background(), f)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if meta.Video.Width != 640 || meta.Duration != 5 || meta.Video.Resolution != codecdb.Res480p {
		t.Errorf("Unexpected metadata: %+v", meta.Video)
	}
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Show.S01E01.mkv")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := StatFile(path)
	if err != nil {
		t.Fatalf("StatFile failed: %v", err)
	}
	if f.isOpen() {
		t.Fatal("StatFile should not open the file")
	}
	if f.Name() != "Show.S01E01.mkv" || f.Size() != 10 || f.MIMEType() != "video/x-matroska" {
		t.Errorf("Unexpected handle: name=%s size=%d mime=%s", f.Name(), f.Size(), f.MIMEType())
	}

	chunk, err := f.ReadChunk(4, 2)
	if err != nil || string(chunk) != "2345" {
		t.Fatalf("ReadChunk = %q, %v", chunk, err)
	}
	if !f.isOpen() {
		t.Error("Expected the first read to open the file")
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if f.isOpen() {
		t.Error("Expected Close to release the descriptor")
	}
	if chunk, err := f.ReadChunk(2, 8); err != nil || string(chunk) != "89" {
		t.Errorf("Expected a read after Close to reopen, got %q, %v", chunk, err)
	}
	f.Close()

	if _, err := StatFile(filepath.Join(t.TempDir(), "gone.mkv")); err == nil || !strings.Contains(err.Error(), "failed to stat") {
		t.Errorf("Expected stat error, got %v", err)
	}
	if _, err := StatFile(t.TempDir()); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("Expected directory error, got %v", err)
	}
}

func TestOpenFile_Errors(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "missing.mkv")); err == nil || !strings.Contains(err.Error(), "failed to open") {
		t.Errorf("Expected open error, got %v", err)
	}
	if _, err := OpenFile(t.TempDir()); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("Expected directory error, got %v", err)
	}
}

func TestNewMemoryFile(t *testing.T) {
	f := NewMemoryFile("show.webm", []byte("abc"), "", time.Time{})
	if f.MIMEType() != "video/webm" || f.Size() != 3 || f.Path() != "" {
		t.Errorf("Unexpected memory file: %+v", f)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close of memory file should succeed: %v", err)
	}
}
