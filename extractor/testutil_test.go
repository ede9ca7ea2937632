package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"testing"
	"time"
)

// fakeInput serves data but can report a larger logical size.
type fakeInput struct {
	name    string
	data    []byte
	size    int64
	mime    string
	readErr error
}

func (f *fakeInput) Name() string       { return f.name }
func (f *fakeInput) MIMEType() string   { return f.mime }
func (f *fakeInput) ModTime() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func (f *fakeInput) Size() int64 {
	if f.size > 0 {
		return f.size
	}
	return int64(len(f.data))
}

func (f *fakeInput) ReadAt(p []byte, off int64) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *fakeInput) ReadChunk(size int, offset int64) ([]byte, error) {
	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

type fakeCapability struct {
	report *TrackReport
	err    error
	calls  int
}

func (c *fakeCapability) AnalyzeData(ctx context.Context, src Source) (*TrackReport, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.report, nil
}

// stubMediaInfo replaces the go-mediainfo call until the test ends.
func stubMediaInfo(t *testing.T, fn func(path string) ([]byte, error)) {
	t.Helper()
	orig := mediaInfoJSON
	mediaInfoJSON = fn
	t.Cleanup(func() { mediaInfoJSON = orig })
}

// miTrack is one track of a MediaInfo JSON document.
type miTrack map[string]string

func mediaInfoDoc(tracks ...miTrack) []byte {
	doc := map[string]any{
		"creatingLibrary": map[string]string{"name": "go-mediainfo", "version": "dev"},
		"media":           map[string]any{"@ref": "fixture", "track": tracks},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// withMediaInfo makes every header probe in the test see tracks.
func withMediaInfo(t *testing.T, tracks ...miTrack) {
	t.Helper()
	data := mediaInfoDoc(tracks...)
	stubMediaInfo(t, func(string) ([]byte, error) { return data, nil })
}

// blockMediaInfo stalls the header probe until the test ends.
func blockMediaInfo(t *testing.T) {
	t.Helper()
	release := make(chan struct{})
	stubMediaInfo(t, func(string) ([]byte, error) {
		<-release
		return nil, errors.New("released")
	})
	t.Cleanup(func() { close(release) })
}

func containerTracks(container string, width, height int, duration, video, audio string) []miTrack {
	return []miTrack{
		{"@type": "General", "Format": container, "Duration": duration, "OverallBitRate": "8000000"},
		{"@type": "Video", "Format": video, "Width": strconv.Itoa(width), "Height": strconv.Itoa(height), "FrameRate": "23.976"},
		{"@type": "Audio", "Format": audio, "Channels": "6", "SamplingRate": "48000"},
	}
}

var errDisk = fmt.Errorf("input/output error")

// isOpen reports whether f currently holds a descriptor.
func (f *File) isOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closer != nil
}
