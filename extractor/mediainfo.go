package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/autobrr/go-mediainfo/pkg/mediainfo"
)

// spoolChunkSize is the read size used when copying a pathless input to disk.
const spoolChunkSize = 1 << 20

// mediaInfoJSON analyzes the file at path and renders the report in
// MediaInfo's JSON layout, which carries normalized numeric fields.
var mediaInfoJSON = func(path string) ([]byte, error) {
	report, err := mediainfo.AnalyzeFile(path)
	if err != nil {
		return nil, err
	}
	return []byte(mediainfo.RenderJSON([]mediainfo.Report{report})), nil
}

// MediaInfoCapability implements Capability with the go-mediainfo container
// parsers. Inputs without a path on disk are spooled to a temporary file.
type MediaInfoCapability struct{}

// NewMediaInfoCapability returns the go-mediainfo capability.
func NewMediaInfoCapability() *MediaInfoCapability {
	return &MediaInfoCapability{}
}

// AnalyzeData parses src and converts its streams to tracks. The parser
// cannot be interrupted, so a cancelled ctx returns early and leaves it to
// finish in the background.
func (c *MediaInfoCapability) AnalyzeData(ctx context.Context, src Source) (*TrackReport, error) {
	type outcome struct {
		report *TrackReport
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		report, err := c.analyze(src)
		done <- outcome{report, err}
	}()

	select {
	case out := <-done:
		return out.report, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *MediaInfoCapability) analyze(src Source) (*TrackReport, error) {
	path := sourcePath(src)
	if path == "" {
		spooled, err := spool(src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(spooled)
		path = spooled
	}

	data, err := mediaInfoJSON(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	report, err := decodeMediaInfo(data)
	if err != nil {
		return nil, fmt.Errorf("mediainfo report of %s: %w", src.Name(), err)
	}
	return report, nil
}

func sourcePath(src Source) string {
	if p, ok := src.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}

// spool copies src into a temporary file and returns its path.
func spool(src Source) (string, error) {
	tmp, err := os.CreateTemp("", "mediaopt-*-"+sanitizeTempName(src.Name()))
	if err != nil {
		return "", fmt.Errorf("failed to create spool file: %w", err)
	}

	var copyErr error
	for offset := int64(0); offset < src.Size(); {
		chunk, err := src.ReadChunk(spoolChunkSize, offset)
		if err != nil {
			copyErr = fmt.Errorf("%w: %v", ErrReadFailure, err)
			break
		}
		if len(chunk) == 0 {
			break
		}
		if _, err := tmp.Write(chunk); err != nil {
			copyErr = fmt.Errorf("failed to write spool file: %w", err)
			break
		}
		offset += int64(len(chunk))
	}
	closeErr := tmp.Close()
	if copyErr == nil && closeErr != nil {
		copyErr = fmt.Errorf("failed to write spool file: %w", closeErr)
	}
	if copyErr != nil {
		os.Remove(tmp.Name())
		return "", copyErr
	}
	return tmp.Name(), nil
}

// sanitizeTempName keeps the extension visible to the parser, which uses it
// to tell some formats apart.
func sanitizeTempName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '*' {
			return '_'
		}
		return r
	}, name)
}

// jsonText accepts both quoted and bare JSON values.
type jsonText string

func (s *jsonText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = jsonText(v)
		return nil
	}
	*s = jsonText(b)
	return nil
}

func (s jsonText) int() int {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0
	}
	return int(f + 0.5)
}

func (s jsonText) float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0
	}
	return f
}

type mediaInfoTrack struct {
	Type           jsonText `json:"@type"`
	Format         jsonText `json:"Format"`
	Width          jsonText `json:"Width"`
	Height         jsonText `json:"Height"`
	FrameRate      jsonText `json:"FrameRate"`
	BitRate        jsonText `json:"BitRate"`
	OverallBitRate jsonText `json:"OverallBitRate"`
	Channels       jsonText `json:"Channels"`
	SamplingRate   jsonText `json:"SamplingRate"`
	Language       jsonText `json:"Language"`
	Title          jsonText `json:"Title"`
	Duration       jsonText `json:"Duration"`
}

type mediaInfoDocument struct {
	Media struct {
		Track []mediaInfoTrack `json:"track"`
	} `json:"media"`
}

// decodeMediaInfo converts a MediaInfo JSON document to a TrackReport.
// Image and menu tracks are dropped.
func decodeMediaInfo(data []byte) (*TrackReport, error) {
	var doc mediaInfoDocument
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode mediainfo JSON: %w", err)
	}

	report := &TrackReport{}
	for _, t := range doc.Media.Track {
		tr := Track{
			Format:   string(t.Format),
			Duration: t.Duration.float(),
			Language: string(t.Language),
			Title:    string(t.Title),
		}
		switch TrackType(t.Type) {
		case TrackGeneral:
			tr.Type = TrackGeneral
			tr.BitRate = t.OverallBitRate.int()
		case TrackVideo:
			tr.Type = TrackVideo
			tr.Width = t.Width.int()
			tr.Height = t.Height.int()
			tr.FrameRate = t.FrameRate.float()
			tr.BitRate = t.BitRate.int()
		case TrackAudio:
			tr.Type = TrackAudio
			tr.Channels = t.Channels.int()
			tr.SamplingRate = t.SamplingRate.int()
			tr.BitRate = t.BitRate.int()
		case TrackText:
			tr.Type = TrackText
		default:
			continue
		}
		report.Tracks = append(report.Tracks, tr)
	}
	return report, nil
}
