package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"mediaopt/models"
)

// Summary is a serializable view of a batch.
type Summary struct {
	BatchID     string        `json:"batch_id" yaml:"batch_id"`
	Profile     string        `json:"profile" yaml:"profile"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Stats       Stats         `json:"stats" yaml:"stats"`
	Files       []FileSummary `json:"files" yaml:"files"`
}

// FileSummary describes one entry of a Summary.
type FileSummary struct {
	ID              string                  `json:"id" yaml:"id"`
	Filename        string                  `json:"filename" yaml:"filename"`
	Error           string                  `json:"error,omitempty" yaml:"error,omitempty"`
	Elapsed         string                  `json:"elapsed" yaml:"elapsed"`
	Source          string                  `json:"source,omitempty" yaml:"source,omitempty"`
	VideoCodec      string                  `json:"video_codec,omitempty" yaml:"video_codec,omitempty"`
	Resolution      string                  `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	AudioCodec      string                  `json:"audio_codec,omitempty" yaml:"audio_codec,omitempty"`
	Estimate        *models.SizeEstimate    `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Command         string                  `json:"command,omitempty" yaml:"command,omitempty"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Summary snapshots the batch. Stats are zero for an empty batch.
func (c *Coordinator) Summary() Summary {
	entries := c.Entries()
	stats, _ := aggregate(entries)

	s := Summary{
		BatchID:     c.id,
		Profile:     c.Selector().ID,
		GeneratedAt: c.opts.Now().UTC(),
		Stats:       stats,
		Files:       make([]FileSummary, 0, len(entries)),
	}
	for _, e := range entries {
		fs := FileSummary{ID: e.ID, Filename: e.Name(), Elapsed: e.Elapsed.Round(time.Millisecond).String()}
		if e.Failed() {
			fs.Error = e.Err.Error()
			s.Files = append(s.Files, fs)
			continue
		}
		est := e.Estimate
		fs.Source = e.Metadata.Source
		fs.VideoCodec = e.Metadata.Video.Codec
		fs.Resolution = e.Metadata.Video.Resolution
		fs.AudioCodec = e.Metadata.Audio.Codec
		fs.Estimate = &est
		fs.Command = e.Engine.GenerateCommand().String()
		fs.Recommendations = e.Engine.GenerateRecommendations()
		s.Files = append(s.Files, fs)
	}
	return s
}

// YAML encodes the summary as YAML.
func (s Summary) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return data, nil
}

// JSON encodes the summary as indented JSON.
func (s Summary) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return data, nil
}
