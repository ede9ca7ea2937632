package models

import (
	"errors"
	"time"
)

// ErrNoMetadata marks an analyzer that returned neither metadata nor an error.
var ErrNoMetadata = errors.New("analyzer returned no metadata")

// AnalysisResult is the extraction outcome of one file in a batch: either
// the metadata record or the error that prevented it.
type AnalysisResult struct {
	Index    int            `json:"index" yaml:"index"`
	Filename string         `json:"filename" yaml:"filename"`
	Metadata *MediaMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Err      error          `json:"-" yaml:"-"`
	Elapsed  time.Duration  `json:"elapsed" yaml:"elapsed"`
}

// NewAnalysisResult builds the outcome of analyzing filename at position
// index. An error always discards the record, and a nil record without an
// error fails with ErrNoMetadata.
func NewAnalysisResult(index int, filename string, meta *MediaMetadata, err error, elapsed time.Duration) AnalysisResult {
	r := AnalysisResult{Index: index, Filename: filename, Elapsed: elapsed}
	switch {
	case err != nil:
		r.Err = err
	case meta == nil:
		r.Err = ErrNoMetadata
	default:
		r.Metadata = meta
	}
	return r
}

// OK reports whether the file was analyzed.
func (r AnalysisResult) OK() bool { return r.Err == nil && r.Metadata != nil }
