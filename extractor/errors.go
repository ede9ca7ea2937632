package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrProbeUnavailable means the precise-analysis capability is not ready.
	// It never reaches Analyze callers; the extractor falls back instead.
	ErrProbeUnavailable = errors.New("precise analysis capability unavailable")

	// ErrTimeout means the header probe produced nothing within its deadline.
	ErrTimeout = errors.New("metadata probe timed out")

	// ErrReadFailure means the file could not be read.
	ErrReadFailure = errors.New("metadata probe could not read file")
)

// ExtractionError is returned by Analyze when no strategy could describe a file.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract metadata from %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
