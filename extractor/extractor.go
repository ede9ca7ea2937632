// Package extractor turns media files into canonical models.MediaMetadata
// records, using a precise analyzer (ffprobe) when one is available and a
// go-mediainfo header probe plus filename heuristics otherwise.
package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mediaopt/internal/logging"
	"mediaopt/models"
)

// Extractor analyzes files with a fixed strategy. An Extractor is not meant
// to be shared between concurrent analyses; create one per file.
type Extractor struct {
	strategy Strategy
	timeout  time.Duration
	logger   zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout bounds the header probe of each file.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New returns an Extractor using strategy.
func New(strategy Strategy, opts ...Option) *Extractor {
	e := &Extractor{
		strategy: strategy,
		timeout:  DefaultProbeTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the strategy the extractor was built with.
func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// Analyze produces the metadata record for in.
//
// With a Precise strategy the capability is tried first; if it fails for
// this file the heuristic path is used instead. The returned error is always
// an *ExtractionError wrapping ErrTimeout, ErrReadFailure or the context
// error, and only occurs when no path could describe the file.
func (e *Extractor) Analyze(ctx context.Context, in Input) (*models.MediaMetadata, error) {
	logger := e.logger.With().
		Str(logging.FieldFile, in.Name()).
		Str(logging.FieldStrategy, e.strategy.Kind.String()).
		Logger()

	if e.strategy.Kind == Precise && e.strategy.Capability != nil {
		report, err := e.strategy.Capability.AnalyzeData(ctx, in)
		if err == nil {
			meta := metadataFromReport(in, report)
			if verr := meta.Validate(); verr != nil {
				logger.Warn().Err(verr).Msg("precise metadata inconsistent")
			}
			logger.Debug().Str("video", meta.Video.Codec).Str("audio", meta.Audio.Codec).Msg("precise analysis complete")
			return meta, nil
		}
		if ctx.Err() != nil {
			return nil, &ExtractionError{File: in.Name(), Err: ctx.Err()}
		}
		logger.Warn().Err(err).Msg("precise analysis failed, falling back to heuristics")
	}

	hdr, err := ProbeHeader(ctx, in, e.timeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			logger.Warn().Dur("timeout", e.timeout).Msg("header probe timed out")
		}
		return nil, &ExtractionError{File: in.Name(), Err: err}
	}

	meta := metadataFromHeader(in, hdr)
	logger.Debug().
		Str("source", meta.Source).
		Str("resolution", meta.Video.Resolution).
		Int("total_kbps", meta.TotalBitrate).
		Msg("heuristic analysis complete")
	return meta, nil
}
