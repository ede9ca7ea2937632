package extractor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mediaopt/ffprobe"
)

// Defaults for capability polling.
const (
	DefaultAttempts = 5
	DefaultDelay    = 100 * time.Millisecond
)

// StrategyKind tags the extraction strategy in use.
type StrategyKind int

const (
	Heuristic StrategyKind = iota
	Precise
)

func (k StrategyKind) String() string {
	switch k {
	case Precise:
		return "precise"
	default:
		return "heuristic"
	}
}

// Strategy is the extraction strategy selected for the process. Capability
// is nil for Heuristic.
type Strategy struct {
	Kind       StrategyKind
	Capability Capability
}

// HeuristicStrategy returns the strategy that never uses a capability.
func HeuristicStrategy() Strategy {
	return Strategy{Kind: Heuristic}
}

// PreciseStrategy wraps a ready capability.
func PreciseStrategy(c Capability) Strategy {
	return Strategy{Kind: Precise, Capability: c}
}

// Loader attempts to obtain the precise-analysis capability. Returning an
// error wrapping ErrProbeUnavailable means "not ready yet, poll again"; any
// other error is a fault and ends polling.
type Loader func(ctx context.Context) (Capability, error)

// InitOptions controls SelectStrategy.
type InitOptions struct {
	Attempts int
	Delay    time.Duration
	Loader   Loader // defaults to FFprobeLoader("")
	Logger   zerolog.Logger
}

var (
	strategyMu     sync.Mutex
	cachedStrategy *Strategy
)

// SelectStrategy returns the process-wide extraction strategy, selecting it
// on first use by polling opts.Loader. Later calls return the cached result
// regardless of opts until ResetStrategy is called.
func SelectStrategy(ctx context.Context, opts InitOptions) Strategy {
	strategyMu.Lock()
	defer strategyMu.Unlock()

	if cachedStrategy != nil {
		return *cachedStrategy
	}

	s, final := pollCapability(ctx, opts)
	if final {
		cachedStrategy = &s
	}
	return s
}

// ResetStrategy drops the cached strategy so the next SelectStrategy call
// probes again.
func ResetStrategy() {
	strategyMu.Lock()
	defer strategyMu.Unlock()
	cachedStrategy = nil
}

// pollCapability reports whether the outcome should be cached. A cancelled
// context yields Heuristic without caching it.
func pollCapability(ctx context.Context, opts InitOptions) (Strategy, bool) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	loader := opts.Loader
	if loader == nil {
		loader = FFprobeLoader("")
	}
	logger := opts.Logger

	for attempt := 1; attempt <= attempts; attempt++ {
		c, err := loader(ctx)
		if err == nil && c != nil {
			logger.Debug().Int("attempt", attempt).Msg("precise analysis capability ready")
			return PreciseStrategy(c), true
		}
		if err != nil && !errors.Is(err, ErrProbeUnavailable) {
			logger.Warn().Err(err).Msg("precise analysis capability failed to initialize, using heuristics")
			return HeuristicStrategy(), true
		}

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return HeuristicStrategy(), false
		case <-time.After(delay):
		}
	}

	logger.Warn().Int("attempts", attempts).Msg("precise analysis capability unavailable, using heuristics")
	return HeuristicStrategy(), true
}

// FFprobeLoader locates binary (default "ffprobe") on PATH.
func FFprobeLoader(binary string) Loader {
	if binary == "" {
		binary = ffprobe.DefaultBinary
	}
	return func(ctx context.Context) (Capability, error) {
		path, err := exec.LookPath(binary)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProbeUnavailable, err)
		}
		return NewFFprobeCapability(path), nil
	}
}
