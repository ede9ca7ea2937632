package extractor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func countingLoader(readyAfter int, capability Capability, fault error) (Loader, *int) {
	calls := 0
	return func(ctx context.Context) (Capability, error) {
		calls++
		if fault != nil {
			return nil, fault
		}
		if calls < readyAfter {
			return nil, fmt.Errorf("%w: not loaded yet", ErrProbeUnavailable)
		}
		return capability, nil
	}, &calls
}

func TestSelectStrategy_PollsUntilReady(t *testing.T) {
	ResetStrategy()
	t.Cleanup(ResetStrategy)

	capability := &fakeCapability{}
	loader, calls := countingLoader(3, capability, nil)
	s := SelectStrategy(context.Background(), InitOptions{Attempts: 5, Delay: time.Millisecond, Loader: loader})

	if s.Kind != Precise || s.Capability != capability {
		t.Errorf("Expected precise strategy, got %+v", s)
	}
	if *calls != 3 {
		t.Errorf("Expected 3 loader calls, got %d", *calls)
	}
}

func TestSelectStrategy_Cached(t *testing.T) {
	ResetStrategy()
	t.Cleanup(ResetStrategy)

	first, _ := countingLoader(1, &fakeCapability{}, nil)
	SelectStrategy(context.Background(), InitOptions{Attempts: 1, Loader: first})

	second, calls := countingLoader(1, nil, fmt.Errorf("boom"))
	s := SelectStrategy(context.Background(), InitOptions{Attempts: 1, Loader: second})
	if s.Kind != Precise {
		t.Errorf("Expected cached precise strategy, got %s", s.Kind)
	}
	if *calls != 0 {
		t.Errorf("Cached strategy should not poll again, got %d calls", *calls)
	}

	ResetStrategy()
	s = SelectStrategy(context.Background(), InitOptions{Attempts: 1, Loader: second})
	if s.Kind != Heuristic || *calls != 1 {
		t.Errorf("Expected re-probe after reset, got %s with %d calls", s.Kind, *calls)
	}
}

func TestSelectStrategy_Exhaustion(t *testing.T) {
	ResetStrategy()
	t.Cleanup(ResetStrategy)

	loader, calls := countingLoader(100, &fakeCapability{}, nil)
	s := SelectStrategy(context.Background(), InitOptions{Attempts: 4, Delay: time.Millisecond, Loader: loader})
	if s.Kind != Heuristic || s.Capability != nil {
		t.Errorf("Expected heuristic strategy, got %+v", s)
	}
	if *calls != 4 {
		t.Errorf("Expected 4 attempts, got %d", *calls)
	}
}

func TestSelectStrategy_LoaderFault(t *testing.T) {
	ResetStrategy()
	t.Cleanup(ResetStrategy)

	loader, calls := countingLoader(1, nil, fmt.Errorf("wasm init failed"))
	s := SelectStrategy(context.Background(), InitOptions{Attempts: 10, Delay: time.Millisecond, Loader: loader})
	if s.Kind != Heuristic {
		t.Errorf("Expected heuristic strategy, got %s", s.Kind)
	}
	if *calls != 1 {
		t.Errorf("A loader fault should stop polling, got %d calls", *calls)
	}
}

func TestSelectStrategy_CancelledNotCached(t *testing.T) {
	ResetStrategy()
	t.Cleanup(ResetStrategy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader, _ := countingLoader(2, &fakeCapability{}, nil)
	if s := SelectStrategy(ctx, InitOptions{Attempts: 3, Delay: time.Second, Loader: loader}); s.Kind != Heuristic {
		t.Errorf("Expected heuristic on cancelled context, got %s", s.Kind)
	}

	ready, _ := countingLoader(1, &fakeCapability{}, nil)
	if s := SelectStrategy(context.Background(), InitOptions{Attempts: 1, Loader: ready}); s.Kind != Precise {
		t.Errorf("Cancelled selection must not be cached, got %s", s.Kind)
	}
}

func TestFFprobeLoader_MissingBinary(t *testing.T) {
	loader := FFprobeLoader("definitely-not-a-real-ffprobe")
	_, err := loader(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing binary")
	}
	if !errors.Is(err, ErrProbeUnavailable) {
		t.Errorf("Expected ErrProbeUnavailable, got %v", err)
	}
}

func TestStrategyKindString(t *testing.T) {
	if Precise.String() != "precise" || Heuristic.String() != "heuristic" {
		t.Errorf("Unexpected names: %s / %s", Precise, Heuristic)
	}
}
