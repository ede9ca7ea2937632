// Package batch applies metadata extraction and the recommendation engine to
// a set of files, keeps the results consistent under profile changes and
// renders batch export artifacts.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediaopt/codecdb"
	"mediaopt/extractor"
	"mediaopt/internal/logging"
	"mediaopt/models"
	"mediaopt/optimizer"
	"mediaopt/orchestrator"
)

// ErrEmptyBatch is returned by AggregateStats when there are no original
// bytes to compare against.
var ErrEmptyBatch = errors.New("batch has no analyzed files")

// Analyzer extracts metadata from one file. *extractor.Extractor implements it.
type Analyzer interface {
	Analyze(ctx context.Context, in extractor.Input) (*models.MediaMetadata, error)
}

// Factory returns a fresh Analyzer. It is called once per file so that no
// two files share an analyzer.
type Factory func() Analyzer

// Entry is the analysis of one file under the current profile. Entries are
// replaced, never modified, when the profile changes.
type Entry struct {
	models.AnalysisResult

	ID       string
	File     extractor.Input
	Engine   *optimizer.Engine
	Estimate models.SizeEstimate
}

// Failed reports whether the file could not be analyzed.
func (e Entry) Failed() bool { return e.Err != nil }

// Name returns the file name of the entry.
func (e Entry) Name() string {
	if e.File != nil {
		return e.File.Name()
	}
	return e.Filename
}

// Options configures a Coordinator.
type Options struct {
	Factory  Factory
	Selector codecdb.Selector
	Workers  int

	// StrictMode aborts AddFiles on the first extraction failure instead of
	// recording a failed entry.
	StrictMode bool

	Logger   zerolog.Logger
	Progress models.ProgressCallback

	// EngineOptions are applied to every engine after the per-file input path.
	EngineOptions []optimizer.Option

	// Now stamps generated artifacts. Defaults to time.Now.
	Now func() time.Time
}

// Coordinator owns a batch of files.
type Coordinator struct {
	id   string
	opts Options

	mu       sync.RWMutex
	selector codecdb.Selector
	entries  []Entry
}

// NewCoordinator creates an empty batch. A nil Factory analyzes with the
// heuristic strategy.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Factory == nil {
		opts.Factory = func() Analyzer { return extractor.New(extractor.HeuristicStrategy()) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Selector.ID == "" {
		opts.Selector = codecdb.Selector{ID: codecdb.DefaultProfileID}
	}
	return &Coordinator{
		id:       uuid.NewString(),
		opts:     opts,
		selector: opts.Selector,
	}
}

// ID identifies the batch in logs and summaries.
func (c *Coordinator) ID() string { return c.id }

// Selector returns the active profile selector.
func (c *Coordinator) Selector() codecdb.Selector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selector
}

// Profile returns the active resolved profile.
func (c *Coordinator) Profile() codecdb.Profile {
	return codecdb.ResolveProfile(c.Selector())
}

// AddFiles replaces the batch with files and analyzes them. Entries keep the
// input order.
//
// In the default mode a file that fails extraction becomes a failed entry
// and AddFiles succeeds. In strict mode the first failure is returned and
// the previous batch is left untouched. A cancelled context always aborts.
func (c *Coordinator) AddFiles(ctx context.Context, files []extractor.Input) error {
	logger := c.opts.Logger.With().Str(logging.FieldBatchID, c.id).Logger()
	logger.Info().Int("files", len(files)).Msg("Analyzing batch")

	metas := make([]*models.MediaMetadata, len(files))
	results, err := orchestrator.Run(ctx, len(files), orchestrator.Options{
		Workers:     c.opts.Workers,
		StopOnError: c.opts.StrictMode,
		OnProgress:  c.opts.Progress,
		Label:       func(i int) string { return files[i].Name() },
	}, func(ctx context.Context, i int) error {
		meta, err := c.opts.Factory().Analyze(ctx, files[i])
		if err == nil && meta == nil {
			err = models.ErrNoMetadata
		}
		if err != nil {
			logger.Warn().Err(err).Str(logging.FieldFile, files[i].Name()).Msg("Extraction failed")
			return fmt.Errorf("analyze %s: %w", files[i].Name(), err)
		}
		metas[i] = meta
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, len(files))
	for i, f := range files {
		entries[i] = Entry{
			AnalysisResult: models.NewAnalysisResult(i, f.Name(), metas[i], results[i].Err, results[i].Duration),
			ID:             uuid.NewString(),
			File:           f,
		}
		if entries[i].OK() {
			entries[i] = c.bind(entries[i], c.selector)
		}
	}
	c.entries = entries

	stats := orchestrator.Summarize(results)
	logger.Info().
		Int("analyzed", stats.Completed).
		Int("failed", stats.Failed).
		Str(logging.FieldProfile, c.selector.ID).
		Msg("Batch analyzed")
	return nil
}

// ChangeProfile rebinds every entry to a new profile from its cached
// metadata. The entry list is swapped in one step, so readers see either
// the old or the new profile for all entries.
func (c *Coordinator) ChangeProfile(ctx context.Context, id string, isProfile bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sel := codecdb.Selector{ID: id, IsProfile: isProfile}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		entries[i] = e
		if e.OK() {
			entries[i] = c.bind(e, sel)
		}
	}
	c.selector = sel
	c.entries = entries

	c.opts.Logger.Debug().
		Str(logging.FieldBatchID, c.id).
		Str(logging.FieldProfile, id).
		Bool("is_profile", isProfile).
		Msg("Profile changed")
	return nil
}

// bind returns a copy of e with a new engine and estimate.
func (c *Coordinator) bind(e Entry, sel codecdb.Selector) Entry {
	opts := []optimizer.Option{
		optimizer.WithInputPath(inputPath(e.File, e.Metadata)),
		optimizer.WithLogger(c.opts.Logger),
	}
	opts = append(opts, c.opts.EngineOptions...)

	e.Engine = optimizer.New(e.Metadata, sel, opts...)
	e.Estimate = e.Engine.EstimateOutputSize()
	return e
}

func inputPath(f extractor.Input, meta *models.MediaMetadata) string {
	if p, ok := f.(interface{ Path() string }); ok && p.Path() != "" {
		return p.Path()
	}
	return meta.Filename
}

// Entries returns a snapshot of the batch.
func (c *Coordinator) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Stats aggregates the estimates of the analyzed entries.
type Stats struct {
	Count          int   `json:"count" yaml:"count"`
	Failed         int   `json:"failed" yaml:"failed"`
	TotalOriginal  int64 `json:"total_original" yaml:"total_original"`
	TotalOptimized int64 `json:"total_optimized" yaml:"total_optimized"`
	TotalSaved     int64 `json:"total_saved" yaml:"total_saved"`
	Percentage     int   `json:"percentage" yaml:"percentage"`
}

// AggregateStats sums the estimates of every analyzed entry. Failed entries
// are counted but contribute no bytes. ErrEmptyBatch is returned when the
// total original size is zero.
func (c *Coordinator) AggregateStats() (Stats, error) {
	return aggregate(c.Entries())
}

func aggregate(entries []Entry) (Stats, error) {
	var s Stats
	for _, e := range entries {
		if e.Failed() {
			s.Failed++
			continue
		}
		s.Count++
		s.TotalOriginal += e.Estimate.Original
		s.TotalOptimized += e.Estimate.Optimized
	}
	s.TotalSaved = s.TotalOriginal - s.TotalOptimized
	if s.TotalOriginal == 0 {
		return s, ErrEmptyBatch
	}
	s.Percentage = int(math.Round(float64(s.TotalSaved) / float64(s.TotalOriginal) * 100))
	return s, nil
}
