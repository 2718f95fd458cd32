package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"callscribe/internal/logging"
	"callscribe/internal/records"
	"callscribe/internal/summary"
	"callscribe/internal/topics"
)

// Stage names a batch pipeline.
type Stage string

const (
	StageSummarize Stage = "summarize"
	StageClassify  Stage = "classify"
	StageRun       Stage = "run"
)

// Summarizer produces one summary per transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) summary.Outcome
}

// Classifier assigns topics to one summary.
type Classifier interface {
	Classify(ctx context.Context, summaryText string) topics.Outcome
}

// Runner executes a stage over a frame.
type Runner struct {
	summarizer    Summarizer
	classifier    Classifier
	concurrency   int
	progressEvery int
	logger        *slog.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of rows in flight. Values below 1 run
// sequentially.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// WithProgressEvery logs progress every n completed rows.
func WithProgressEvery(n int) Option {
	return func(r *Runner) {
		r.progressEvery = n
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a runner. Either stage may be nil when the caller never
// runs it.
func NewRunner(summarizer Summarizer, classifier Classifier, opts ...Option) *Runner {
	r := &Runner{
		summarizer:  summarizer,
		classifier:  classifier,
		concurrency: 1,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "batch")
	return r
}

type rowResult struct {
	summary summary.Outcome
	topics  topics.Outcome
}

// Summarize fills the summary column for every row of a summary frame.
func (r *Runner) Summarize(ctx context.Context, frame *records.Frame) (*records.Table, Stats, error) {
	if r.summarizer == nil {
		return nil, Stats{}, errors.New("batch summarize: no summarizer configured")
	}
	results, err := r.process(ctx, StageSummarize, frame.Len(), func(ctx context.Context, i int) rowResult {
		return rowResult{summary: r.summarizer.Summarize(ctx, frame.Texts[i])}
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(results)}
	out := frame.Extend([]string{records.SummaryColumn}, func(i int) []string {
		stats.addSummary(results[i].summary.Status)
		return []string{results[i].summary.Text}
	})
	return out, stats, nil
}

// Classify appends the six topic columns to every row of a classification
// frame.
func (r *Runner) Classify(ctx context.Context, frame *records.Frame) (*records.Table, Stats, error) {
	if r.classifier == nil {
		return nil, Stats{}, errors.New("batch classify: no classifier configured")
	}
	results, err := r.process(ctx, StageClassify, frame.Len(), func(ctx context.Context, i int) rowResult {
		return rowResult{topics: r.classifier.Classify(ctx, frame.Texts[i])}
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(results)}
	out := frame.Extend(records.TopicColumns, func(i int) []string {
		stats.addTopics(results[i].topics.Status)
		return topicCells(results[i].topics.Result)
	})
	return out, stats, nil
}

// Run summarizes each transcript and classifies the fresh summary in the
// same row pass.
func (r *Runner) Run(ctx context.Context, frame *records.Frame) (*records.Table, Stats, error) {
	if r.summarizer == nil || r.classifier == nil {
		return nil, Stats{}, errors.New("batch run: summarizer and classifier required")
	}
	results, err := r.process(ctx, StageRun, frame.Len(), func(ctx context.Context, i int) rowResult {
		s := r.summarizer.Summarize(ctx, frame.Texts[i])
		return rowResult{summary: s, topics: r.classifier.Classify(ctx, s.Text)}
	})
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Rows: len(results)}
	extra := append([]string{records.SummaryColumn}, records.TopicColumns...)
	out := frame.Extend(extra, func(i int) []string {
		stats.addSummary(results[i].summary.Status)
		stats.addTopics(results[i].topics.Status)
		return append([]string{results[i].summary.Text}, topicCells(results[i].topics.Result)...)
	})
	return out, stats, nil
}

func (r *Runner) process(ctx context.Context, stage Stage, total int, work func(context.Context, int) rowResult) ([]rowResult, error) {
	logger := logging.WithContext(ctx, r.logger)
	results := make([]rowResult, total)
	sampler := logging.NewProgressSampler(r.progressEvery)
	start := time.Now()
	var completed atomic.Int64

	logger.Info("batch started",
		logging.String("stage", string(stage)),
		logging.Int("rows", total),
		logging.Int("concurrency", r.concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = work(logging.WithRow(gctx, i+1), i)
			done := int(completed.Add(1))
			if sampler.ShouldLog(done, total) {
				logger.Info("batch progress",
					logging.String("stage", string(stage)),
					logging.Int("done", done),
					logging.Int("total", total),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", stage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch %s: %w", stage, err)
	}

	logger.Info("batch finished",
		logging.String("stage", string(stage)),
		logging.Int("rows", total),
		logging.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func topicCells(result topics.Result) []string {
	cells := make([]string, 0, 2*topics.Slots)
	for slot := 0; slot < topics.Slots; slot++ {
		cells = append(cells, result.Subcategories[slot], result.MainCategories[slot])
	}
	return cells
}
