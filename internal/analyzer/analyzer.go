package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"video-analyzer/internal/metrics"
	"video-analyzer/internal/types"
	"video-analyzer/log"
)

const (
	StageSummary = "summary"
	StageThemes  = "themes"
)

// StageError is a failure of a single pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// PipelineError lists every stage that failed during one Analyze call. The
// analysis returned alongside it still holds the results of the other stages.
type PipelineError struct {
	Stages []*StageError
}

func (e *PipelineError) Error() string {
	msgs := make([]string, 0, len(e.Stages))
	for _, s := range e.Stages {
		msgs = append(msgs, s.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *PipelineError) Unwrap() []error {
	errs := make([]error, 0, len(e.Stages))
	for _, s := range e.Stages {
		errs = append(errs, s)
	}
	return errs
}

// Failed reports whether the named stage is among the failures.
func (e *PipelineError) Failed(stage string) bool {
	for _, s := range e.Stages {
		if s.Stage == stage {
			return true
		}
	}
	return false
}

// Analyzer turns a transcript into a VideoAnalysis. It is safe for concurrent
// use as long as the engine is.
type Analyzer struct {
	engine  types.ChatCompleter
	opts    Options
	metrics *metrics.PipelineMetrics
}

type Option func(*Analyzer)

func WithMetrics(m *metrics.PipelineMetrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

func New(engine types.ChatCompleter, opts Options, options ...Option) *Analyzer {
	a := &Analyzer{
		engine: engine,
		opts:   opts.normalized(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *Analyzer) Options() Options {
	return a.opts
}

// Analyze runs the four stages over the transcript and assembles the report.
// Stages do not depend on each other: when summary or themes fail the record
// is still returned, with the failed fields left empty, together with a
// *PipelineError naming them.
func (a *Analyzer) Analyze(ctx context.Context, entries []types.TranscriptEntry, metadata types.VideoMetadata) (*types.VideoAnalysis, error) {
	transcript, minutes := NormalizeTranscript(entries)
	wordCount := a.opts.WordCountFor(minutes)
	logger := log.GetLogger().With(zap.String("video_id", metadata.VideoId))
	logger.Info("analysis started",
		zap.Int("entries", len(entries)),
		zap.Float64("duration_minutes", minutes),
		zap.String("word_count", wordCount))

	var (
		summary    string
		timestamps []types.TimestampSample
		themes     []string
		breakdown  types.ContentBreakdown
		summaryErr error
		themesErr  error
	)

	stages := []func(){
		func() {
			summary, summaryErr = a.GenerateSummary(ctx, transcript, wordCount)
		},
		func() {
			timestamps = ExtractKeyTimestamps(transcript)
		},
		func() {
			themes, themesErr = a.IdentifyThemes(ctx, transcript)
		},
		func() {
			var tier Tier
			breakdown, tier = a.CreateContentBreakdown(ctx, transcript)
			logger.Debug("breakdown stage done", zap.String("tier", string(tier)))
		},
	}

	if a.opts.ParallelStages {
		var g errgroup.Group
		for _, stage := range stages {
			g.Go(func() error {
				stage()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, stage := range stages {
			stage()
		}
	}

	if themes == nil {
		themes = []string{}
	}

	duration := metadata.Duration
	if (duration == "" || duration == types.UnknownDuration) && minutes > 0 {
		duration = fmt.Sprintf("%.1f minutes", minutes)
	}
	title := metadata.Title
	if title == "" {
		title = "Unknown"
	}

	analysis := &types.VideoAnalysis{
		Title:            title,
		Duration:         duration,
		Summary:          summary,
		KeyTimestamps:    timestamps,
		Themes:           themes,
		ContentBreakdown: breakdown,
		SummaryTarget:    wordCount,
	}

	var failures []*StageError
	if summaryErr != nil {
		failures = append(failures, &StageError{Stage: StageSummary, Err: summaryErr})
	}
	if themesErr != nil {
		failures = append(failures, &StageError{Stage: StageThemes, Err: themesErr})
	}
	if len(failures) == 0 {
		logger.Info("analysis finished",
			zap.Int("summary_words", countWords(summary)),
			zap.Int("timestamps", len(timestamps)),
			zap.Int("themes", len(themes)))
		return analysis, nil
	}

	for _, f := range failures {
		a.metrics.ObserveStageFailure(f.Stage)
		logger.Error("analysis stage failed", zap.String("stage", f.Stage), zap.Error(f.Err))
	}
	return analysis, &PipelineError{Stages: failures}
}

// AsPipelineError unwraps err into a *PipelineError if it is one.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
