// Package pipeline runs the cached analysis of a transcript: cache check,
// transcript load, the two extraction stages and a best-effort persist.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/call-intel/internal/extract"
	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/store"
)

// ErrTranscriptNotFound is returned by CheckTranscript for unknown ids.
var ErrTranscriptNotFound = eris.New("pipeline: transcript not found")

// Extractor produces the two analysis artifacts from transcript text.
// *extract.Extractor implements it.
type Extractor interface {
	SalesData(ctx context.Context, text string) extract.Result[model.SalesData]
	CallAnalysis(ctx context.Context, text string) extract.Result[model.CallAnalysis]
}

// Config tunes the orchestrator.
type Config struct {
	// Dedupe collapses concurrent runs for the same transcript into one.
	Dedupe bool `yaml:"dedupe" mapstructure:"dedupe"`
}

// Pipeline orchestrates the analysis of a single transcript.
type Pipeline struct {
	store     store.Store
	extractor Extractor
	cfg       Config
	flights   singleflight.Group
}

// New creates a Pipeline over the given store and extractor.
func New(st store.Store, ex Extractor, cfg Config) *Pipeline {
	return &Pipeline{store: st, extractor: ex, cfg: cfg}
}

// Run returns the analysis for transcriptID, serving a cached record when one
// exists. It never fails: every dependency failure degrades to empty or
// default artifacts. Callers sharing a deduplicated run each get their own copy.
func (p *Pipeline) Run(ctx context.Context, transcriptID string) *model.AnalysisResult {
	if !p.cfg.Dedupe {
		res, _ := p.run(ctx, transcriptID)
		return res
	}

	ch := p.flights.DoChan(transcriptID, func() (any, error) {
		res, _ := p.run(context.WithoutCancel(ctx), transcriptID)
		return res, nil
	})

	select {
	case r := <-ch:
		if r.Shared {
			zap.L().Debug("pipeline: shared in-flight run", zap.String("transcript_id", transcriptID))
		}
		return r.Val.(*model.AnalysisResult).Clone()
	case <-ctx.Done():
		zap.L().Warn("pipeline: caller left before the run finished",
			zap.String("transcript_id", transcriptID),
			zap.Error(ctx.Err()),
		)
		return model.NewPipelineState(transcriptID).Result()
	}
}

// run walks the state machine once and returns the result with its trace.
func (p *Pipeline) run(ctx context.Context, transcriptID string) (*model.AnalysisResult, *model.PipelineState) {
	log := zap.L().With(zap.String("transcript_id", transcriptID))
	state := model.NewPipelineState(transcriptID)
	start := time.Now()

	var cached *model.CachedAnalysis
	p.trackState(log, state, model.StepCacheCheck, func() error {
		rec, err := p.store.GetCachedAnalysis(ctx, transcriptID)
		if err != nil {
			return eris.Wrap(err, "pipeline: cache lookup")
		}
		cached = rec
		return nil
	})
	if cached.HasArtifacts() {
		p.trackState(log, state, model.StepCacheHit, func() error { return nil })
		log.Info("pipeline: served from cache", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
		return model.ResultFromCache(cached), state
	}

	p.trackState(log, state, model.StepLoadTranscript, func() error {
		t, err := p.store.GetTranscript(ctx, transcriptID)
		if err != nil {
			return eris.Wrap(err, "pipeline: load transcript")
		}
		if t == nil {
			return ErrTranscriptNotFound
		}
		state.TranscriptText = t.Text
		if t.Language != "" {
			state.Language = t.Language
		}
		return nil
	})

	p.trackState(log, state, model.StepExtractSales, func() error {
		res := p.extractor.SalesData(ctx, state.TranscriptText)
		state.SalesData, state.Quality.SalesData = res.Value, res.Quality
		return res.Err
	})

	p.trackState(log, state, model.StepExtractCall, func() error {
		res := p.extractor.CallAnalysis(ctx, state.TranscriptText)
		state.CallAnalysis, state.Quality.CallAnalysis = res.Value, res.Quality
		return res.Err
	})

	result := state.Result()

	p.trackState(log, state, model.StepPersist, func() error {
		return p.store.PutCachedAnalysis(ctx, transcriptID, &result.SalesData, &result.CallAnalysis)
	})

	p.trackState(log, state, model.StepDone, func() error { return nil })
	log.Info("pipeline: analysis complete",
		zap.String("sales_quality", string(result.Quality.SalesData)),
		zap.String("call_quality", string(result.Quality.CallAnalysis)),
		zap.Bool("degraded", result.Quality.Degraded()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, state
}

// trackState runs one state of the machine in isolation. A returned error or
// a panic is logged and recorded in the trace; it never stops the run.
func (p *Pipeline) trackState(log *zap.Logger, state *model.PipelineState, step model.PipelineStep, fn func() error) {
	state.Step = step
	start := time.Now()
	err := isolate(step, fn)
	rec := model.StepRecord{Step: step, DurationMs: time.Since(start).Milliseconds()}

	if err != nil {
		rec.Err = err.Error()
		log.Warn("pipeline: state degraded",
			zap.String("state", string(step)),
			zap.Int64("duration_ms", rec.DurationMs),
			zap.Error(err),
		)
	} else {
		log.Debug("pipeline: state complete",
			zap.String("state", string(step)),
			zap.Int64("duration_ms", rec.DurationMs),
		)
	}
	state.Trace = append(state.Trace, rec)
}

// isolate converts a panic inside fn into an error.
func isolate(step model.PipelineStep, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("pipeline: %s panicked: %v", step, r)
		}
	}()
	return fn()
}

// CheckTranscript returns ErrTranscriptNotFound when no transcript has the
// given id.
func (p *Pipeline) CheckTranscript(ctx context.Context, transcriptID string) error {
	t, err := p.store.GetTranscript(ctx, transcriptID)
	if err != nil {
		return eris.Wrapf(err, "pipeline: check transcript %s", transcriptID)
	}
	if t == nil {
		return eris.Wrapf(ErrTranscriptNotFound, "transcript %s", transcriptID)
	}
	return nil
}

// UpdateAnalysis stores a manual override of either artifact. A nil artifact
// keeps the stored value. Later runs serve the override from cache.
func (p *Pipeline) UpdateAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error {
	if sales == nil && call == nil {
		return eris.New("pipeline: update needs sales data or call analysis")
	}
	if err := p.CheckTranscript(ctx, transcriptID); err != nil {
		return err
	}
	if sales != nil {
		sales.Normalize()
	}
	if call != nil {
		call.Normalize()
	}
	if err := p.store.PutCachedAnalysis(ctx, transcriptID, sales, call); err != nil {
		return eris.Wrapf(err, "pipeline: update analysis %s", transcriptID)
	}
	zap.L().Info("pipeline: analysis updated",
		zap.String("transcript_id", transcriptID),
		zap.Bool("sales_data", sales != nil),
		zap.Bool("call_analysis", call != nil),
	)
	return nil
}
