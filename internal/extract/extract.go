// Package extract turns transcript text into structured sales artifacts by
// calling an LLM, repairing its output against a schema, and falling back to
// a fixed sample artifact when anything goes wrong.
package extract

import (
	"context"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/resilience"
	"github.com/sells-group/call-intel/pkg/anthropic"
)

//go:embed prompts/*.txt
var promptFS embed.FS

const (
	salesPromptFile = "sales_data_pt.txt"
	callPromptFile  = "call_analysis_pt.txt"

	salesSystem = "You are an expert sales analyst."
	callSystem  = "You are an expert sales call analyzer."

	transcriptHeader = "\n\nTranscrição:\n"

	// talkRatioTolerance is how far from 100 a populated talk ratio may drift
	// before it is rescaled.
	talkRatioTolerance = 5.0
)

var (
	// ErrEmptyTranscript means there was no text to extract from.
	ErrEmptyTranscript = eris.New("extract: empty transcript")
	// ErrPromptUnavailable means the prompt template could not be loaded.
	ErrPromptUnavailable = eris.New("extract: prompt template unavailable")
	// ErrNoClient means no LLM client is configured.
	ErrNoClient = eris.New("extract: no llm client configured")
)

// Config controls the LLM call made for each artifact.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	// PromptDir overrides the embedded prompt templates when set.
	PromptDir string
	Retry     resilience.Policy
	Breaker   resilience.BreakerConfig
}

// DefaultConfig returns the decoding parameters used for extraction.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-sonnet-4-5-20250929",
		Temperature: 0.2,
		MaxTokens:   2000,
		Retry:       resilience.DefaultPolicy(),
	}
}

// Result is an extracted artifact together with how it was produced. Value
// is always a complete artifact; Err records why a fallback was used.
type Result[T any] struct {
	Value   T
	Quality model.ArtifactQuality
	Err     error
}

// Degraded reports whether the fallback artifact was used.
func (r Result[T]) Degraded() bool {
	return r.Err != nil
}

// withDefault resolves an attempt into a Result, substituting the fallback
// artifact when the attempt failed.
func withDefault[T any](value T, quality model.ArtifactQuality, err error, fallback func() T) Result[T] {
	if err != nil {
		return Result[T]{Value: fallback(), Quality: model.QualityDefault, Err: err}
	}
	return Result[T]{Value: value, Quality: quality}
}

// artifact describes how to extract one artifact type.
type artifact[T any] struct {
	name   string
	system string
	prompt string
	schema *artifactSchema
	sample func() T
	finish func(*T)
}

// Extractor produces SalesData and CallAnalysis artifacts from transcripts.
// It never returns an error; failures resolve to sample artifacts.
type Extractor struct {
	client  anthropic.Client
	cfg     Config
	breaker *resilience.Breaker

	sales artifact[model.SalesData]
	call  artifact[model.CallAnalysis]
}

// New creates an Extractor. Prompt templates come from cfg.PromptDir when set
// and from the embedded defaults otherwise. A template that fails to load is
// logged and left empty, which makes that artifact resolve to its sample.
func New(client anthropic.Client, cfg Config) *Extractor {
	d := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = d.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	if cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = resilience.LogRetry("anthropic", "extract")
	}

	e := &Extractor{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewBreaker("anthropic", cfg.Breaker),
	}
	e.sales = artifact[model.SalesData]{
		name:   "sales_data",
		system: salesSystem,
		prompt: loadPrompt(cfg.PromptDir, salesPromptFile),
		schema: mustLoadSchema("sales_data"),
		sample: SampleSalesData,
		finish: func(s *model.SalesData) { s.Normalize() },
	}
	e.call = artifact[model.CallAnalysis]{
		name:   "call_analysis",
		system: callSystem,
		prompt: loadPrompt(cfg.PromptDir, callPromptFile),
		schema: mustLoadSchema("call_analysis"),
		sample: SampleCallAnalysis,
		finish: func(c *model.CallAnalysis) {
			c.Normalize()
			c.BalanceTalkRatio(talkRatioTolerance)
		},
	}
	return e
}

// SetPrompts replaces both prompt templates. An empty template makes that
// artifact resolve to its sample.
func (e *Extractor) SetPrompts(salesPrompt, callPrompt string) {
	e.sales.prompt = salesPrompt
	e.call.prompt = callPrompt
}

// SalesData extracts the sales signals of a transcript.
func (e *Extractor) SalesData(ctx context.Context, text string) Result[model.SalesData] {
	return run(ctx, e, e.sales, text)
}

// CallAnalysis extracts the conversation analysis of a transcript.
func (e *Extractor) CallAnalysis(ctx context.Context, text string) Result[model.CallAnalysis] {
	return run(ctx, e, e.call, text)
}

func run[T any](ctx context.Context, e *Extractor, a artifact[T], text string) Result[T] {
	log := zap.L().With(zap.String("artifact", a.name))

	var res Result[T]
	switch {
	case strings.TrimSpace(text) == "":
		res = withDefault(*new(T), "", ErrEmptyTranscript, a.sample)
	case a.prompt == "":
		res = withDefault(*new(T), "", ErrPromptUnavailable, a.sample)
	case e.client == nil:
		res = withDefault(*new(T), "", ErrNoClient, a.sample)
	default:
		value, quality, err := attempt(ctx, e, a, text)
		res = withDefault(value, quality, err, a.sample)
	}
	a.finish(&res.Value)

	if res.Err != nil {
		log.Warn("extract: using sample artifact", zap.Error(res.Err))
	} else {
		log.Debug("extract: artifact ready", zap.String("quality", string(res.Quality)))
	}
	return res
}

// attempt performs the LLM call and post-processing for one artifact.
func attempt[T any](ctx context.Context, e *Extractor, a artifact[T], text string) (T, model.ArtifactQuality, error) {
	var zero T

	req := anthropic.MessageRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		System:      []anthropic.SystemBlock{{Text: a.system}},
		Messages:    []anthropic.Message{{Role: "user", Content: a.prompt + transcriptHeader + text}},
		Temperature: anthropic.Float(e.cfg.Temperature),
	}

	resp, err := resilience.Call(ctx, e.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.Retry(ctx, e.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return e.client.CreateMessage(ctx, req)
		})
	})
	if err != nil {
		return zero, "", eris.Wrapf(err, "extract: %s completion", a.name)
	}
	if resp == nil {
		return zero, "", eris.Errorf("extract: %s completion returned no response", a.name)
	}
	resp.Usage.LogCost(e.cfg.Model, a.name)

	doc, err := parseObject(resp.Text())
	if err != nil {
		return zero, "", eris.Wrapf(err, "extract: %s", a.name)
	}

	quality := model.QualityOK
	if filled := a.schema.repair(doc); len(filled) > 0 {
		zap.L().Info("extract: repaired missing fields",
			zap.String("artifact", a.name),
			zap.Strings("fields", filled),
		)
		quality = model.QualityRepaired
	}

	if err := a.schema.validate(doc); err != nil {
		return zero, "", err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, "", eris.Wrapf(err, "extract: %s re-encode", a.name)
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, "", eris.Wrapf(err, "extract: %s decode", a.name)
	}
	return value, quality, nil
}

// loadPrompt reads a prompt template from dir, or from the embedded set when
// dir is empty. Failures are logged and yield "".
func loadPrompt(dir, file string) string {
	var (
		b   []byte
		err error
	)
	if dir != "" {
		b, err = os.ReadFile(filepath.Join(dir, file))
	} else {
		b, err = promptFS.ReadFile("prompts/" + file)
	}
	if err != nil {
		zap.L().Warn("extract: prompt template failed to load",
			zap.String("file", file),
			zap.String("dir", dir),
			zap.Error(err),
		)
		return ""
	}
	return strings.TrimSpace(string(b))
}
