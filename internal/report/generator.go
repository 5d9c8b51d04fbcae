package report

import (
	"context"
	_ "embed"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/enrich"
	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/pipeline"
	"github.com/sells-group/call-intel/internal/resilience"
	"github.com/sells-group/call-intel/pkg/anthropic"
)

//go:embed prompts/sales_report_pt.txt
var defaultPrompt string

// Source tells how a report was produced.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceTemplate Source = "template"
)

// Report is a generated sales intelligence report in Markdown.
type Report struct {
	TranscriptID string                  `json:"transcript_id"`
	Markdown     string                  `json:"markdown"`
	Source       Source                  `json:"source"`
	Quality      model.ExtractionQuality `json:"quality"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// Analyzer runs the analysis pipeline for a transcript.
type Analyzer interface {
	Run(ctx context.Context, transcriptID string) *model.AnalysisResult
}

// Transcripts loads transcripts by id.
type Transcripts interface {
	GetTranscript(ctx context.Context, id string) (*model.Transcript, error)
}

// Enricher gathers the enrichment data attached to a transcript.
type Enricher interface {
	Gather(ctx context.Context, transcriptID string) enrich.Bundle
}

// Config controls report generation.
type Config struct {
	Model string `yaml:"model" mapstructure:"model"`
	// PromptPath overrides the embedded system prompt when set.
	PromptPath string `yaml:"prompt_path" mapstructure:"prompt_path"`
	// CacheTTL is the prompt-cache TTL of the system prompt ("5m" or "1h").
	CacheTTL string                   `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	Retry    resilience.Policy        `yaml:"-" mapstructure:"-"`
	Breaker  resilience.BreakerConfig `yaml:"-" mapstructure:"-"`
}

// Generator produces sales intelligence reports.
type Generator struct {
	transcripts Transcripts
	analyzer    Analyzer
	enricher    Enricher
	client      anthropic.Client
	settings    *Settings
	cfg         Config
	prompt      string
	breaker     *resilience.Breaker
	now         func() time.Time
}

// NewGenerator creates a Generator. A nil client makes every report use the
// template; nil settings use the embedded ones.
func NewGenerator(tr Transcripts, an Analyzer, en Enricher, client anthropic.Client, settings *Settings, cfg Config) *Generator {
	if settings == nil {
		settings = DefaultSettings()
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = resilience.LogRetry("anthropic", "report")
	}
	return &Generator{
		transcripts: tr,
		analyzer:    an,
		enricher:    en,
		client:      client,
		settings:    settings,
		cfg:         cfg,
		prompt:      loadPrompt(cfg.PromptPath),
		breaker:     resilience.NewBreaker("anthropic-report", cfg.Breaker),
		now:         time.Now,
	}
}

func loadPrompt(path string) string {
	if path == "" {
		return defaultPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil || strings.TrimSpace(string(data)) == "" {
		zap.L().Warn("report: prompt unavailable, using embedded prompt",
			zap.String("path", path), zap.Error(err))
		return defaultPrompt
	}
	return string(data)
}

// Generate builds the report for a transcript. Only a missing transcript or
// a failed lookup is an error; LLM failures fall back to the template.
func (g *Generator) Generate(ctx context.Context, transcriptID string) (*Report, error) {
	log := zap.L().With(zap.String("transcript_id", transcriptID))

	t, err := g.transcripts.GetTranscript(ctx, transcriptID)
	if err != nil {
		return nil, eris.Wrapf(err, "report: load transcript %s", transcriptID)
	}
	if t == nil {
		return nil, eris.Wrapf(pipeline.ErrTranscriptNotFound, "transcript %s", transcriptID)
	}

	analysis := g.analyzer.Run(ctx, transcriptID)
	bundle := g.enricher.Gather(ctx, transcriptID)

	rep := &Report{
		TranscriptID: transcriptID,
		Quality:      analysis.Quality,
	}

	text, err := g.complete(ctx, ContextInput{
		TranscriptText: t.Text,
		Sales:          analysis.SalesData,
		Profiles:       bundle.Profiles,
		Company:        bundle.Company,
		Settings:       g.settings,
	})
	switch {
	case err != nil:
		log.Warn("report: llm unavailable, using template", zap.Error(err))
	case text == "":
		log.Warn("report: llm returned no content, using template")
	}

	if err != nil || text == "" {
		rep.Markdown = FormatFallback(analysis.SalesData, bundle.Profiles, bundle.Company)
		rep.Source = SourceTemplate
	} else {
		rep.Markdown = text
		rep.Source = SourceLLM
	}
	rep.GeneratedAt = g.now().UTC()

	log.Info("report: generated",
		zap.String("source", string(rep.Source)),
		zap.Int("profiles", len(bundle.Profiles)),
		zap.Bool("company", bundle.Company != nil),
		zap.Bool("degraded", rep.Quality.Degraded()),
	)
	return rep, nil
}

func (g *Generator) complete(ctx context.Context, in ContextInput) (string, error) {
	if g.client == nil {
		return "", eris.New("report: no llm client configured")
	}

	gen := g.settings.Generation
	req := anthropic.MessageRequest{
		Model:       g.cfg.Model,
		MaxTokens:   gen.MaxTokens,
		System:      anthropic.BuildCachedSystemBlocks(g.prompt, g.cfg.CacheTTL),
		Messages:    []anthropic.Message{{Role: "user", Content: BuildContext(in)}},
		Temperature: anthropic.Float(gen.Temperature),
	}

	resp, err := resilience.Call(ctx, g.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.Retry(ctx, g.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return g.client.CreateMessage(ctx, req)
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "report: completion")
	}
	if resp == nil {
		return "", nil
	}
	resp.Usage.LogCost(g.cfg.Model, "report")
	return StripFences(resp.Text()), nil
}

// StripFences removes Markdown code fences wrapped around a model answer.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, fence := range []string{"```markdown", "```md", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	return strings.TrimSpace(s)
}
