package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/config"
	"github.com/sells-group/call-intel/internal/enrich"
	"github.com/sells-group/call-intel/internal/extract"
	"github.com/sells-group/call-intel/internal/pipeline"
	"github.com/sells-group/call-intel/internal/report"
	"github.com/sells-group/call-intel/internal/resilience"
	"github.com/sells-group/call-intel/internal/store"
	anthropicpkg "github.com/sells-group/call-intel/pkg/anthropic"
)

// appEnv holds the store, clients and services the commands share.
type appEnv struct {
	Store     store.Store
	Anthropic anthropicpkg.Client // nil without an API key
	Pipeline  *pipeline.Pipeline
	Gatherer  *enrich.Gatherer
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "sqlite":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "call-intel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.Pool.MaxConns,
			MinConns: c.Store.Pool.MinConns,
		})
	case "supabase":
		return store.NewSupabase(store.SupabaseConfig{
			URL:    c.Supabase.URL,
			Key:    c.Supabase.Key,
			Schema: c.Supabase.Schema,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}

// initAnthropic returns nil when no API key is configured, which makes
// extraction and reports fall back to their deterministic outputs.
func initAnthropic(c *config.Config) anthropicpkg.Client {
	if c.Anthropic.Key == "" {
		zap.L().Warn("anthropic key not configured, using sample artifacts and template reports")
		return nil
	}
	opts := []anthropicpkg.Option{
		anthropicpkg.WithTimeout(time.Duration(c.Anthropic.TimeoutSecs) * time.Second),
		anthropicpkg.WithRateLimit(c.Anthropic.RequestsPerSecond),
	}
	if c.Anthropic.BaseURL != "" {
		opts = append(opts, anthropicpkg.WithBaseURL(c.Anthropic.BaseURL))
	}
	return anthropicpkg.NewClient(c.Anthropic.Key, opts...)
}

func retryPolicy(c *config.Config) resilience.Policy {
	return resilience.Policy{
		Attempts:       c.Extraction.Retry.Attempts,
		InitialBackoff: time.Duration(c.Extraction.Retry.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(c.Extraction.Retry.MaxBackoffMs) * time.Millisecond,
	}
}

func breakerConfig(c *config.Config) resilience.BreakerConfig {
	return resilience.BreakerConfig{
		FailureThreshold: c.Extraction.Circuit.FailureThreshold,
		Cooldown:         c.Extraction.Circuit.Cooldown(),
	}
}

// buildEnv wires the services over an opened store.
func buildEnv(c *config.Config, st store.Store, client anthropicpkg.Client) *appEnv {
	ex := extract.New(client, extract.Config{
		Model:       c.Anthropic.ExtractionModel,
		Temperature: c.Extraction.Temperature,
		MaxTokens:   c.Extraction.MaxTokens,
		PromptDir:   c.Extraction.PromptDir,
		Retry:       retryPolicy(c),
		Breaker:     breakerConfig(c),
	})
	return &appEnv{
		Store:     st,
		Anthropic: client,
		Pipeline:  pipeline.New(st, ex, pipeline.Config{Dedupe: c.Pipeline.Dedupe}),
		Gatherer:  enrich.NewGatherer(st),
	}
}

// initPipeline opens and migrates the store and builds the services.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*appEnv, error) {
	st, err := initStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return buildEnv(cfg, st, initAnthropic(cfg)), nil
}

// newGenerator builds the report generator for env.
func newGenerator(c *config.Config, env *appEnv) (*report.Generator, error) {
	settings, err := report.LoadSettings(c.Report.SettingsPath)
	if err != nil {
		return nil, err
	}
	return report.NewGenerator(env.Store, env.Pipeline, env.Gatherer, env.Anthropic, settings, report.Config{
		Model:      c.Anthropic.ReportModel,
		PromptPath: c.Report.PromptPath,
		CacheTTL:   c.Report.CacheTTL,
		Retry:      retryPolicy(c),
		Breaker:    breakerConfig(c),
	}), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(v), "encode output")
}
