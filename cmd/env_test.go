package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/call-intel/internal/config"
	"github.com/sells-group/call-intel/internal/enrich"
	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/pipeline"
	"github.com/sells-group/call-intel/internal/report"
	"github.com/sells-group/call-intel/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(t.TempDir(), "test.db")
	c.Anthropic.ExtractionModel = "claude-sonnet-4-5-20250929"
	c.Anthropic.ReportModel = "claude-sonnet-4-5-20250929"
	c.Anthropic.TimeoutSecs = 5
	c.Extraction.Temperature = 0.2
	c.Extraction.MaxTokens = 2000
	c.Extraction.Retry = config.RetryConfig{Attempts: 1, InitialBackoffMs: 1, MaxBackoffMs: 1}
	c.Extraction.Circuit = config.CircuitConfig{FailureThreshold: 5, CooldownSecs: 30}
	c.Report.CacheTTL = "5m"
	c.Pipeline.Dedupe = true
	return c
}

func openTestEnv(t *testing.T) (*config.Config, *appEnv) {
	t.Helper()
	c := testConfig(t)
	ctx := context.Background()

	st, err := initStore(ctx, c)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))

	env := buildEnv(c, st, initAnthropic(c))
	t.Cleanup(env.Close)
	return c, env
}

func TestInitStore(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		st, err := initStore(ctx, testConfig(t))
		require.NoError(t, err)
		defer st.Close()
		assert.IsType(t, &store.SQLiteStore{}, st)
	})

	t.Run("supabase missing credentials", func(t *testing.T) {
		c := testConfig(t)
		c.Store.Driver = "supabase"
		_, err := initStore(ctx, c)
		assert.Error(t, err)
	})

	t.Run("supabase", func(t *testing.T) {
		c := testConfig(t)
		c.Store.Driver = "supabase"
		c.Supabase = config.SupabaseConfig{URL: "https://abc.supabase.co", Key: "service-key"}
		st, err := initStore(ctx, c)
		require.NoError(t, err)
		assert.IsType(t, &store.SupabaseStore{}, st)
	})

	t.Run("unsupported", func(t *testing.T) {
		c := testConfig(t)
		c.Store.Driver = "mysql"
		_, err := initStore(ctx, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported store driver")
	})
}

func TestInitAnthropic(t *testing.T) {
	c := testConfig(t)
	assert.Nil(t, initAnthropic(c))

	c.Anthropic.Key = "sk-ant-test"
	c.Anthropic.RequestsPerSecond = 1
	assert.NotNil(t, initAnthropic(c))
}

func TestRetryAndBreakerFromConfig(t *testing.T) {
	c := testConfig(t)
	c.Extraction.Retry = config.RetryConfig{Attempts: 4, InitialBackoffMs: 250, MaxBackoffMs: 2000}

	p := retryPolicy(c)
	assert.Equal(t, 4, p.Attempts)
	assert.Equal(t, 250*time.Millisecond, p.InitialBackoff)
	assert.Equal(t, 2*time.Second, p.MaxBackoff)

	b := breakerConfig(c)
	assert.Equal(t, 5, b.FailureThreshold)
	assert.Equal(t, 30*time.Second, b.Cooldown)
}

// Without an API key every command still produces well-typed output.
func TestEnv_OfflineFlow(t *testing.T) {
	c, env := openTestEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "call.txt")
	require.NoError(t, os.WriteFile(path, []byte("Cliente: somos uma transportadora com frota de caminhão."), 0o644))
	tr, err := importTranscript(ctx, env.Store, path, transcriptImportOptions{ID: "call-1"})
	require.NoError(t, err)

	res := env.Pipeline.Run(ctx, tr.ID)
	assert.Equal(t, model.SourcePipeline, res.Source)
	assert.True(t, res.Quality.Degraded())

	again := env.Pipeline.Run(ctx, tr.ID)
	assert.Equal(t, model.SourceCache, again.Source)

	_, err = env.Gatherer.Import(ctx, enrich.ImportRequest{
		TranscriptID: tr.ID,
		Kind:         model.EnrichmentWebsite,
		URL:          "https://translog.com.br",
		Data:         []byte(`{"name":"TransLog","about":"Operador logístico"}`),
	})
	require.NoError(t, err)

	in, err := loadClientInputs(ctx, env, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, in.Bundle.Company)
	assert.Equal(t, "TransLog", in.Bundle.Company.Name)

	gen, err := newGenerator(c, env)
	require.NoError(t, err)
	rep, err := gen.Generate(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, report.SourceTemplate, rep.Source)
	assert.Contains(t, rep.Markdown, "**Nome:** TransLog")
}

func TestLoadClientInputs_NotFound(t *testing.T) {
	_, env := openTestEnv(t)
	_, err := loadClientInputs(context.Background(), env, "missing")
	assert.ErrorIs(t, err, pipeline.ErrTranscriptNotFound)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]string{"empresa": "Ação & Cia"}))
	assert.Equal(t, "{\n  \"empresa\": \"Ação & Cia\"\n}\n", buf.String())
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "sales.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"empresa":"Acme","dores":["custo"]}`), 0o644))

	var sales model.SalesData
	require.NoError(t, readJSONFile(good, &sales))
	assert.Equal(t, "Acme", sales.Empresa)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	assert.Error(t, readJSONFile(bad, &sales))
	assert.Error(t, readJSONFile(filepath.Join(dir, "missing.json"), &sales))
}
