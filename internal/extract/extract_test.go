package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/resilience"
	"github.com/sells-group/call-intel/pkg/anthropic"
	anthropicmocks "github.com/sells-group/call-intel/pkg/anthropic/mocks"
)

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:      "msg_test",
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = resilience.Policy{Attempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return cfg
}

func TestSalesData_EmptyTranscriptSkipsLLM(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	e := New(client, testConfig())

	for _, text := range []string{"", "   \n\t"} {
		res := e.SalesData(context.Background(), text)
		assert.ErrorIs(t, res.Err, ErrEmptyTranscript)
		assert.Equal(t, model.QualityDefault, res.Quality)
		assert.Equal(t, SampleSalesData(), res.Value)

		call := e.CallAnalysis(context.Background(), text)
		assert.ErrorIs(t, call.Err, ErrEmptyTranscript)
		assert.Equal(t, SampleCallAnalysis().Participants, call.Value.Participants)
	}
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestNoClientUsesSamples(t *testing.T) {
	e := New(nil, testConfig())

	res := e.SalesData(context.Background(), "Cliente: precisamos reduzir custos.")
	assert.ErrorIs(t, res.Err, ErrNoClient)
	assert.Equal(t, model.QualityDefault, res.Quality)
	assert.Equal(t, SampleSalesData(), res.Value)

	call := e.CallAnalysis(context.Background(), "Vendedor: bom dia.")
	assert.ErrorIs(t, call.Err, ErrNoClient)
	assert.True(t, call.Degraded())
}

func TestSalesData_EmptyObjectIsRepaired(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("{}"), nil).Once()

	e := New(client, testConfig())
	res := e.SalesData(context.Background(), "Cliente: precisamos reduzir custos.")

	require.NoError(t, res.Err)
	assert.Equal(t, model.QualityRepaired, res.Quality)
	assert.NotNil(t, res.Value.Stakeholders)
	assert.NotNil(t, res.Value.Dores)
	assert.NotNil(t, res.Value.Oportunidades)
	assert.NotNil(t, res.Value.Marcas)
	assert.True(t, res.Value.IsEmpty())
}

func TestCallAnalysis_EmptyObjectIsRepaired(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("{}"), nil).Once()

	e := New(client, testConfig())
	res := e.CallAnalysis(context.Background(), "Vendedor: bom dia.")

	require.NoError(t, res.Err)
	assert.Equal(t, model.QualityRepaired, res.Quality)
	assert.NotNil(t, res.Value.Participants)
	assert.NotNil(t, res.Value.TalkRatio)
	assert.NotNil(t, res.Value.KeyTopics)
	assert.NotNil(t, res.Value.KeyMoments)
	assert.NotNil(t, res.Value.CompetitorMentions)
	assert.NotNil(t, res.Value.Questions)
	assert.NotNil(t, res.Value.NextSteps)
	assert.NotNil(t, res.Value.WinningBehaviors)
	assert.NotNil(t, res.Value.CoachingOpportunities)
}

func TestSalesData_FencedAndProseWrapped(t *testing.T) {
	body := `{"empresa":"Acme","spin":{"situacao":"planilhas"},"bant":{"budget":"aprovado"},` +
		`"stakeholders":["Ana"],"dores":["retrabalho"],"oportunidades":[],"marcas":["Empresa X"]}`

	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain", raw: body},
		{name: "json fence", raw: "```json\n" + body + "\n```"},
		{name: "bare fence", raw: "```\n" + body + "\n```"},
		{name: "prose", raw: "Segue a análise solicitada:\n" + body + "\nEspero ter ajudado."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := anthropicmocks.NewMockClient(t)
			client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(tt.raw), nil).Once()

			res := New(client, testConfig()).SalesData(context.Background(), "transcrição")
			require.NoError(t, res.Err)
			assert.Equal(t, model.QualityOK, res.Quality)
			assert.Equal(t, "Acme", res.Value.Empresa)
			assert.Equal(t, "planilhas", res.Value.SPIN.Situacao)
			assert.Equal(t, "aprovado", res.Value.BANT.Budget)
			assert.Equal(t, []string{"Ana"}, res.Value.Stakeholders)
			assert.Equal(t, []string{"Empresa X"}, res.Value.Marcas)
		})
	}
}

func TestSalesData_RequestShape(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.MaxTokens == 2000 &&
			req.Temperature != nil && *req.Temperature == 0.2 &&
			len(req.System) == 1 && req.System[0].Text == salesSystem &&
			len(req.Messages) == 1 &&
			strings.HasSuffix(req.Messages[0].Content, "\n\nTranscrição:\nolá mundo")
	})).Return(textResponse("{}"), nil).Once()

	res := New(client, testConfig()).SalesData(context.Background(), "olá mundo")
	assert.NoError(t, res.Err)
}

func TestSalesData_FallbackToSample(t *testing.T) {
	tests := []struct {
		name string
		resp *anthropic.MessageResponse
		err  error
	}{
		{name: "llm error", err: &anthropic.APIError{StatusCode: 400, Err: assert.AnError}},
		{name: "not json", resp: textResponse("Não consegui analisar a transcrição.")},
		{name: "json array", resp: textResponse(`["a","b"]`)},
		{name: "empty text", resp: textResponse("")},
		{name: "wrong type", resp: textResponse(`{"stakeholders":"Ana","spin":{},"bant":{}}`)},
		{name: "nil response", resp: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := anthropicmocks.NewMockClient(t)
			client.On("CreateMessage", mock.Anything, mock.Anything).Return(tt.resp, tt.err).Once()

			res := New(client, testConfig()).SalesData(context.Background(), "transcrição")
			assert.Error(t, res.Err)
			assert.True(t, res.Degraded())
			assert.Equal(t, model.QualityDefault, res.Quality)
			assert.Equal(t, SampleSalesData(), res.Value)
		})
	}
}

func TestCallAnalysis_SchemaViolationReported(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"keyTopics":[{"topic":"preço","mentions":"muitas","sentiment":"positivo"}]}`), nil).Once()

	res := New(client, testConfig()).CallAnalysis(context.Background(), "transcrição")

	var ve *ValidationError
	require.ErrorAs(t, res.Err, &ve)
	assert.Equal(t, "call_analysis", ve.Artifact)
	assert.NotEmpty(t, ve.Errors)
	assert.Equal(t, SampleCallAnalysis().KeyTopics, res.Value.KeyTopics)
}

func TestCallAnalysis_RetriesTransientErrors(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, &anthropic.APIError{StatusCode: 529, Err: assert.AnError}).Twice()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"participants":["Vendedor: Ana"],"talkRatio":{"Ana":60,"Bruno":40}}`), nil).Once()

	res := New(client, testConfig()).CallAnalysis(context.Background(), "transcrição")

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Vendedor: Ana"}, res.Value.Participants)
	assert.InDelta(t, 100, res.Value.TalkRatioTotal(), 0.01)
	client.AssertNumberOfCalls(t, "CreateMessage", 3)
}

func TestCallAnalysis_NormalizesEnumsAndTalkRatio(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{
		"talkRatio": {"Vendedor": 3, "Cliente": 1},
		"keyTopics": [{"topic": "prazo", "mentions": 2, "sentiment": "animado"}],
		"questions": [{"question": "Qual o orçamento?", "quality": "excelente"}],
		"coachingOpportunities": [{"area": "fechamento", "severity": "urgente"}]
	}`), nil).Once()

	res := New(client, testConfig()).CallAnalysis(context.Background(), "transcrição")

	require.NoError(t, res.Err)
	assert.Equal(t, model.SentimentNeutral, res.Value.KeyTopics[0].Sentiment)
	assert.Equal(t, model.LevelMedium, res.Value.Questions[0].Quality)
	assert.Equal(t, model.LevelMedium, res.Value.CoachingOpportunities[0].Severity)
	assert.InDelta(t, 75, res.Value.TalkRatio["Vendedor"], 0.01)
	assert.InDelta(t, 25, res.Value.TalkRatio["Cliente"], 0.01)
}

func TestPromptDir_MissingTemplateUsesSample(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, callPromptFile), []byte("Analise a chamada."), 0o644))

	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.HasPrefix(req.Messages[0].Content, "Analise a chamada.")
	})).Return(textResponse("{}"), nil).Once()

	cfg := testConfig()
	cfg.PromptDir = dir
	e := New(client, cfg)

	sales := e.SalesData(context.Background(), "transcrição")
	assert.ErrorIs(t, sales.Err, ErrPromptUnavailable)
	assert.Equal(t, SampleSalesData(), sales.Value)

	call := e.CallAnalysis(context.Background(), "transcrição")
	assert.NoError(t, call.Err)
}

func TestSetPrompts(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	e := New(client, testConfig())
	e.SetPrompts("", "")

	res := e.SalesData(context.Background(), "transcrição")
	assert.ErrorIs(t, res.Err, ErrPromptUnavailable)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestEmbeddedPromptsLoad(t *testing.T) {
	assert.Contains(t, loadPrompt("", salesPromptFile), "JSON")
	assert.Contains(t, loadPrompt("", callPromptFile), "talkRatio")
	assert.Empty(t, loadPrompt(t.TempDir(), salesPromptFile))
}

func TestSamplesAreComplete(t *testing.T) {
	sales := SampleSalesData()
	assert.False(t, sales.IsEmpty())
	assert.NotEmpty(t, sales.Stakeholders)

	call := SampleCallAnalysis()
	assert.InDelta(t, 100, call.TalkRatioTotal(), 0.01)
	assert.Len(t, call.Questions, 2)
	assert.Len(t, call.CoachingOpportunities, 2)
}
