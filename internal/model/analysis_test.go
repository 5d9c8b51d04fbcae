package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyArtifacts_EncodeContainers(t *testing.T) {
	t.Parallel()

	salesJSON, err := json.Marshal(EmptySalesData())
	require.NoError(t, err)
	var sales map[string]any
	require.NoError(t, json.Unmarshal(salesJSON, &sales))
	for _, key := range []string{"stakeholders", "dores", "oportunidades", "marcas"} {
		assert.IsType(t, []any{}, sales[key], key)
	}
	assert.IsType(t, map[string]any{}, sales["spin"])
	assert.IsType(t, map[string]any{}, sales["bant"])

	callJSON, err := json.Marshal(EmptyCallAnalysis())
	require.NoError(t, err)
	var call map[string]any
	require.NoError(t, json.Unmarshal(callJSON, &call))
	assert.IsType(t, map[string]any{}, call["talkRatio"])
	for _, key := range []string{"participants", "keyTopics", "keyMoments", "competitorMentions",
		"questions", "nextSteps", "winningBehaviors", "coachingOpportunities"} {
		assert.IsType(t, []any{}, call[key], key)
	}
}

func TestCallAnalysis_NormalizeEnums(t *testing.T) {
	t.Parallel()

	c := CallAnalysis{
		KeyTopics:             []KeyTopic{{Topic: "Preço", Sentiment: "positive"}},
		Questions:             []Question{{Question: "Qual o prazo?", Quality: "high"}},
		CoachingOpportunities: []CoachingOpportunity{{Area: "Fechamento", Severity: LevelHigh}},
	}
	c.Normalize()

	assert.Equal(t, SentimentNeutral, c.KeyTopics[0].Sentiment)
	assert.Equal(t, LevelMedium, c.Questions[0].Quality)
	assert.Equal(t, LevelHigh, c.CoachingOpportunities[0].Severity)
}

func TestCallAnalysis_BalanceTalkRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ratio    map[string]float64
		rescaled bool
		want     map[string]float64
	}{
		{"empty", map[string]float64{}, false, map[string]float64{}},
		{"within tolerance", map[string]float64{"a": 60, "b": 38}, false, map[string]float64{"a": 60, "b": 38}},
		{"fractions", map[string]float64{"a": 0.65, "b": 0.35}, true, map[string]float64{"a": 65, "b": 35}},
		{"overshoot", map[string]float64{"a": 120, "b": 80}, true, map[string]float64{"a": 60, "b": 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := CallAnalysis{TalkRatio: tt.ratio}
			assert.Equal(t, tt.rescaled, c.BalanceTalkRatio(5))
			assert.InDeltaMapValues(t, tt.want, c.TalkRatio, 0.01)
		})
	}
}

func TestCachedAnalysis_HasArtifacts(t *testing.T) {
	t.Parallel()

	var nilRec *CachedAnalysis
	assert.False(t, nilRec.HasArtifacts())
	assert.False(t, (&CachedAnalysis{TranscriptID: "t1"}).HasArtifacts())

	sales := EmptySalesData()
	assert.True(t, (&CachedAnalysis{SalesData: &sales}).HasArtifacts())
}

func TestResultFromCache_FillsAbsentArtifact(t *testing.T) {
	t.Parallel()

	sales := SalesData{Empresa: "Acme", Dores: []string{"Custo alto"}}
	res := ResultFromCache(&CachedAnalysis{TranscriptID: "t1", SalesData: &sales})

	assert.Equal(t, SourceCache, res.Source)
	assert.Equal(t, "Acme", res.SalesData.Empresa)
	assert.NotNil(t, res.SalesData.Marcas)
	assert.NotNil(t, res.CallAnalysis.KeyTopics)
	assert.Equal(t, QualityCached, res.Quality.SalesData)
	assert.Equal(t, QualityEmpty, res.Quality.CallAnalysis)
}

func TestAnalysisResult_Clone(t *testing.T) {
	orig := &AnalysisResult{
		TranscriptID: "t1",
		SalesData:    SalesData{Empresa: "Acme", Dores: []string{"frete"}},
		CallAnalysis: CallAnalysis{
			TalkRatio: map[string]float64{"Ana": 60},
			KeyTopics: []KeyTopic{{Topic: "preço"}},
		},
		Source: SourcePipeline,
	}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.SalesData.Dores[0] = "outro"
	c.CallAnalysis.TalkRatio["Ana"] = 10
	c.CallAnalysis.KeyTopics[0].Topic = "prazo"
	assert.Equal(t, "frete", orig.SalesData.Dores[0])
	assert.Equal(t, 60.0, orig.CallAnalysis.TalkRatio["Ana"])
	assert.Equal(t, "preço", orig.CallAnalysis.KeyTopics[0].Topic)
	assert.Nil(t, c.SalesData.Marcas)
}

func TestPipelineState_Result(t *testing.T) {
	t.Parallel()

	st := NewPipelineState("t1")
	assert.Equal(t, DefaultLanguage, st.Language)
	assert.Equal(t, StepStart, st.Step)

	st.SalesData.Stakeholders = nil
	res := st.Result()
	assert.Equal(t, "t1", res.TranscriptID)
	assert.Equal(t, SourcePipeline, res.Source)
	assert.NotNil(t, res.SalesData.Stakeholders)
	assert.True(t, res.Quality.Degraded())
}

func TestExtractionQuality_Degraded(t *testing.T) {
	t.Parallel()

	assert.False(t, ExtractionQuality{SalesData: QualityOK, CallAnalysis: QualityRepaired}.Degraded())
	assert.False(t, ExtractionQuality{SalesData: QualityCached, CallAnalysis: QualityCached}.Degraded())
	assert.True(t, ExtractionQuality{SalesData: QualityOK, CallAnalysis: QualityDefault}.Degraded())
}

func TestPipelineStep_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StepCacheHit.Terminal())
	assert.True(t, StepDone.Terminal())
	assert.False(t, StepPersist.Terminal())
}

func TestCompanyData_Usable(t *testing.T) {
	t.Parallel()

	var nilData *CompanyData
	assert.False(t, nilData.Usable())
	assert.False(t, (&CompanyData{Error: "timeout"}).Usable())
	assert.True(t, (&CompanyData{About: "Transportadora"}).Usable())
}
