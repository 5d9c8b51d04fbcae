package classify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/call-intel/internal/model"
)

func TestCountWord(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    int
	}{
		{name: "whole word", text: "a api responde", keyword: "api", want: 1},
		{name: "accented suffix", text: "o apiário fica longe", keyword: "api", want: 0},
		{name: "accented prefix", text: "ráapi", keyword: "api", want: 0},
		{name: "punctuation", text: "api, api. (api)", keyword: "api", want: 3},
		{name: "start and end", text: "api", keyword: "api", want: 1},
		{name: "underscore joins", text: "minha_api", keyword: "api", want: 0},
		{name: "digits join", text: "api2", keyword: "api", want: 0},
		{name: "multi word", text: "usamos big data e machine learning", keyword: "big data", want: 1},
		{name: "hyphenated", text: "loja de e-commerce", keyword: "e-commerce", want: 1},
		{name: "accented keyword", text: "a fábrica e as fábricas", keyword: "fábrica", want: 1},
		{name: "retry after failed boundary", text: "apiapi api", keyword: "api", want: 1},
		{name: "empty keyword", text: "texto", keyword: "", want: 0},
		{name: "keyword longer", text: "ia", keyword: "inteligência artificial", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWord(tt.text, tt.keyword))
		})
	}
}

func TestHasWordStart(t *testing.T) {
	s := "o apiário"
	assert.True(t, HasWordStart(s, 0))
	assert.True(t, HasWordStart(s, 2))
	assert.False(t, HasWordStart(s, 3))
}

func TestClassifyIndustry(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		company *model.CompanyData
		want    model.Industry
	}{
		{name: "empty", text: "", want: model.IndustryGeneral},
		{name: "empty with empty company", text: "", company: &model.CompanyData{}, want: model.IndustryGeneral},
		{name: "tie between two industries", text: "Usamos software na fábrica", want: model.IndustryGeneral},
		{name: "non-word substring", text: "O apiário produz mel", want: model.IndustryGeneral},
		{
			name: "manufacturing scenario",
			text: "Precisamos reduzir custos com nosso processo de produção industrial. Nossa fábrica gasta muito tempo.",
			want: model.IndustryManufacturing,
		},
		{name: "case insensitive", text: "SOFTWARE na Cloud", want: model.IndustryTech},
		{
			name:    "company description weighted",
			text:    "Visitamos a fábrica ontem",
			company: &model.CompanyData{About: "Empresa de software"},
			want:    model.IndustryTech,
		},
		{
			name:    "company with scrape error ignored",
			text:    "Visitamos a fábrica ontem",
			company: &model.CompanyData{About: "Empresa de software", Error: "timeout"},
			want:    model.IndustryManufacturing,
		},
		{
			name: "logistics",
			text: "Nossa frota de caminhão faz a entrega e o rastreamento da carga",
			want: model.IndustryLogistics,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIndustry(tt.text, tt.company))
		})
	}
}

func TestIndustryScores(t *testing.T) {
	scores := IndustryScores("Temos estoque na fábrica", &model.CompanyData{About: "Fábrica de peças"})

	// estoque appears in manufacturing, logistics and retail.
	assert.Equal(t, 2+2*2, scores[model.IndustryManufacturing])
	assert.Equal(t, 1, scores[model.IndustryLogistics])
	assert.Equal(t, 1, scores[model.IndustryRetail])
	assert.Equal(t, 0, scores[model.IndustryTech])
	assert.Len(t, scores, 7)
}

func TestClassifyFunnelStage(t *testing.T) {
	tests := []struct {
		name string
		text string
		bant model.BANT
		want model.FunnelStage
	}{
		{name: "empty", want: model.StageConsideration},
		{name: "tie", text: "Queremos conhecer a proposta", want: model.StageConsideration},
		{name: "keywords", text: "Estamos comparando alternativas e avaliando o preço", want: model.StageConsideration},
		{name: "awareness keywords", text: "Quero saber mais, estamos pesquisando para entender", want: model.StageAwareness},
		{name: "urgent timeline", bant: model.BANT{Timeline: "Urgente, próxima semana"}, want: model.StageDecision},
		{name: "quarter timeline", bant: model.BANT{Timeline: "Próximo trimestre"}, want: model.StageConsideration},
		{name: "study timeline", bant: model.BANT{Timeline: "Em fase de estudo"}, want: model.StageAwareness},
		{name: "rollout timeline", bant: model.BANT{Timeline: "Roll-out em março"}, want: model.StageImplementation},
		{name: "approved budget", bant: model.BANT{Budget: "Orçamento aprovado"}, want: model.StageDecision},
		{name: "reserved budget", bant: model.BANT{Budget: "Verba reservada e alocado"}, want: model.StageConsideration},
		{name: "no budget", bant: model.BANT{Budget: "Ainda não definido"}, want: model.StageAwareness},
		{name: "senior authority", bant: model.BANT{Authority: "CEO aprova"}, want: model.StageDecision},
		{
			name: "bant outweighs text",
			text: "Estamos comparando fornecedores",
			bant: model.BANT{Timeline: "imediato"},
			want: model.StageDecision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFunnelStage(tt.text, tt.bant))
		})
	}
}

func TestFunnelScores_RulesAreExclusivePerField(t *testing.T) {
	// "imediato" wins; the implementation phrase in the same field is ignored.
	scores := FunnelScores("", model.BANT{Timeline: "imediato, com implantação rápida"})
	assert.Equal(t, 3, scores[model.StageDecision])
	assert.Equal(t, 0, scores[model.StageImplementation])
}

func TestAnalyzeClient(t *testing.T) {
	sales := model.SalesData{BANT: model.BANT{Budget: "aprovado", Authority: "diretor financeiro"}}
	ca := AnalyzeClient("A fintech precisa de crédito e pagamento", sales, nil)

	assert.Equal(t, model.IndustryFinancial, ca.Industry)
	assert.Equal(t, model.StageDecision, ca.FunnelStage)
	assert.Equal(t, 3, ca.IndustryScores[model.IndustryFinancial])
	assert.Equal(t, 3, ca.FunnelScores[model.StageDecision])
}

func TestClassifyConcurrentDeterministic(t *testing.T) {
	text := "Precisamos reduzir custos com nosso processo de produção industrial. Nossa fábrica gasta muito tempo."
	var wg sync.WaitGroup
	results := make([]model.Industry, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ClassifyIndustry(text, nil)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, model.IndustryManufacturing, r)
	}
}
