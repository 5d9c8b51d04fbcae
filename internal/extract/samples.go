package extract

import "github.com/sells-group/call-intel/internal/model"

// SampleSalesData is the fixed artifact returned when sales extraction cannot
// run or fails.
func SampleSalesData() model.SalesData {
	return model.SalesData{
		Empresa: "Empresa Exemplo Ltda",
		SPIN: model.SPIN{
			Situacao:    "Equipe comercial controla o processo de vendas em planilhas",
			Problema:    "Falta de visibilidade do funil e retrabalho manual na consolidação de relatórios",
			Implicacao:  "Perda de oportunidades e dificuldade para prever a receita do trimestre",
			Necessidade: "Precisa de uma plataforma integrada para acompanhar o processo comercial",
		},
		BANT: model.BANT{
			Budget:    "Orçamento em definição",
			Authority: "Diretora comercial participa da decisão com o gerente de TI",
			Need:      "Centralizar dados de clientes e automatizar relatórios",
			Timeline:  "Próximo trimestre",
		},
		Stakeholders:  []string{"Maria (Diretora Comercial)", "Carlos (Gerente de TI)"},
		Dores:         []string{"Processo manual de consolidação de relatórios", "Custo alto com retrabalho da equipe"},
		Oportunidades: []string{"Automação de relatórios de vendas", "Integração com o ERP atual"},
		Marcas:        []string{"Empresa X"},
	}
}

// SampleCallAnalysis is the fixed artifact returned when call analysis
// cannot run or fails.
func SampleCallAnalysis() model.CallAnalysis {
	return model.CallAnalysis{
		Participants: []string{"Vendedor: João", "Cliente: Maria"},
		Date:         "2023-10-15",
		Duration:     "45 minutos",
		TalkRatio:    map[string]float64{"Vendedor": 65, "Cliente": 35},
		KeyTopics: []model.KeyTopic{
			{Topic: "Integração com sistemas", Mentions: 5, Sentiment: model.SentimentPositive},
			{Topic: "Custos do projeto", Mentions: 3, Sentiment: model.SentimentNegative},
			{Topic: "Prazos de implementação", Mentions: 4, Sentiment: model.SentimentNeutral},
		},
		KeyMoments: []model.KeyMoment{
			{Time: "00:05:23", Type: "dor", Description: "Cliente menciona dificuldade com integração de sistemas legados"},
			{Time: "00:12:46", Type: "oportunidade", Description: "Cliente demonstra interesse na solução de automação"},
			{Time: "00:32:15", Type: "próximos passos", Description: "Agendamento de demonstração técnica"},
		},
		CompetitorMentions: []model.CompetitorMention{
			{Competitor: "Empresa X", Mentions: 2, Context: "Cliente atualmente usa seus serviços"},
		},
		Questions: []model.Question{
			{Time: "00:03:12", Question: "Quais são os principais desafios da sua equipe hoje?", AskedBy: "João", AnsweredBy: "Maria", Quality: model.LevelHigh},
			{Time: "00:18:40", Question: "Qual é o orçamento previsto para o projeto?", AskedBy: "João", AnsweredBy: "Maria", Quality: model.LevelMedium},
		},
		NextSteps: []model.NextStep{
			{Description: "Enviar proposta comercial", Owner: "João", Status: "pendente"},
			{Description: "Agendar demonstração técnica com a equipe de TI", Owner: "Maria", Status: "em andamento"},
		},
		WinningBehaviors: []model.WinningBehavior{
			{Behavior: "Escuta ativa", Description: "Vendedor retomou as dores do cliente antes de apresentar a solução"},
			{Behavior: "Perguntas qualificadoras", Description: "Vendedor explorou orçamento e processo de decisão"},
		},
		CoachingOpportunities: []model.CoachingOpportunity{
			{Area: "Objeções de preço", Severity: model.LevelMedium, Description: "Responder objeções de custo com dados de retorno sobre investimento"},
			{Area: "Fechamento", Severity: model.LevelHigh, Description: "Definir compromisso claro com data para a próxima etapa"},
		},
	}
}
