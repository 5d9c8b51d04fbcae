package classify

import "github.com/sells-group/call-intel/internal/model"

// keywordSet is the keyword list of one category.
type keywordSet[K comparable] struct {
	Label    K
	Keywords []string
}

// industryKeywords is scored in this order; ties are resolved before order
// matters, so the order only affects the score map layout.
var industryKeywords = []keywordSet[model.Industry]{
	{model.IndustryTech, []string{
		"software", "tecnologia", "desenvolvimento", "programação", "api", "saas",
		"cloud", "nuvem", "startup", "aplicativo", "app", "digital", "internet",
		"tecnológica", "sistema", "plataforma", "marketplace", "e-commerce",
		"devops", "big data", "agile", "tech", "machine learning", "ia", "ai",
		"inteligência artificial", "blockchain", "desenvolvimento web",
	}},
	{model.IndustryManufacturing, []string{
		"manufatura", "fábrica", "produção", "linha de montagem", "industrial",
		"indústria", "processo produtivo", "lean", "kaizen", "just-in-time",
		"estoque", "matéria-prima", "produto final", "supply chain", "insumos",
		"sensores", "automação industrial", "manutenção", "equipamentos",
		"máquinas", "peças", "qualidade", "controle de qualidade", "six sigma",
	}},
	{model.IndustryFinancial, []string{
		"banco", "financeira", "financeiro", "fintech", "investimento", "crédito",
		"empréstimo", "seguro", "securitização", "pagamento", "cartão", "capital",
		"risco", "compliance", "regulação", "bancos", "seguros", "corretora",
		"mercado financeiro", "câmbio", "finanças", "contabilidade", "contábil",
		"patrimônio", "ativos", "passivos",
	}},
	{model.IndustryLogistics, []string{
		"logística", "transporte", "entrega", "armazenagem", "armazém", "estoque",
		"distribuição", "expedição", "carga", "caminhão", "frota", "rastreamento",
		"shipping", "cadeia de suprimentos", "supply chain", "importação",
		"exportação", "cross-docking", "fulfillment", "last mile", "logístico",
		"transportadora", "modal", "rota", "malha logística", "operador logístico",
	}},
	{model.IndustryHealthcare, []string{
		"saúde", "hospital", "médico", "clínica", "paciente", "tratamento",
		"farmacêutica", "medicamento", "diagnóstico", "terapia", "laboratório",
		"exame", "consulta", "telemedicina", "prontuário", "internação", "leito",
		"healthtech", "assistencial", "plano de saúde", "operadora",
		"seguradora de saúde",
	}},
	{model.IndustryRetail, []string{
		"varejo", "loja", "shopping", "atacado", "varejista", "comércio",
		"atacadista", "consumidor", "cliente", "pdv", "ponto de venda",
		"merchandising", "prateleira", "estoque", "inventário", "reposição",
		"venda", "compra", "revendedor", "franquia", "rede", "omnichannel",
		"online", "offline", "marketplace",
	}},
	{model.IndustryEducation, []string{
		"educação", "escola", "ensino", "professor", "aluno", "estudante", "curso",
		"faculdade", "universidade", "formação", "capacitação", "treinamento",
		"classe", "acadêmico", "aula", "pedagógico", "edtech", "ead",
		"ensino a distância", "material didático", "conteúdo",
	}},
}

var funnelKeywords = []keywordSet[model.FunnelStage]{
	{model.StageAwareness, []string{
		"conhecer", "aprender", "entender", "explorar", "descobrir", "informação",
		"educação", "webinar", "demonstração inicial", "primeira reunião",
		"ainda não sei", "estamos pesquisando", "analisando opções",
		"estamos começando", "quero saber mais", "me interessei", "conhecer melhor",
	}},
	{model.StageConsideration, []string{
		"comparando", "avaliando", "analisando", "concorrente", "alternativa",
		"diferenças", "vantagens", "desvantagens", "preço", "funcionalidade",
		"está no nosso radar", "estamos considerando", "quais são os diferenciais",
		"comparativo", "teste", "prova de conceito", "poc", "piloto",
	}},
	{model.StageDecision, []string{
		"decidir", "decidindo", "proposta", "contrato", "assinatura", "aprovação",
		"investimento", "orçamento", "orçamentos", "aprovado", "roi", "retorno",
		"prazo", "implementação", "implantação", "quando podemos começar",
		"precisamos fechar até", "comitê", "decisores", "diretoria", "conselho",
	}},
	{model.StageImplementation, []string{
		"implementar", "implementação", "implantação", "cronograma", "prazo",
		"equipe técnica", "treinamento", "migração", "integração", "on-boarding",
		"acompanhamento", "suporte", "já decidimos", "próximos passos", "go-live",
		"plano de implantação", "projeto", "fases",
	}},
}

// bantRule adds Points to Stage when any phrase appears in a BANT field.
type bantRule struct {
	Phrases []string
	Stage   model.FunnelStage
	Points  int
}

// Rules within a field are exclusive: the first matching rule wins.
var (
	timelineRules = []bantRule{
		{[]string{"imediato", "urgente", "próxima semana"}, model.StageDecision, 3},
		{[]string{"próximo mês", "trimestre"}, model.StageConsideration, 2},
		{[]string{"estudo", "análise", "avaliação"}, model.StageAwareness, 2},
		{[]string{"implementação", "implantação", "roll-out"}, model.StageImplementation, 3},
	}
	budgetRules = []bantRule{
		{[]string{"aprovado", "disponível"}, model.StageDecision, 2},
		{[]string{"alocado", "reservado"}, model.StageConsideration, 2},
		{[]string{"sem", "não definido", "ainda não"}, model.StageAwareness, 2},
	}
	authorityRules = []bantRule{
		{[]string{"ceo", "diretor", "comitê"}, model.StageDecision, 1},
	}
)
