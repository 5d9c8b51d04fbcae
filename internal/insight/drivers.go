package insight

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/call-intel/internal/model"
)

// Category is a value-driver category.
type Category string

const (
	CategoryFinancial   Category = "financeiro"
	CategoryOperational Category = "operacional"
	CategoryStrategic   Category = "estratégico"
	CategoryRisk        Category = "risco"
)

// Categories lists the value-driver categories in report order.
var Categories = []Category{CategoryFinancial, CategoryOperational, CategoryStrategic, CategoryRisk}

// Title returns the display form of the category ("Estratégico").
func (c Category) Title() string {
	return cases.Title(language.BrazilianPortuguese).String(string(c))
}

var driverKeywords = map[Category][]string{
	CategoryFinancial: {
		"custo", "preço", "orçamento", "gasto", "gasta", "despesa", "investimento",
		"economia", "retorno", "lucro", "margem", "receita", "financeiro",
		"roi", "payback", "redução de custo",
	},
	CategoryOperational: {
		"processo", "eficiência", "produtividade", "operação", "tempo",
		"velocidade", "agilidade", "automação", "manual", "retrabalho",
		"fluxo", "workflow", "integração",
	},
	CategoryStrategic: {
		"crescimento", "expansão", "mercado", "competitividade", "inovação",
		"diferenciação", "posicionamento", "vantagem", "competidor", "cliente",
		"estratégia", "futuro", "tendência",
	},
	CategoryRisk: {
		"risco", "segurança", "compliance", "conformidade", "regulação", "lei",
		"vulnerabilidade", "exposição", "falha", "erro", "multa", "penalidade",
		"problema", "perda",
	},
}

// ValueDrivers maps every category to its drivers. All four categories are
// always present; a category may hold an empty list.
type ValueDrivers map[Category][]string

// Empty reports whether no category has a driver.
func (v ValueDrivers) Empty() bool {
	for _, c := range Categories {
		if len(v[c]) > 0 {
			return false
		}
	}
	return true
}

// IdentifyValueDrivers tags each pain point into every category whose
// keywords it mentions, then fills empty categories from industry and SPIN
// hints where one applies.
func IdentifyValueDrivers(sales model.SalesData, industry model.Industry) ValueDrivers {
	drivers := make(ValueDrivers, len(Categories))
	for _, c := range Categories {
		drivers[c] = []string{}
	}

	for _, pain := range sales.Dores {
		lower := strings.ToLower(pain)
		for _, c := range Categories {
			if containsAny(lower, driverKeywords[c]) {
				drivers[c] = append(drivers[c], pain)
			}
		}
	}

	problem := strings.ToLower(sales.SPIN.Problema)
	implication := strings.ToLower(sales.SPIN.Implicacao)

	if len(drivers[CategoryFinancial]) == 0 {
		switch industry {
		case model.IndustryLogistics:
			drivers[CategoryFinancial] = append(drivers[CategoryFinancial], "Redução de custos operacionais na gestão de frotas")
		case model.IndustryTech:
			drivers[CategoryFinancial] = append(drivers[CategoryFinancial], "Otimização de investimentos em tecnologia")
		}
	}
	if len(drivers[CategoryOperational]) == 0 && containsAny(problem, []string{"operacional", "processo"}) {
		drivers[CategoryOperational] = append(drivers[CategoryOperational],
			"Melhoria de processos relacionados a "+sales.SPIN.Problema)
	}
	if len(drivers[CategoryStrategic]) == 0 && containsAny(implication, []string{"competidor", "mercado"}) {
		drivers[CategoryStrategic] = append(drivers[CategoryStrategic], "Fortalecimento da posição competitiva no mercado")
	}
	if len(drivers[CategoryRisk]) == 0 && containsAny(implication, []string{"falha", "problema"}) {
		drivers[CategoryRisk] = append(drivers[CategoryRisk], "Mitigação de riscos operacionais e de conformidade")
	}

	return drivers
}
