// Package report assembles the report context from an analysis and its
// enrichment data, and generates the sales intelligence report.
package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/call-intel/internal/classify"
	"github.com/sells-group/call-intel/internal/insight"
	"github.com/sells-group/call-intel/internal/model"
)

// ContextInput is everything the report context is built from.
type ContextInput struct {
	TranscriptText string
	Sales          model.SalesData
	Profiles       []model.LinkedInProfile
	Company        *model.CompanyData
	// Settings defaults to the embedded settings when nil.
	Settings *Settings
}

// BuildContext renders the structured document handed to the report LLM.
// Sections are separated by a blank line.
func BuildContext(in ContextInput) string {
	settings := in.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	analysis := classify.AnalyzeClient(in.TranscriptText, in.Sales, in.Company)
	name := companyName(in.Sales, in.Company)

	sections := []string{
		overviewSection(in.Sales, in.Company, name),
		clientSection(in, settings, analysis),
		stakeholderSection(in.Sales, in.Profiles, name),
		spinSection(in.Sales.SPIN),
		bantSection(in.Sales.BANT),
		painSection(in.Sales),
	}
	if in.Company.Usable() {
		sections = append(sections, websiteSection(in.Company))
	}
	if len(in.Sales.Marcas) > 0 {
		sections = append(sections, brandSection(in.Sales.Marcas))
	}
	sections = append(sections, excerptSection(in.TranscriptText, settings.Generation.ExcerptRunes))

	return strings.Join(sections, "\n\n")
}

func companyName(sales model.SalesData, company *model.CompanyData) string {
	switch {
	case sales.Empresa != "":
		return sales.Empresa
	case company != nil && company.Name != "":
		return company.Name
	default:
		return "Empresa"
	}
}

func or(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func bullets(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "- %s\n", empty)
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

func overviewSection(sales model.SalesData, company *model.CompanyData, name string) string {
	about := ""
	if company != nil {
		about = company.About
	}
	if about == "" {
		about = sales.ContextoPersonalizacao
	}

	var b strings.Builder
	b.WriteString("## VISÃO GERAL DA EMPRESA\n\n")
	fmt.Fprintf(&b, "**Nome:** %s\n", name)
	fmt.Fprintf(&b, "**Descrição:** %s\n", or(about, "Não disponível"))
	return b.String()
}

func clientSection(in ContextInput, settings *Settings, analysis model.ClientAnalysis) string {
	industry := settings.Industry(analysis.Industry)
	stage := settings.Stage(analysis.FunnelStage)

	criteria := insight.ExtractDecisionCriteria(in.TranscriptText, in.Sales)
	if limit := settings.Generation.MaxCriteria; limit > 0 && len(criteria) > limit {
		criteria = criteria[:limit]
	}
	drivers := insight.IdentifyValueDrivers(in.Sales, analysis.Industry)

	var b strings.Builder
	b.WriteString("## ANÁLISE ESTRATÉGICA DO CLIENTE\n\n")
	fmt.Fprintf(&b, "**Tipo de indústria detectado:** %s\n", analysis.Industry)
	fmt.Fprintf(&b, "**Fase do funil de vendas:** %s\n", analysis.FunnelStage)
	fmt.Fprintf(&b, "**Foco recomendado:** %s\n", or(stage.Focus, "diferenciação competitiva"))
	fmt.Fprintf(&b, "**Tipo de conteúdo recomendado:** %s\n", or(stage.ContentType, "comparativo e detalhado"))
	fmt.Fprintf(&b, "**Call-to-action recomendado:** %s\n\n", or(stage.CallToAction, "análise detalhada de necessidades"))

	fmt.Fprintf(&b, "**Áreas de foco para esta indústria:**\n%s\n\n", strings.Join(industry.FocusAreas, ", "))
	fmt.Fprintf(&b, "**Terminologia relevante para esta indústria:**\n%s\n\n", strings.Join(industry.Terminology, ", "))

	b.WriteString("**Critérios de decisão identificados:**\n")
	bullets(&b, criteria, "Nenhum critério específico identificado")

	b.WriteString("\n**Impulsionadores de valor por categoria:**\n")
	for _, cat := range insight.Categories {
		if len(drivers[cat]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s:*\n", cat.Title())
		bullets(&b, drivers[cat], "")
	}
	return b.String()
}

func stakeholderSection(sales model.SalesData, profiles []model.LinkedInProfile, company string) string {
	var b strings.Builder
	b.WriteString("## STAKEHOLDERS-CHAVE\n\n")

	if len(profiles) == 0 {
		if len(sales.Stakeholders) == 0 {
			b.WriteString("- Nenhum stakeholder identificado\n")
			return b.String()
		}
		for _, s := range sales.Stakeholders {
			fmt.Fprintf(&b, "- %s (Detalhes do LinkedIn não disponíveis)\n", s)
		}
		return b.String()
	}

	for i, p := range profiles {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n", or(p.Name, fmt.Sprintf("Stakeholder %d", i+1)))
		fmt.Fprintf(&b, "**Cargo Atual:** %s\n", or(p.Headline, "Cargo não disponível"))
		fmt.Fprintf(&b, "**Empresa:** %s\n", or(p.Company, company))
		fmt.Fprintf(&b, "**URL do Perfil:** %s\n\n", or(p.ProfileURL, "N/A"))

		b.WriteString("**Experiência Profissional Relevante:**\n")
		if len(p.Experience) == 0 {
			b.WriteString("- Informações de experiência não disponíveis\n")
		}
		for _, exp := range firstN(p.Experience, 3) {
			fmt.Fprintf(&b, "- %s em %s (%s)\n",
				or(exp.Title, "Cargo não especificado"),
				or(exp.Company, "Empresa não especificada"),
				or(exp.Duration, "Duração não especificada"))
		}

		b.WriteString("\n**Educação Relevante:**\n")
		if len(p.Education) == 0 {
			b.WriteString("- Informações de educação não disponíveis\n")
		}
		for _, edu := range firstN(p.Education, 2) {
			fmt.Fprintf(&b, "- %s em %s\n",
				or(edu.Degree, "Grau não especificado"),
				or(edu.School, "Instituição não especificada"))
		}

		if len(p.Interests) > 0 {
			b.WriteString("\n**Interesses:**\n")
			bullets(&b, firstN(p.Interests, 5), "")
		}
		if len(p.Activities) > 0 {
			b.WriteString("\n**Atividades Recentes:**\n")
			bullets(&b, firstN(p.Activities, 3), "")
		}
	}
	return b.String()
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func spinSection(spin model.SPIN) string {
	var b strings.Builder
	b.WriteString("## ANÁLISE SPIN\n\n")
	fmt.Fprintf(&b, "**Situação:** %s\n\n", or(spin.Situacao, "Não identificada"))
	fmt.Fprintf(&b, "**Problema:** %s\n\n", or(spin.Problema, "Não identificado"))
	fmt.Fprintf(&b, "**Implicação:** %s\n\n", or(spin.Implicacao, "Não identificada"))
	fmt.Fprintf(&b, "**Necessidade:** %s\n", or(spin.Necessidade, "Não identificada"))
	return b.String()
}

func bantSection(bant model.BANT) string {
	var b strings.Builder
	b.WriteString("## ANÁLISE BANT\n\n")
	fmt.Fprintf(&b, "**Budget (Orçamento):** %s\n\n", or(bant.Budget, "Não identificado"))
	fmt.Fprintf(&b, "**Authority (Autoridade):** %s\n\n", or(bant.Authority, "Não identificada"))
	fmt.Fprintf(&b, "**Need (Necessidade):** %s\n\n", or(bant.Need, "Não identificada"))
	fmt.Fprintf(&b, "**Timeline (Cronograma):** %s\n", or(bant.Timeline, "Não identificado"))
	return b.String()
}

func painSection(sales model.SalesData) string {
	var b strings.Builder
	b.WriteString("## DORES E OPORTUNIDADES\n\n**Dores Identificadas:**\n")
	bullets(&b, sales.Dores, "Nenhuma dor específica identificada")
	b.WriteString("\n**Oportunidades:**\n")
	bullets(&b, sales.Oportunidades, "Nenhuma oportunidade específica identificada")
	return b.String()
}

func websiteSection(c *model.CompanyData) string {
	var b strings.Builder
	b.WriteString("## DADOS DO SITE DA EMPRESA\n")

	if len(c.Services) > 0 {
		b.WriteString("\n**Serviços/Produtos:**\n")
		for _, s := range c.Services {
			if s.Description != "" {
				fmt.Fprintf(&b, "- %s: %s\n", s.Name, s.Description)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", s.Name)
		}
	}
	if len(c.Team) > 0 {
		b.WriteString("\n**Equipe:**\n")
		for _, m := range c.Team {
			if m.Position != "" {
				fmt.Fprintf(&b, "- %s - %s\n", m.Name, m.Position)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", m.Name)
		}
	}
	if len(c.Technologies) > 0 {
		b.WriteString("\n**Tecnologias Mencionadas:**\n")
		bullets(&b, c.Technologies, "")
	}
	return b.String()
}

func brandSection(marcas []string) string {
	var b strings.Builder
	b.WriteString("## EMPRESAS/PLATAFORMAS MENCIONADAS\n\n")
	bullets(&b, marcas, "")
	return b.String()
}

func excerptSection(text string, limit int) string {
	return "## TRECHO DA TRANSCRIÇÃO DA REUNIÃO\n\n" + Excerpt(text, limit)
}

// Excerpt returns the first limit runes of text, followed by "..." when the
// text was cut. A non-positive limit keeps the whole text.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
