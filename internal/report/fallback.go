package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/call-intel/internal/model"
)

// FormatFallback renders a deterministic report from the analysis and the
// enrichment data, used when no LLM answer is available.
func FormatFallback(sales model.SalesData, profiles []model.LinkedInProfile, company *model.CompanyData) string {
	var b strings.Builder

	b.WriteString("# Relatório de Inteligência de Vendas\n\n")

	b.WriteString("## Dados da Reunião\n\n")
	fmt.Fprintf(&b, "**Empresa:** %s\n", or(sales.Empresa, "Não identificada"))
	contacts := "Não identificados"
	if len(sales.Stakeholders) > 0 {
		contacts = strings.Join(sales.Stakeholders, ", ")
	}
	fmt.Fprintf(&b, "**Contatos-chave:** %s\n\n", contacts)

	b.WriteString(spinSection(sales.SPIN))
	b.WriteString("\n")
	b.WriteString(bantSection(sales.BANT))
	b.WriteString("\n")

	b.WriteString("## Perfis do LinkedIn\n\n")
	if len(profiles) == 0 {
		b.WriteString("Nenhum perfil do LinkedIn encontrado\n")
	}
	for _, p := range profiles {
		fmt.Fprintf(&b, "### %s\n", or(p.Name, "Nome não disponível"))
		if p.Headline != "" {
			fmt.Fprintf(&b, "*%s*\n\n", p.Headline)
		}
		fmt.Fprintf(&b, "- **Empresa:** %s\n", or(p.Company, "Não disponível"))
		fmt.Fprintf(&b, "- **Localização:** %s\n", or(p.Location, "Não disponível"))
		if p.ProfileURL != "" {
			fmt.Fprintf(&b, "- [Ver perfil completo](%s)\n", p.ProfileURL)
		}
		b.WriteString("\n")
	}

	if company.Usable() {
		b.WriteString("\n## Dados da Empresa\n\n")
		fmt.Fprintf(&b, "**Nome:** %s\n", or(company.Name, "Não disponível"))
		fmt.Fprintf(&b, "**Sobre:** %s\n", or(company.About, "Informação não disponível"))
		if len(company.Services) > 0 {
			b.WriteString("\n### Serviços/Produtos\n")
			for _, s := range company.Services {
				if s.Description != "" {
					fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Description)
					continue
				}
				fmt.Fprintf(&b, "- **%s**\n", s.Name)
			}
		}
		if len(company.Team) > 0 {
			b.WriteString("\n### Equipe\n")
			for _, m := range company.Team {
				if m.Position != "" {
					fmt.Fprintf(&b, "- **%s** - %s\n", m.Name, m.Position)
					continue
				}
				fmt.Fprintf(&b, "- **%s**\n", m.Name)
			}
		}
		if len(company.Technologies) > 0 {
			b.WriteString("\n### Tecnologias Mencionadas\n")
			bullets(&b, company.Technologies, "")
		}
	}

	b.WriteString("\n")
	b.WriteString(painSection(sales))

	b.WriteString("\n## Recomendações de Venda\n\n")
	b.WriteString("Com base na análise da transcrição e nos dados enriquecidos, recomendamos:\n\n")
	b.WriteString("- Focar nos stakeholders-chave identificados no LinkedIn para personalizar a abordagem de vendas\n")
	b.WriteString("- Destacar como seus produtos/serviços podem resolver as dores identificadas\n")
	b.WriteString("- Utilizar os dados do website da empresa para entender melhor seu contexto e necessidades\n")

	return b.String()
}
