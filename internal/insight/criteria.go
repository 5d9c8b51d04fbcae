// Package insight derives decision criteria and value drivers from a
// transcript and its extracted sales data.
package insight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/call-intel/internal/classify"
	"github.com/sells-group/call-intel/internal/model"
)

// minCriterionRunes drops spans too short to say anything.
const minCriterionRunes = 10

var criteriaKeywords = []string{
	"critério", "critérios", "importante", "essencial", "fundamental",
	"requisito", "necessário", "obrigatório", "prioridade", "decisivo",
	"diferencial", "vantagem", "benefício", "preço", "custo", "valor",
	"prazo", "tempo", "rapidez", "qualidade", "atendimento", "suporte",
	"segurança", "confiança", "reputação", "garantia", "facilidade",
	"experiência", "integração", "escalabilidade", "customização",
}

// criteriaPatterns match a keyword and the rest of its sentence.
var criteriaPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(criteriaKeywords))
	for i, kw := range criteriaKeywords {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw) + `[^.!?]*[.!?]`)
	}
	return out
}()

var (
	painNeedVerbs     = []string{"precisamos", "necessitamos", "queremos", "buscamos"}
	sentenceNeedVerbs = []string{"precisa", "necessita", "quer", "busca", "fundamental", "crucial"}
	sentenceSplit     = regexp.MustCompile(`[.!?]`)
)

// sentenceSpans returns the spans matched by re that start on a word
// boundary. A match without a leading boundary is retried one rune later.
func sentenceSpans(re *regexp.Regexp, text string) []string {
	var spans []string
	for pos := 0; pos < len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if classify.HasWordStart(text, start) {
			spans = append(spans, text[start:end])
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return spans
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ExtractDecisionCriteria lists what the client said matters to the
// purchase: sentences that mention a criterion keyword, pains phrased as
// needs ("Resolver: ...") and need statements from the SPIN analysis
// ("Necessidade: ..."). The result is unique and in first-seen order.
func ExtractDecisionCriteria(text string, sales model.SalesData) []string {
	var criteria []string

	for _, re := range criteriaPatterns {
		for _, span := range sentenceSpans(re, text) {
			if utf8.RuneCountInString(span) > minCriterionRunes {
				criteria = append(criteria, strings.TrimSpace(span))
			}
		}
	}

	for _, pain := range sales.Dores {
		if containsAny(strings.ToLower(pain), painNeedVerbs) {
			criteria = append(criteria, "Resolver: "+pain)
		}
	}

	if needs := sales.SPIN.Necessidade; needs != "" {
		for _, sentence := range sentenceSplit.Split(needs, -1) {
			if containsAny(strings.ToLower(sentence), sentenceNeedVerbs) {
				criteria = append(criteria, "Necessidade: "+strings.TrimSpace(sentence))
			}
		}
	}

	return dedupe(criteria)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
