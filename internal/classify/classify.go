// Package classify assigns an industry and a sales-funnel stage to a client
// by scoring text against curated keyword tables. Results are deterministic
// and every score is exposed for auditing.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/model"
)

// companyWeight multiplies keyword hits found in the company description.
const companyWeight = 2

// scored is one category total in table order.
type scored[K comparable] struct {
	label K
	score int
}

func scoreTable[K comparable](table []keywordSet[K], text string) []scored[K] {
	out := make([]scored[K], len(table))
	for i, set := range table {
		out[i].label = set.Label
		if text == "" {
			continue
		}
		for _, kw := range set.Keywords {
			out[i].score += CountWord(text, kw)
		}
	}
	return out
}

// pick returns the top label, or fallback when the top score is zero or
// shared with another category.
func pick[K comparable](scores []scored[K], fallback K) K {
	best, second := -1, -1
	var label K
	for _, s := range scores {
		switch {
		case s.score > best:
			second = best
			best = s.score
			label = s.label
		case s.score > second:
			second = s.score
		}
	}
	if best <= 0 || best == second {
		return fallback
	}
	return label
}

func toMap[K comparable](scores []scored[K]) map[K]int {
	m := make(map[K]int, len(scores))
	for _, s := range scores {
		m[s.label] = s.score
	}
	return m
}

func industryScores(text string, company *model.CompanyData) []scored[model.Industry] {
	scores := scoreTable(industryKeywords, fold(text))
	if company != nil && company.Usable() && company.About != "" {
		about := scoreTable(industryKeywords, fold(company.About))
		for i := range scores {
			scores[i].score += about[i].score * companyWeight
		}
	}
	return scores
}

// IndustryScores returns the keyword total per industry, including the
// weighted company description.
func IndustryScores(text string, company *model.CompanyData) map[model.Industry]int {
	return toMap(industryScores(text, company))
}

// ClassifyIndustry returns the best-scoring industry for the transcript and
// company description, or IndustryGeneral on zero or tied scores.
func ClassifyIndustry(text string, company *model.CompanyData) model.Industry {
	return pick(industryScores(text, company), model.IndustryGeneral)
}

func applyRules(scores []scored[model.FunnelStage], field string, rules []bantRule) {
	field = fold(field)
	if field == "" {
		return
	}
	for _, r := range rules {
		for _, phrase := range r.Phrases {
			if !strings.Contains(field, phrase) {
				continue
			}
			for i := range scores {
				if scores[i].label == r.Stage {
					scores[i].score += r.Points
				}
			}
			return
		}
	}
}

func funnelScores(text string, bant model.BANT) []scored[model.FunnelStage] {
	scores := scoreTable(funnelKeywords, fold(text))
	applyRules(scores, bant.Timeline, timelineRules)
	applyRules(scores, bant.Budget, budgetRules)
	applyRules(scores, bant.Authority, authorityRules)
	return scores
}

// FunnelScores returns the keyword total per funnel stage after the BANT
// adjustments.
func FunnelScores(text string, bant model.BANT) map[model.FunnelStage]int {
	return toMap(funnelScores(text, bant))
}

// ClassifyFunnelStage returns the best-scoring funnel stage, or
// StageConsideration on zero or tied scores.
func ClassifyFunnelStage(text string, bant model.BANT) model.FunnelStage {
	return pick(funnelScores(text, bant), model.StageConsideration)
}

// AnalyzeClient classifies both dimensions and keeps the scores.
func AnalyzeClient(text string, sales model.SalesData, company *model.CompanyData) model.ClientAnalysis {
	ind := industryScores(text, company)
	fun := funnelScores(text, sales.BANT)
	ca := model.ClientAnalysis{
		Industry:       pick(ind, model.IndustryGeneral),
		FunnelStage:    pick(fun, model.StageConsideration),
		IndustryScores: toMap(ind),
		FunnelScores:   toMap(fun),
	}
	zap.L().Debug("classify: client analyzed",
		zap.String("industry", string(ca.Industry)),
		zap.String("stage", string(ca.FunnelStage)),
	)
	return ca
}
