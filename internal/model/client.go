package model

// Industry is the detected vertical of the client company.
type Industry string

const (
	IndustryTech          Industry = "tech"
	IndustryManufacturing Industry = "manufacturing"
	IndustryFinancial     Industry = "financial"
	IndustryLogistics     Industry = "logistics"
	IndustryHealthcare    Industry = "healthcare"
	IndustryRetail        Industry = "retail"
	IndustryEducation     Industry = "education"
	IndustryGeneral       Industry = "general"
)

// FunnelStage is the buyer's position in the sales funnel.
type FunnelStage string

const (
	StageAwareness      FunnelStage = "awareness"
	StageConsideration  FunnelStage = "consideration"
	StageDecision       FunnelStage = "decision"
	StageImplementation FunnelStage = "implementation"
)

// ClientAnalysis is the derived classification used to personalize reports.
type ClientAnalysis struct {
	Industry       Industry            `json:"industry"`
	FunnelStage    FunnelStage         `json:"funnel_stage"`
	IndustryScores map[Industry]int    `json:"industry_scores,omitempty"`
	FunnelScores   map[FunnelStage]int `json:"funnel_scores,omitempty"`
}
