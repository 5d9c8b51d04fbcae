package model

import (
	"maps"
	"math"
	"slices"
)

// Sentiment is the tone attached to a key topic.
type Sentiment string

const (
	SentimentPositive Sentiment = "positivo"
	SentimentNegative Sentiment = "negativo"
	SentimentNeutral  Sentiment = "neutro"
)

// Valid reports whether s is one of the known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Level grades question quality and coaching severity.
type Level string

const (
	LevelHigh   Level = "alta"
	LevelMedium Level = "média"
	LevelLow    Level = "baixa"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// KeyTopic is a subject discussed during the call.
type KeyTopic struct {
	Topic     string    `json:"topic"`
	Mentions  int       `json:"mentions"`
	Sentiment Sentiment `json:"sentiment"`
}

// KeyMoment is a timestamped turning point of the call.
type KeyMoment struct {
	Time        string `json:"time"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// CompetitorMention records a competitor named during the call.
type CompetitorMention struct {
	Competitor string `json:"competitor"`
	Mentions   int    `json:"mentions"`
	Context    string `json:"context"`
}

// Question is a question asked during the call and how well it landed.
type Question struct {
	Time       string `json:"time"`
	Question   string `json:"question"`
	AskedBy    string `json:"askedBy"`
	AnsweredBy string `json:"answeredBy"`
	Quality    Level  `json:"quality"`
}

// NextStep is a follow-up agreed on the call.
type NextStep struct {
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Status      string `json:"status"`
}

// WinningBehavior is something the seller did well.
type WinningBehavior struct {
	Behavior    string `json:"behavior"`
	Description string `json:"description"`
}

// CoachingOpportunity is an area where the seller can improve.
type CoachingOpportunity struct {
	Area        string `json:"area"`
	Severity    Level  `json:"severity"`
	Description string `json:"description"`
}

// CallAnalysis is the conversation-level analysis of a sales call.
// Field names are the stored wire format and must not change.
type CallAnalysis struct {
	Participants          []string              `json:"participants"`
	Date                  string                `json:"date,omitempty"`
	Duration              string                `json:"duration,omitempty"`
	TalkRatio             map[string]float64    `json:"talkRatio"`
	KeyTopics             []KeyTopic            `json:"keyTopics"`
	KeyMoments            []KeyMoment           `json:"keyMoments"`
	CompetitorMentions    []CompetitorMention   `json:"competitorMentions"`
	Questions             []Question            `json:"questions"`
	NextSteps             []NextStep            `json:"nextSteps"`
	WinningBehaviors      []WinningBehavior     `json:"winningBehaviors"`
	CoachingOpportunities []CoachingOpportunity `json:"coachingOpportunities"`
}

// EmptyCallAnalysis returns a CallAnalysis with every container initialized.
func EmptyCallAnalysis() CallAnalysis {
	var c CallAnalysis
	c.Normalize()
	return c
}

// Normalize initializes nil containers and coerces unknown enum values to
// the neutral member of their set.
func (c *CallAnalysis) Normalize() {
	if c.Participants == nil {
		c.Participants = []string{}
	}
	if c.TalkRatio == nil {
		c.TalkRatio = map[string]float64{}
	}
	if c.KeyTopics == nil {
		c.KeyTopics = []KeyTopic{}
	}
	if c.KeyMoments == nil {
		c.KeyMoments = []KeyMoment{}
	}
	if c.CompetitorMentions == nil {
		c.CompetitorMentions = []CompetitorMention{}
	}
	if c.Questions == nil {
		c.Questions = []Question{}
	}
	if c.NextSteps == nil {
		c.NextSteps = []NextStep{}
	}
	if c.WinningBehaviors == nil {
		c.WinningBehaviors = []WinningBehavior{}
	}
	if c.CoachingOpportunities == nil {
		c.CoachingOpportunities = []CoachingOpportunity{}
	}

	for i := range c.KeyTopics {
		if !c.KeyTopics[i].Sentiment.Valid() {
			c.KeyTopics[i].Sentiment = SentimentNeutral
		}
	}
	for i := range c.Questions {
		if !c.Questions[i].Quality.Valid() {
			c.Questions[i].Quality = LevelMedium
		}
	}
	for i := range c.CoachingOpportunities {
		if !c.CoachingOpportunities[i].Severity.Valid() {
			c.CoachingOpportunities[i].Severity = LevelMedium
		}
	}
}

// TalkRatioTotal sums the talk ratio percentages.
func (c CallAnalysis) TalkRatioTotal() float64 {
	var total float64
	for _, pct := range c.TalkRatio {
		total += pct
	}
	return total
}

// BalanceTalkRatio rescales a populated talk ratio to sum to 100 when it is
// off by more than tolerance points. It reports whether a rescale happened.
func (c *CallAnalysis) BalanceTalkRatio(tolerance float64) bool {
	total := c.TalkRatioTotal()
	if len(c.TalkRatio) == 0 || total <= 0 || math.Abs(total-100) <= tolerance {
		return false
	}
	for name, pct := range c.TalkRatio {
		c.TalkRatio[name] = math.Round(pct/total*1000) / 10
	}
	return true
}

// IsEmpty reports whether nothing was detected.
func (c CallAnalysis) IsEmpty() bool {
	return len(c.Participants) == 0 &&
		c.Date == "" &&
		c.Duration == "" &&
		len(c.TalkRatio) == 0 &&
		len(c.KeyTopics) == 0 &&
		len(c.KeyMoments) == 0 &&
		len(c.CompetitorMentions) == 0 &&
		len(c.Questions) == 0 &&
		len(c.NextSteps) == 0 &&
		len(c.WinningBehaviors) == 0 &&
		len(c.CoachingOpportunities) == 0
}

// Clone returns a copy that shares no lists or maps with c.
func (c CallAnalysis) Clone() CallAnalysis {
	c.Participants = slices.Clone(c.Participants)
	c.TalkRatio = maps.Clone(c.TalkRatio)
	c.KeyTopics = slices.Clone(c.KeyTopics)
	c.KeyMoments = slices.Clone(c.KeyMoments)
	c.CompetitorMentions = slices.Clone(c.CompetitorMentions)
	c.Questions = slices.Clone(c.Questions)
	c.NextSteps = slices.Clone(c.NextSteps)
	c.WinningBehaviors = slices.Clone(c.WinningBehaviors)
	c.CoachingOpportunities = slices.Clone(c.CoachingOpportunities)
	return c
}
