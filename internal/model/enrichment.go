package model

import (
	"encoding/json"
	"time"
)

// EnrichmentKind identifies the scraping source of an enrichment record.
type EnrichmentKind string

const (
	EnrichmentLinkedIn EnrichmentKind = "linkedin"
	EnrichmentWebsite  EnrichmentKind = "website"
)

// EnrichmentStatus tracks the lifecycle of a scraping job.
type EnrichmentStatus string

const (
	EnrichmentPending    EnrichmentStatus = "pending"
	EnrichmentProcessing EnrichmentStatus = "processing"
	EnrichmentCompleted  EnrichmentStatus = "completed"
	EnrichmentFailed     EnrichmentStatus = "failed"
)

// Enrichment is a scraped payload attached to a transcript. SnapshotID is the
// opaque id of the external scraping job that produced it, when known.
type Enrichment struct {
	ID           string           `json:"id"`
	TranscriptID string           `json:"transcript_id"`
	Kind         EnrichmentKind   `json:"kind"`
	URL          string           `json:"url"`
	Status       EnrichmentStatus `json:"status"`
	SnapshotID   string           `json:"snapshot_id,omitempty"`
	Data         json.RawMessage  `json:"data,omitempty"`
	ScrapedAt    *time.Time       `json:"scraped_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Experience is one position in a LinkedIn profile.
type Experience struct {
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Education is one entry of a LinkedIn profile's education history.
type Education struct {
	School string `json:"school,omitempty"`
	Degree string `json:"degree,omitempty"`
}

// LinkedInProfile is the best-effort profile returned by the LinkedIn scraper.
// Every field may be missing.
type LinkedInProfile struct {
	Name       string       `json:"name,omitempty"`
	Headline   string       `json:"headline,omitempty"`
	Company    string       `json:"company,omitempty"`
	Location   string       `json:"location,omitempty"`
	ProfileURL string       `json:"profile_url,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Interests  []string     `json:"interests,omitempty"`
	Activities []string     `json:"activities,omitempty"`
}

// Service is a product or service listed on the company website.
type Service struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// TeamMember is a person listed on the company website.
type TeamMember struct {
	Name     string `json:"name,omitempty"`
	Position string `json:"position,omitempty"`
}

// CompanyData is the best-effort company profile returned by the website
// scraper. A non-empty Error means the scrape failed and the rest is unusable.
type CompanyData struct {
	Name         string       `json:"name,omitempty"`
	About        string       `json:"about,omitempty"`
	Services     []Service    `json:"services,omitempty"`
	Team         []TeamMember `json:"team,omitempty"`
	Technologies []string     `json:"technologies,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// Usable reports whether the company data can be trusted.
func (c *CompanyData) Usable() bool {
	return c != nil && c.Error == ""
}
