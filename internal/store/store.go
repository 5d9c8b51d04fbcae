// Package store persists transcripts, cached analyses and enrichment records.
package store

import (
	"context"

	"github.com/sells-group/call-intel/internal/model"
)

// Store defines the persistence interface for the analysis pipeline.
// Lookups return (nil, nil) when the record does not exist.
type Store interface {
	// Transcripts
	SaveTranscript(ctx context.Context, t *model.Transcript) error
	GetTranscript(ctx context.Context, id string) (*model.Transcript, error)

	// Analysis cache. A nil artifact leaves the stored value untouched.
	GetCachedAnalysis(ctx context.Context, transcriptID string) (*model.CachedAnalysis, error)
	PutCachedAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error

	// Enrichments
	SaveEnrichment(ctx context.Context, e *model.Enrichment) error
	ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
