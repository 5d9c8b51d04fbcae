// Package enrich reads and records the scraped LinkedIn and website data
// attached to a transcript.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/call-intel/internal/model"
)

// Records is the slice of the store the gatherer needs.
type Records interface {
	SaveEnrichment(ctx context.Context, e *model.Enrichment) error
	ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error)
}

// Bundle is the enrichment data available for one transcript. Either part
// may be empty.
type Bundle struct {
	Profiles []model.LinkedInProfile
	Company  *model.CompanyData
}

// Empty reports whether no enrichment data was found.
func (b Bundle) Empty() bool {
	return len(b.Profiles) == 0 && b.Company == nil
}

// Gatherer collects enrichment data for transcripts.
type Gatherer struct {
	records  Records
	validate *validator.Validate
}

// NewGatherer creates a Gatherer over the given records.
func NewGatherer(records Records) *Gatherer {
	return &Gatherer{records: records, validate: validator.New()}
}

// Gather reads the LinkedIn and website enrichments concurrently. It is best
// effort: a failing source yields an empty part and a warning.
func (g *Gatherer) Gather(ctx context.Context, transcriptID string) Bundle {
	log := zap.L().With(zap.String("transcript_id", transcriptID))
	var b Bundle

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		recs, err := g.records.ListEnrichments(gctx, transcriptID, model.EnrichmentLinkedIn)
		if err != nil {
			log.Warn("enrich: linkedin lookup failed", zap.Error(err))
			return nil
		}
		b.Profiles = profiles(log, recs)
		return nil
	})
	eg.Go(func() error {
		recs, err := g.records.ListEnrichments(gctx, transcriptID, model.EnrichmentWebsite)
		if err != nil {
			log.Warn("enrich: website lookup failed", zap.Error(err))
			return nil
		}
		b.Company = company(log, recs)
		return nil
	})
	_ = eg.Wait()

	log.Debug("enrich: gathered",
		zap.Int("profiles", len(b.Profiles)),
		zap.Bool("company", b.Company != nil),
	)
	return b
}

// profiles decodes every completed LinkedIn record. A record may hold one
// profile or an array of them.
func profiles(log *zap.Logger, recs []model.Enrichment) []model.LinkedInProfile {
	var out []model.LinkedInProfile
	for _, rec := range recs {
		if rec.Status != model.EnrichmentCompleted || len(rec.Data) == 0 {
			continue
		}
		got, err := decodeOneOrMany[model.LinkedInProfile](rec.Data)
		if err != nil {
			log.Warn("enrich: unparseable linkedin data", zap.String("enrichment_id", rec.ID), zap.Error(err))
			continue
		}
		out = append(out, got...)
	}
	return out
}

// company decodes the most recent completed website record.
func company(log *zap.Logger, recs []model.Enrichment) *model.CompanyData {
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		if rec.Status != model.EnrichmentCompleted || len(rec.Data) == 0 {
			continue
		}
		got, err := decodeOneOrMany[model.CompanyData](rec.Data)
		if err != nil || len(got) == 0 {
			log.Warn("enrich: unparseable website data", zap.String("enrichment_id", rec.ID), zap.Error(err))
			continue
		}
		return &got[0]
	}
	return nil
}

func decodeOneOrMany[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, eris.Wrap(err, "enrich: decode list")
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, eris.Wrap(err, "enrich: decode object")
	}
	return []T{one}, nil
}

// ImportRequest is a scraped payload to attach to a transcript.
type ImportRequest struct {
	TranscriptID string               `validate:"required"`
	Kind         model.EnrichmentKind `validate:"required,oneof=linkedin website"`
	URL          string               `validate:"omitempty,url"`
	SnapshotID   string
	Data         json.RawMessage `validate:"required"`
}

// Import records a scraped payload as a completed enrichment.
func (g *Gatherer) Import(ctx context.Context, req ImportRequest) (*model.Enrichment, error) {
	if err := g.validate.Struct(req); err != nil {
		return nil, eris.Wrap(err, "enrich: invalid import")
	}
	if !json.Valid(req.Data) {
		return nil, eris.New("enrich: import data is not valid JSON")
	}

	now := time.Now().UTC()
	e := &model.Enrichment{
		TranscriptID: req.TranscriptID,
		Kind:         req.Kind,
		URL:          req.URL,
		Status:       model.EnrichmentCompleted,
		SnapshotID:   req.SnapshotID,
		Data:         req.Data,
		ScrapedAt:    &now,
	}
	if err := g.records.SaveEnrichment(ctx, e); err != nil {
		return nil, eris.Wrapf(err, "enrich: save %s enrichment", req.Kind)
	}
	zap.L().Info("enrich: imported",
		zap.String("transcript_id", req.TranscriptID),
		zap.String("kind", string(req.Kind)),
		zap.String("url", req.URL),
	)
	return e, nil
}
