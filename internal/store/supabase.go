package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	postgrest "github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/model"
)

// SupabaseStore implements Store over the PostgREST API of a hosted
// Supabase project. The schema is owned by the project, so Migrate only
// checks connectivity.
type SupabaseStore struct {
	client *postgrest.Client
}

// SupabaseConfig locates the Supabase project.
type SupabaseConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Key    string `yaml:"key" mapstructure:"key"`
	Schema string `yaml:"schema" mapstructure:"schema"`
}

// enrichmentTable maps an enrichment kind to its table and column names.
type enrichmentTable struct {
	table   string
	urlCol  string
	dataCol string
}

var enrichmentTables = map[model.EnrichmentKind]enrichmentTable{
	model.EnrichmentLinkedIn: {table: "linkedin_enrichments", urlCol: "linkedin_url", dataCol: "profile_data"},
	model.EnrichmentWebsite:  {table: "website_enrichments", urlCol: "website_url", dataCol: "parsed_data"},
}

// NewSupabase creates a PostgREST client for the project at cfg.URL.
func NewSupabase(cfg SupabaseConfig) (*SupabaseStore, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, eris.New("supabase: url and key are required")
	}
	client := postgrest.NewClient(cfg.URL+"/rest/v1", cfg.Schema, map[string]string{
		"apikey":        cfg.Key,
		"Authorization": "Bearer " + cfg.Key,
	})
	if client.ClientError != nil {
		return nil, eris.Wrap(client.ClientError, "supabase: init client")
	}
	return &SupabaseStore{client: client}, nil
}

type transcriptRow struct {
	ID              string    `json:"id"`
	Transcript      string    `json:"transcript"`
	StoragePath     *string   `json:"storage_path"`
	DurationSeconds *int      `json:"duration_seconds"`
	Language        *string   `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
}

type analysisRow struct {
	TranscriptID string          `json:"transcript_id"`
	SalesData    json.RawMessage `json:"sales_data"`
	CallAnalysis json.RawMessage `json:"call_analysis"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Migrate verifies the transcripts table is reachable.
func (s *SupabaseStore) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From("transcripts").Select("id", "", false).Limit(1, "").Execute(); err != nil {
		return eris.Wrap(err, "supabase: migrate check")
	}
	zap.L().Info("supabase: schema is managed by the project, nothing to migrate")
	return nil
}

func (s *SupabaseStore) Close() error {
	return nil
}

func (s *SupabaseStore) SaveTranscript(ctx context.Context, t *model.Transcript) error {
	if err := prepareTranscript(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	row := map[string]any{
		"id":               t.ID,
		"transcript":       t.Text,
		"storage_path":     t.StoragePath,
		"duration_seconds": t.DurationSeconds,
		"language":         t.Language,
		"created_at":       t.CreatedAt,
	}
	_, _, err := s.client.From("transcripts").Upsert(row, "id", "minimal", "").Execute()
	return eris.Wrapf(err, "supabase: save transcript %s", t.ID)
}

func (s *SupabaseStore) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []transcriptRow
	if _, err := s.client.From("transcripts").Select("*", "", false).Eq("id", id).Limit(1, "").ExecuteTo(&rows); err != nil {
		return nil, eris.Wrapf(err, "supabase: get transcript %s", id)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	t := &model.Transcript{ID: r.ID, Text: r.Transcript, Language: model.DefaultLanguage, CreatedAt: r.CreatedAt}
	if r.StoragePath != nil {
		t.StoragePath = *r.StoragePath
	}
	if r.DurationSeconds != nil {
		t.DurationSeconds = *r.DurationSeconds
	}
	if r.Language != nil && *r.Language != "" {
		t.Language = *r.Language
	}
	return t, nil
}

func (s *SupabaseStore) GetCachedAnalysis(ctx context.Context, transcriptID string) (*model.CachedAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []analysisRow
	if _, err := s.client.From("analyses").Select("*", "", false).Eq("transcript_id", transcriptID).Limit(1, "").ExecuteTo(&rows); err != nil {
		return nil, eris.Wrapf(err, "supabase: get cached analysis %s", transcriptID)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	rec := &model.CachedAnalysis{TranscriptID: r.TranscriptID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	decodeArtifacts(rec, r.SalesData, r.CallAnalysis)
	return rec, nil
}

// PutCachedAnalysis upserts on transcript_id. Only the artifacts passed are
// sent, so merge-duplicates leaves the other column untouched.
func (s *SupabaseStore) PutCachedAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := map[string]any{
		"transcript_id": transcriptID,
		"updated_at":    time.Now().UTC(),
	}
	if sales != nil {
		row["sales_data"] = sales
	}
	if call != nil {
		row["call_analysis"] = call
	}
	_, _, err := s.client.From("analyses").Upsert(row, "transcript_id", "minimal", "").Execute()
	return eris.Wrapf(err, "supabase: put cached analysis %s", transcriptID)
}

func (s *SupabaseStore) SaveEnrichment(ctx context.Context, e *model.Enrichment) error {
	if err := prepareEnrichment(e); err != nil {
		return err
	}
	tbl, ok := enrichmentTables[e.Kind]
	if !ok {
		return eris.Errorf("supabase: unknown enrichment kind %q", e.Kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	row := map[string]any{
		"id":            e.ID,
		"transcript_id": e.TranscriptID,
		tbl.urlCol:      e.URL,
		"status":        string(e.Status),
		"updated_at":    e.UpdatedAt,
	}
	if e.SnapshotID != "" {
		row["snapshot_id"] = e.SnapshotID
	}
	if len(e.Data) > 0 {
		row[tbl.dataCol] = e.Data
	}
	if e.ScrapedAt != nil {
		row["scraped_at"] = e.ScrapedAt
	}
	_, _, err := s.client.From(tbl.table).Upsert(row, "transcript_id,"+tbl.urlCol, "minimal", "").Execute()
	return eris.Wrapf(err, "supabase: save %s enrichment for %s", e.Kind, e.TranscriptID)
}

func (s *SupabaseStore) ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error) {
	tbl, ok := enrichmentTables[kind]
	if !ok {
		return nil, eris.Errorf("supabase: unknown enrichment kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []map[string]json.RawMessage
	if _, err := s.client.From(tbl.table).Select("*", "", false).
		Eq("transcript_id", transcriptID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, eris.Wrapf(err, "supabase: list %s enrichments", kind)
	}

	out := make([]model.Enrichment, 0, len(rows))
	for _, r := range rows {
		e := model.Enrichment{Kind: kind}
		fields := []struct {
			col string
			dst any
		}{
			{"id", &e.ID},
			{"transcript_id", &e.TranscriptID},
			{tbl.urlCol, &e.URL},
			{"status", &e.Status},
			{"snapshot_id", &e.SnapshotID},
			{"scraped_at", &e.ScrapedAt},
			{"created_at", &e.CreatedAt},
			{"updated_at", &e.UpdatedAt},
		}
		for _, f := range fields {
			raw, ok := r[f.col]
			if !ok || isNullJSON(raw) {
				continue
			}
			if err := json.Unmarshal(raw, f.dst); err != nil {
				return nil, eris.Wrapf(err, "supabase: decode %s.%s", tbl.table, f.col)
			}
		}
		if raw := r[tbl.dataCol]; !isNullJSON(raw) {
			e.Data = raw
		}
		out = append(out, e)
	}
	return out, nil
}
