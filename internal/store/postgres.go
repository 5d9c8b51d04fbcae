package store

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/call-intel/internal/db"
	"github.com/sells-group/call-intel/internal/model"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	sqlGetTranscript = `SELECT id, transcript, storage_path, duration_seconds, language, created_at FROM transcripts WHERE id = $1`
	sqlGetAnalysis   = `SELECT transcript_id, sales_data, call_analysis, created_at, updated_at FROM analyses WHERE transcript_id = $1`
	sqlListEnrich    = `SELECT id, transcript_id, kind, url, status, snapshot_id, data, scraped_at, created_at, updated_at
		FROM enrichments WHERE transcript_id = $1 AND kind = $2 ORDER BY created_at, id`
)

// preparedStatements lists the lookups prepared on each new connection.
var preparedStatements = map[string]string{
	"get_transcript":   sqlGetTranscript,
	"get_analysis":     sqlGetAnalysis,
	"list_enrichments": sqlListEnrich,
}

var (
	transcriptUpsert = db.UpsertConfig{
		Table:        "transcripts",
		Columns:      []string{"id", "transcript", "storage_path", "duration_seconds", "language", "created_at"},
		ConflictKeys: []string{"id"},
		UpdateCols:   []string{"transcript", "storage_path", "duration_seconds", "language"},
	}
	analysisUpsert = db.UpsertConfig{
		Table:        "analyses",
		Columns:      []string{"id", "transcript_id", "sales_data", "call_analysis", "created_at", "updated_at"},
		ConflictKeys: []string{"transcript_id"},
		UpdateCols:   []string{"sales_data", "call_analysis", "updated_at"},
		KeepOnNull:   []string{"sales_data", "call_analysis"},
	}
	enrichmentUpsert = db.UpsertConfig{
		Table: "enrichments",
		Columns: []string{"id", "transcript_id", "kind", "url", "status", "snapshot_id",
			"data", "scraped_at", "created_at", "updated_at"},
		ConflictKeys: []string{"transcript_id", "kind", "url"},
		UpdateCols:   []string{"status", "snapshot_id", "data", "scraped_at", "updated_at"},
		KeepOnNull:   []string{"data", "scraped_at"},
	}
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Migrate applies the embedded schema migrations that have not run yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return eris.Wrap(db.Migrate(ctx, s.pool, migrationFS, "migrations"), "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveTranscript(ctx context.Context, t *model.Transcript) error {
	if err := prepareTranscript(t); err != nil {
		return err
	}
	_, err := db.Upsert(ctx, s.pool, transcriptUpsert,
		t.ID, t.Text, t.StoragePath, t.DurationSeconds, t.Language, t.CreatedAt)
	return eris.Wrapf(err, "postgres: save transcript %s", t.ID)
}

func (s *PostgresStore) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	var t model.Transcript
	err := s.pool.QueryRow(ctx, sqlGetTranscript, id).
		Scan(&t.ID, &t.Text, &t.StoragePath, &t.DurationSeconds, &t.Language, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get transcript %s", id)
	}
	return &t, nil
}

func (s *PostgresStore) GetCachedAnalysis(ctx context.Context, transcriptID string) (*model.CachedAnalysis, error) {
	var (
		rec          model.CachedAnalysis
		sales, calls []byte
	)
	err := s.pool.QueryRow(ctx, sqlGetAnalysis, transcriptID).
		Scan(&rec.TranscriptID, &sales, &calls, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get cached analysis %s", transcriptID)
	}

	decodeArtifacts(&rec, sales, calls)
	return &rec, nil
}

func (s *PostgresStore) PutCachedAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error {
	salesJSON, err := encodeArtifact(sales)
	if err != nil {
		return err
	}
	callJSON, err := encodeArtifact(call)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Upsert(ctx, s.pool, analysisUpsert,
		newID(), transcriptID, jsonArg(salesJSON), jsonArg(callJSON), now, now)
	return eris.Wrapf(err, "postgres: put cached analysis %s", transcriptID)
}

func (s *PostgresStore) SaveEnrichment(ctx context.Context, e *model.Enrichment) error {
	if err := prepareEnrichment(e); err != nil {
		return err
	}
	_, err := db.Upsert(ctx, s.pool, enrichmentUpsert,
		e.ID, e.TranscriptID, string(e.Kind), e.URL, string(e.Status), e.SnapshotID,
		jsonArg(e.Data), e.ScrapedAt, e.CreatedAt, e.UpdatedAt)
	return eris.Wrapf(err, "postgres: save %s enrichment for %s", e.Kind, e.TranscriptID)
}

func (s *PostgresStore) ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error) {
	rows, err := s.pool.Query(ctx, sqlListEnrich, transcriptID, string(kind))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list enrichments")
	}
	defer rows.Close()

	var out []model.Enrichment
	for rows.Next() {
		var (
			e         model.Enrichment
			kindStr   string
			statusStr string
			data      []byte
			scrapedAt *time.Time
		)
		if err := rows.Scan(&e.ID, &e.TranscriptID, &kindStr, &e.URL, &statusStr, &e.SnapshotID,
			&data, &scrapedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan enrichment")
		}
		e.Kind = model.EnrichmentKind(kindStr)
		e.Status = model.EnrichmentStatus(statusStr)
		if len(data) > 0 {
			e.Data = data
		}
		e.ScrapedAt = scrapedAt
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list enrichments iterate")
}

// jsonArg maps an empty encoded value to SQL NULL.
func jsonArg(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
