package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/call-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS transcripts (
	id               TEXT PRIMARY KEY,
	transcript       TEXT NOT NULL DEFAULT '',
	storage_path     TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	language         TEXT NOT NULL DEFAULT 'pt',
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	transcript_id TEXT NOT NULL UNIQUE,
	sales_data    TEXT,
	call_analysis TEXT,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS enrichments (
	id            TEXT PRIMARY KEY,
	transcript_id TEXT NOT NULL,
	kind          TEXT NOT NULL,
	url           TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'pending',
	snapshot_id   TEXT NOT NULL DEFAULT '',
	data          TEXT,
	scraped_at    DATETIME,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (transcript_id, kind, url)
);

CREATE INDEX IF NOT EXISTS idx_enrichments_transcript ON enrichments(transcript_id, kind);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveTranscript(ctx context.Context, t *model.Transcript) error {
	if err := prepareTranscript(t); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (id, transcript, storage_path, duration_seconds, language, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			transcript = excluded.transcript,
			storage_path = excluded.storage_path,
			duration_seconds = excluded.duration_seconds,
			language = excluded.language`,
		t.ID, t.Text, t.StoragePath, t.DurationSeconds, t.Language, t.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: save transcript %s", t.ID)
}

func (s *SQLiteStore) GetTranscript(ctx context.Context, id string) (*model.Transcript, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, transcript, storage_path, duration_seconds, language, created_at FROM transcripts WHERE id = ?`,
		id,
	)
	var t model.Transcript
	err := row.Scan(&t.ID, &t.Text, &t.StoragePath, &t.DurationSeconds, &t.Language, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get transcript %s", id)
	}
	return &t, nil
}

func (s *SQLiteStore) GetCachedAnalysis(ctx context.Context, transcriptID string) (*model.CachedAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT transcript_id, sales_data, call_analysis, created_at, updated_at FROM analyses WHERE transcript_id = ?`,
		transcriptID,
	)

	var (
		rec        model.CachedAnalysis
		sales, cal sql.NullString
	)
	err := row.Scan(&rec.TranscriptID, &sales, &cal, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get cached analysis %s", transcriptID)
	}

	decodeArtifacts(&rec, []byte(sales.String), []byte(cal.String))
	return &rec, nil
}

func (s *SQLiteStore) PutCachedAnalysis(ctx context.Context, transcriptID string, sales *model.SalesData, call *model.CallAnalysis) error {
	salesJSON, err := encodeArtifact(sales)
	if err != nil {
		return err
	}
	callJSON, err := encodeArtifact(call)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, transcript_id, sales_data, call_analysis, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(transcript_id) DO UPDATE SET
			sales_data = COALESCE(excluded.sales_data, analyses.sales_data),
			call_analysis = COALESCE(excluded.call_analysis, analyses.call_analysis),
			updated_at = excluded.updated_at`,
		newID(), transcriptID, nullable(salesJSON), nullable(callJSON), now, now,
	)
	return eris.Wrapf(err, "sqlite: put cached analysis %s", transcriptID)
}

func (s *SQLiteStore) SaveEnrichment(ctx context.Context, e *model.Enrichment) error {
	if err := prepareEnrichment(e); err != nil {
		return err
	}
	var data any
	if len(e.Data) > 0 {
		data = string(e.Data)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrichments (id, transcript_id, kind, url, status, snapshot_id, data, scraped_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(transcript_id, kind, url) DO UPDATE SET
			status = excluded.status,
			snapshot_id = excluded.snapshot_id,
			data = COALESCE(excluded.data, enrichments.data),
			scraped_at = COALESCE(excluded.scraped_at, enrichments.scraped_at),
			updated_at = excluded.updated_at`,
		e.ID, e.TranscriptID, string(e.Kind), e.URL, string(e.Status), e.SnapshotID,
		data, e.ScrapedAt, e.CreatedAt, e.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: save %s enrichment for %s", e.Kind, e.TranscriptID)
}

func (s *SQLiteStore) ListEnrichments(ctx context.Context, transcriptID string, kind model.EnrichmentKind) ([]model.Enrichment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, transcript_id, kind, url, status, snapshot_id, data, scraped_at, created_at, updated_at
		 FROM enrichments WHERE transcript_id = ? AND kind = ?
		 ORDER BY created_at, id`,
		transcriptID, string(kind),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list enrichments")
	}
	defer rows.Close()

	var out []model.Enrichment
	for rows.Next() {
		var (
			e       model.Enrichment
			data    sql.NullString
			scraped sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.TranscriptID, &e.Kind, &e.URL, &e.Status, &e.SnapshotID,
			&data, &scraped, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan enrichment")
		}
		if data.Valid {
			e.Data = []byte(data.String)
		}
		if scraped.Valid {
			ts := scraped.Time
			e.ScrapedAt = &ts
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list enrichments iterate")
}
