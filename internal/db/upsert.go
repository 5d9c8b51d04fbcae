package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig defines a single-row INSERT ... ON CONFLICT statement.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified
	Columns      []string // all columns being inserted, in argument order
	ConflictKeys []string // columns forming the unique constraint
	UpdateCols   []string // columns to update on conflict; nil = all non-conflict columns
	// KeepOnNull lists update columns whose stored value is kept when the
	// incoming value is NULL.
	KeepOnNull []string
}

// Build renders the upsert statement with $n placeholders.
func (cfg UpsertConfig) Build() (string, error) {
	if len(cfg.Columns) == 0 {
		return "", eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return "", eris.New("db: upsert: no conflict keys specified")
	}

	updateCols := cfg.UpdateCols
	if updateCols == nil {
		conflictSet := make(map[string]bool, len(cfg.ConflictKeys))
		for _, k := range cfg.ConflictKeys {
			conflictSet[k] = true
		}
		for _, c := range cfg.Columns {
			if !conflictSet[c] {
				updateCols = append(updateCols, c)
			}
		}
	}

	keep := make(map[string]bool, len(cfg.KeepOnNull))
	for _, c := range cfg.KeepOnNull {
		keep[c] = true
	}

	placeholders := make([]string, len(cfg.Columns))
	for i := range cfg.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	table := sanitizeTable(cfg.Table)
	setClauses := make([]string, 0, len(updateCols))
	for _, col := range updateCols {
		id := pgx.Identifier{col}.Sanitize()
		if keep[col] {
			setClauses = append(setClauses, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, %s.%s)", id, id, table, id))
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", id, id))
	}

	action := "DO NOTHING"
	if len(setClauses) > 0 {
		action = "DO UPDATE SET " + strings.Join(setClauses, ", ")
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s",
		table,
		quoteAndJoin(cfg.Columns),
		strings.Join(placeholders, ", "),
		quoteAndJoin(cfg.ConflictKeys),
		action,
	), nil
}

// Upsert inserts one row or updates the row holding the same conflict keys.
// values follow cfg.Columns order.
func Upsert(ctx context.Context, pool Pool, cfg UpsertConfig, values ...any) (int64, error) {
	if len(values) != len(cfg.Columns) {
		return 0, eris.Errorf("db: upsert %s: %d values for %d columns", cfg.Table, len(values), len(cfg.Columns))
	}
	sql, err := cfg.Build()
	if err != nil {
		return 0, err
	}
	tag, err := pool.Exec(ctx, sql, values...)
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert %s", cfg.Table)
	}
	return tag.RowsAffected(), nil
}

// sanitizeTable handles schema-qualified table names like "public.analyses".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
