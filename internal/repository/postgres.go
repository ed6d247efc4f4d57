package repository

import (
	"context"
	"fmt"

	"tokyo-valuation-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and *pgx.Conn.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository stores the location score table in PostgreSQL
type Repository struct {
	db DBTX
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the town_scores table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS town_scores (
		location_key VARCHAR(255) PRIMARY KEY,
		score DOUBLE PRECISION NOT NULL
	);
	`
	if _, err := r.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("repository: failed to create town_scores: %w", err)
	}
	return nil
}

// ReplaceTownScores swaps the whole table content for scores in one
// transaction. On failure the previous rows are kept.
func (r *Repository) ReplaceTownScores(ctx context.Context, scores []models.TownScore) (int64, error) {
	var n int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "TRUNCATE town_scores"); err != nil {
			return fmt.Errorf("repository: failed to truncate town_scores: %w", err)
		}

		var err error
		n, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"town_scores"},
			[]string{"location_key", "score"},
			pgx.CopyFromSlice(len(scores), func(i int) ([]any, error) {
				return []any{scores[i].LocationKey, scores[i].Score}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("repository: failed to copy town scores: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountTownScores returns the number of stored locations
func (r *Repository) CountTownScores(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM town_scores").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count town scores: %w", err)
	}
	return count, nil
}

// LoadScoreTable reads every row of town_scores
func (r *Repository) LoadScoreTable(ctx context.Context) (models.LocationScoreTable, error) {
	rows, err := r.db.Query(ctx, "SELECT location_key, score FROM town_scores")
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query town scores: %w", err)
	}
	defer rows.Close()

	table := make(models.LocationScoreTable)
	for rows.Next() {
		var ts models.TownScore
		if err := rows.Scan(&ts.LocationKey, &ts.Score); err != nil {
			return nil, fmt.Errorf("repository: failed to scan town score: %w", err)
		}
		table[ts.LocationKey] = ts.Score
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return table, nil
}
