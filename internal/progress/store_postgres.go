package progress

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements CompletionStore backed by PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed completion store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the lecture_completions and course_seeds tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("progress store pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate progress tables: %w", err)
	}
	return nil
}

func (s *PostgresStore) Completed(ctx context.Context, courseID string) ([]string, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("progress store pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT lecture_id FROM lecture_completions
		 WHERE course_id = $1
		 ORDER BY lecture_id`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan completions: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Set(ctx context.Context, courseID, lectureID string, completed bool) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("progress store pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if completed {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO lecture_completions (course_id, lecture_id, completed_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (course_id, lecture_id) DO NOTHING`,
			courseID, lectureID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("insert completion: %w", err)
		}
	} else {
		cmd, err := s.pool.Exec(ctx,
			`DELETE FROM lecture_completions WHERE course_id = $1 AND lecture_id = $2`,
			courseID, lectureID,
		)
		if err != nil {
			return fmt.Errorf("delete completion: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			slog.Debug("completion already absent", "course_id", courseID, "lecture_id", lectureID)
		}
	}
	return nil
}

func (s *PostgresStore) Seeded(ctx context.Context, courseID string) (bool, error) {
	if s == nil || s.pool == nil {
		return false, fmt.Errorf("progress store pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var seeded bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM course_seeds WHERE course_id = $1)`,
		courseID,
	).Scan(&seeded)
	if err != nil {
		return false, fmt.Errorf("query seed marker: %w", err)
	}
	return seeded, nil
}

func (s *PostgresStore) MarkSeeded(ctx context.Context, courseID string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("progress store pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO course_seeds (course_id, seeded_at)
		 VALUES ($1, $2)
		 ON CONFLICT (course_id) DO NOTHING`,
		courseID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert seed marker: %w", err)
	}
	return nil
}
