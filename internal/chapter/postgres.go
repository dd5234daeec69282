package chapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the chapters table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS chapters (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL DEFAULT '',
    text       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given database
// connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// chapters table if it does not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("chapter: migrate: %w", err)
	}
	return nil
}

// Get implements [Store.Get].
func (s *PostgresStore) Get(ctx context.Context, id string) (Chapter, error) {
	const query = `
		SELECT id, title, text, created_at, updated_at
		FROM chapters
		WHERE id = $1`

	var ch Chapter
	err := s.db.QueryRow(ctx, query, id).Scan(
		&ch.ID, &ch.Title, &ch.Text, &ch.CreatedAt, &ch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Chapter{}, ErrNotFound
		}
		return Chapter{}, fmt.Errorf("chapter: get %q: %w", id, err)
	}
	return ch, nil
}

// List implements [Store.List].
func (s *PostgresStore) List(ctx context.Context) ([]Chapter, error) {
	const query = `
		SELECT id, title, text, created_at, updated_at
		FROM chapters
		ORDER BY id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chapter: list: %w", err)
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var ch Chapter
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Text, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("chapter: list scan: %w", err)
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chapter: list: %w", err)
	}
	return chapters, nil
}

// Create implements [Store.Create].
func (s *PostgresStore) Create(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO chapters (id, title, text)
		VALUES ($1, $2, $3)`

	_, err := s.db.Exec(ctx, query, ch.ID, ch.Title, ch.Text)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("chapter: create: %w", err)
	}
	return nil
}

// Update implements [Store.Update].
func (s *PostgresStore) Update(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	const query = `
		UPDATE chapters SET title = $2, text = $3, updated_at = now()
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, ch.ID, ch.Title, ch.Text)
	if err != nil {
		return fmt.Errorf("chapter: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements [Store.Delete].
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM chapters WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("chapter: delete %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert implements [Store.Upsert].
func (s *PostgresStore) Upsert(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO chapters (id, title, text)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			updated_at = now()`

	_, err := s.db.Exec(ctx, query, ch.ID, ch.Title, ch.Text)
	if err != nil {
		return fmt.Errorf("chapter: upsert: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks whether a PostgreSQL error is a unique-violation
// (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
