package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"userd/internal/user/models"
)

// Postgres is the durable Store variant. Concurrency control is delegated to
// the database; this layer only issues parameterized statements.
type Postgres struct {
	db   *sql.DB
	opts options
}

// NewPostgres constructs a PostgreSQL-backed store on an existing pool.
func NewPostgres(db *sql.DB, opts ...Option) *Postgres {
	o := defaultOptions()
	o.apply(opts)
	return &Postgres{db: db, opts: o}
}

func (s *Postgres) Put(ctx context.Context, user models.User) (models.IdentifiedUser, error) {
	identified := models.Identify(user, s.opts.newID())
	rec := newRecord(identified, s.opts.newVersion(), s.opts.clock())

	const insert = `
		INSERT INTO users (user_id, version, name, email, latest, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, insert,
		rec.UserID, rec.Version, rec.Name, rec.Email, rec.Latest, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return models.IdentifiedUser{}, &StorageError{Op: "insert user", Err: err}
	}
	return identified, nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (models.IdentifiedUser, error) {
	const query = `
		SELECT user_id, version, name, email, latest, created_at, updated_at
		FROM users
		WHERE user_id = $1 AND latest = TRUE
	`
	var rec Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.UserID, &rec.Version, &rec.Name, &rec.Email, &rec.Latest, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.IdentifiedUser{}, ErrNotFound
		}
		return models.IdentifiedUser{}, &StorageError{Op: "query user", Err: err}
	}
	return rec.User()
}
