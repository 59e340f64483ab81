package infraconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ DB = (*pgxpool.Pool)(nil)

const (
	sqlCountRequired = `SELECT COUNT(DISTINCT name) FROM infra_config WHERE name = ANY($1)`
	sqlLoadAll       = `SELECT name, value FROM infra_config`
)

// PGStore reads infra configuration from PostgreSQL.
type PGStore struct {
	db DB
}

// NewPGStore wraps an existing pool (or any DB).
func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

// Connect opens a pgx pool for dsn and verifies it.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("infraconfig: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("infraconfig: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("infraconfig: ping: %w", err)
	}
	return pool, nil
}

// IsPopulated reports whether every RequiredKeys row exists.
func (s *PGStore) IsPopulated(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRow(ctx, sqlCountRequired, RequiredKeys).Scan(&n); err != nil {
		return false, wrapLoad(fmt.Errorf("count rows: %w", err))
	}
	return n == len(RequiredKeys), nil
}

// Load reads every row and decodes it.
func (s *PGStore) Load(ctx context.Context) (*InfraConfig, error) {
	rows, err := s.db.Query(ctx, sqlLoadAll)
	if err != nil {
		return nil, wrapLoad(err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var name string
		var value *string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, wrapLoad(err)
		}
		if value != nil {
			values[name] = *value
		} else {
			values[name] = ""
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapLoad(err)
	}
	return Decode(values)
}

func wrapLoad(err error) error {
	if errors.Is(err, ErrLoad) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLoad, err)
}
