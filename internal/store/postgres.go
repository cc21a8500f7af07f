package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/parkingdrive-server/internal/account"
	"github.com/ugaemi/parkingdrive-server/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    nickname TEXT NOT NULL DEFAULT '',
    is_guest BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_login_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    room_code TEXT NOT NULL,
    account_id TEXT NOT NULL DEFAULT '',
    nickname TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    lives INTEGER NOT NULL,
    duration_ms BIGINT NOT NULL DEFAULT 0,
    finished_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at DESC);
`

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// FindByID looks up an account by internal ID.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, nickname, is_guest, created_at, last_login_at
		 FROM accounts WHERE id = $1`, id)

	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return acc, err
}

// Create inserts a new account.
func (s *PostgresStore) Create(ctx context.Context, acc *account.Account) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, nickname, is_guest, created_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Nickname, acc.IsGuest, acc.CreatedAt, acc.LastLoginAt)
	return err
}

// UpdateLastLogin updates the last login timestamp.
func (s *PostgresStore) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

// UpdateNickname updates the account nickname.
func (s *PostgresStore) UpdateNickname(ctx context.Context, id string, nickname string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE accounts SET nickname = $1 WHERE id = $2`, nickname, id)
	return err
}

// SaveResult inserts a finished game.
func (s *PostgresStore) SaveResult(ctx context.Context, res *Result) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO results (id, room_code, account_id, nickname, outcome, lives, duration_ms, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID, res.RoomCode, res.AccountID, res.Nickname, res.Outcome.String(), res.Lives, res.DurationMS, res.FinishedAt)
	return err
}

// RecentResults returns the latest results, newest first.
func (s *PostgresStore) RecentResults(ctx context.Context, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, room_code, account_id, nickname, outcome, lives, duration_ms, finished_at
		 FROM results ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var res Result
		var outcome string
		if err := rows.Scan(&res.ID, &res.RoomCode, &res.AccountID, &res.Nickname, &outcome, &res.Lives, &res.DurationMS, &res.FinishedAt); err != nil {
			return nil, err
		}
		res.Outcome = game.ParseOutcome(outcome)
		results = append(results, &res)
	}
	return results, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(&acc.ID, &acc.Nickname, &acc.IsGuest, &acc.CreatedAt, &acc.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
