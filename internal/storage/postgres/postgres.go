// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on a pgx connection pool.
// Money is stored as NUMERIC and moved across the wire as text so no
// precision is lost. Balance updates use an atomic in-place increment.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and runs migrations.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// applyDelta atomically increments the contact balance and returns the new value.
func applyDelta(ctx context.Context, tx pgx.Tx, userID, contactID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance string
	err := tx.QueryRow(ctx,
		`UPDATE contacts SET balance = balance + $1::numeric
		 WHERE id = $2 AND owner_user_id = $3
		 RETURNING balance::text`,
		delta.String(), contactID, userID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrContactNotFound, contactID)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}
	return parseDecimal(balance)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT,
    balance NUMERIC NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_transactions (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    total_amount NUMERIC NOT NULL,
    description TEXT NOT NULL,
    split_mode TEXT NOT NULL CHECK (split_mode IN ('EQUAL', 'MANUAL')),
    per_person_share NUMERIC NOT NULL,
    user_amount NUMERIC,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_transaction_shares (
    group_transaction_id TEXT NOT NULL REFERENCES group_transactions(id) ON DELETE CASCADE,
    contact_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    amount NUMERIC NOT NULL,
    PRIMARY KEY (group_transaction_id, contact_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
    amount NUMERIC NOT NULL,
    payer TEXT NOT NULL CHECK (payer IN ('USER', 'FRIEND')),
    note TEXT,
    group_transaction_id TEXT REFERENCES group_transactions(id),
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    transaction_id TEXT,
    group_transaction_id TEXT,
    channel TEXT NOT NULL,
    recipient TEXT NOT NULL,
    subject TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_owner_created ON transactions(owner_user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_transactions_contact ON transactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_transactions_group ON transactions(group_transaction_id);
CREATE INDEX IF NOT EXISTS idx_group_transactions_owner ON group_transactions(owner_user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_owner ON notifications(owner_user_id);
`
