package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns are TEXT holding exact decimal strings.
// IMPORTANT: contacts and group_transactions must be created BEFORE transactions
// due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT,
    balance TEXT NOT NULL DEFAULT '0',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_transactions (
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    description TEXT NOT NULL,
    split_mode TEXT NOT NULL CHECK (split_mode IN ('EQUAL', 'MANUAL')),
    per_person_share TEXT NOT NULL,
    user_amount TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_transaction_shares (
    group_transaction_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (group_transaction_id, contact_id),
    FOREIGN KEY (group_transaction_id) REFERENCES group_transactions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    payer TEXT NOT NULL CHECK (payer IN ('USER', 'FRIEND')),
    note TEXT,
    group_transaction_id TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE,
    FOREIGN KEY (group_transaction_id) REFERENCES group_transactions(id)
);

CREATE TABLE IF NOT EXISTS notifications (
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
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_owner ON contacts(owner_user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_owner_created ON transactions(owner_user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_transactions_contact ON transactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_transactions_group ON transactions(group_transaction_id);
CREATE INDEX IF NOT EXISTS idx_group_transactions_owner ON group_transactions(owner_user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_owner ON notifications(owner_user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
