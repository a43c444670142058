// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	// ContactID limits results to one contact when set.
	ContactID string
	// Since limits results to transactions created at or after this Unix time when non-zero.
	Since int64
}

// ContactStore holds contacts. It never writes Balance directly; balances
// change only through LedgerStore units of work.
type ContactStore interface {
	// CreateContact persists a new contact with a zero balance.
	// The contact.ID and CreatedAt fields will be populated by the store.
	CreateContact(ctx context.Context, contact *models.Contact) error

	// GetContact returns the contact if it belongs to userID.
	// Returns models.ErrContactNotFound otherwise.
	GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error)

	// GetContacts returns the requested contacts owned by userID keyed by ID.
	// Unknown or foreign IDs are omitted from the result.
	GetContacts(ctx context.Context, userID string, contactIDs []string) (map[string]*models.Contact, error)

	// ListContacts returns every contact of userID ordered by name.
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)

	// UpdateContact changes name, phone and email. Balance is left untouched.
	UpdateContact(ctx context.Context, contact *models.Contact) error

	// DeleteContact removes the contact and cascades to its transactions.
	DeleteContact(ctx context.Context, userID, contactID string) error
}

// LedgerStore appends to the transaction log. Every write method is one unit
// of work: log entries and balance deltas commit together or not at all.
type LedgerStore interface {
	// CommitTransaction appends tx and applies tx.Delta() to the contact's
	// balance. Returns the new balance.
	CommitTransaction(ctx context.Context, tx *models.Transaction) (decimal.Decimal, error)

	// CommitGroupTransaction appends the group header and all of its
	// per-contact transactions, applying each delta.
	CommitGroupTransaction(ctx context.Context, group *models.GroupTransaction, txs []*models.Transaction) error

	// DeleteTransaction removes a single transaction and applies the inverse
	// of its delta. Returns the contact's new balance.
	DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, decimal.Decimal, error)

	// GetTransaction returns one transaction owned by userID or models.ErrNotFound.
	GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)

	// ListTransactions returns the user's transactions, newest first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]*models.Transaction, error)

	// ListGroupTransactions returns the user's group transactions, newest first.
	ListGroupTransactions(ctx context.Context, userID string) ([]*models.GroupTransaction, error)
}

// NotificationStore persists notification delivery records.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus, errMsg string) error
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines the full storage surface used by the server.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	ContactStore
	LedgerStore
	NotificationStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
