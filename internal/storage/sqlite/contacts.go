package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

const contactColumns = "id, owner_user_id, name, phone, email, balance, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var email sql.NullString
	if err := row.Scan(&contact.ID, &contact.OwnerUserID, &contact.Name, &contact.Phone,
		&email, &contact.Balance, &contact.CreatedAt); err != nil {
		return nil, err
	}
	contact.Email = email.String
	return contact, nil
}

// CreateContact persists a new contact with a zero balance.
func (s *SQLiteStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	// Generate ID if not set
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt == 0 {
		contact.CreatedAt = time.Now().Unix()
	}
	contact.Balance = decimal.Zero

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_user_id, name, phone, email, balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.OwnerUserID, contact.Name, contact.Phone,
		nullString(contact.Email), contact.Balance.String(), contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID scoped to its owner.
func (s *SQLiteStore) GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error) {
	contact, err := scanContact(s.db.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ? AND owner_user_id = ?",
		contactID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrContactNotFound, contactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// GetContacts retrieves several contacts owned by userID.
// Returns a map of contact ID to Contact; IDs that don't exist or belong to
// another user are omitted from the result.
func (s *SQLiteStore) GetContacts(ctx context.Context, userID string, contactIDs []string) (map[string]*models.Contact, error) {
	contacts := make(map[string]*models.Contact, len(contactIDs))
	if len(contactIDs) == 0 {
		return contacts, nil
	}

	args := make([]any, 0, len(contactIDs)+1)
	args = append(args, userID)
	for _, id := range contactIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_user_id = ? AND id IN ("+placeholders(len(contactIDs))+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts[contact.ID] = contact
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// ListContacts retrieves all contacts of a user ordered by name.
func (s *SQLiteStore) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_user_id = ? ORDER BY name COLLATE NOCASE, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact updates name, phone and email of an existing contact.
func (s *SQLiteStore) UpdateContact(ctx context.Context, contact *models.Contact) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET name = ?, phone = ?, email = ? WHERE id = ? AND owner_user_id = ?",
		contact.Name, contact.Phone, nullString(contact.Email), contact.ID, contact.OwnerUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrContactNotFound, contact.ID)
	}
	return nil
}

// DeleteContact removes a contact. Its transactions are removed by the
// ON DELETE CASCADE foreign key.
func (s *SQLiteStore) DeleteContact(ctx context.Context, userID, contactID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = ? AND owner_user_id = ?",
		contactID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrContactNotFound, contactID)
	}
	return nil
}
