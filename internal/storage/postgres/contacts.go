package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

const contactColumns = "id, owner_user_id, name, phone, email, balance::text, created_at"

func scanContact(row rowScanner) (*models.Contact, error) {
	c := &models.Contact{}
	var email *string
	var balance string
	if err := row.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Phone, &email, &balance, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Email = deref(email)
	var err error
	c.Balance, err = parseDecimal(balance)
	return c, err
}

func (s *PostgresStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if contact.CreatedAt == 0 {
		contact.CreatedAt = time.Now().Unix()
	}
	contact.Balance = decimal.Zero

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, owner_user_id, name, phone, email, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, 0, $6)`,
		contact.ID, contact.OwnerUserID, contact.Name, contact.Phone, nullString(contact.Email), contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error) {
	c, err := scanContact(s.pool.QueryRow(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id = $1 AND owner_user_id = $2",
		contactID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrContactNotFound, contactID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetContacts(ctx context.Context, userID string, contactIDs []string) (map[string]*models.Contact, error) {
	contacts := make(map[string]*models.Contact, len(contactIDs))
	if len(contactIDs) == 0 {
		return contacts, nil
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_user_id = $1 AND id = ANY($2)",
		userID, contactIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts[c.ID] = c
	}
	return contacts, rows.Err()
}

func (s *PostgresStore) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_user_id = $1 ORDER BY lower(name), id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *PostgresStore) UpdateContact(ctx context.Context, contact *models.Contact) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE contacts SET name = $1, phone = $2, email = $3 WHERE id = $4 AND owner_user_id = $5",
		contact.Name, contact.Phone, nullString(contact.Email), contact.ID, contact.OwnerUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", models.ErrContactNotFound, contact.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, userID, contactID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM contacts WHERE id = $1 AND owner_user_id = $2",
		contactID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", models.ErrContactNotFound, contactID)
	}
	return nil
}
