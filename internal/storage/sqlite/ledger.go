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
	"github.com/mmynk/settleup/internal/storage"
)

const transactionColumns = "id, owner_user_id, contact_id, amount, payer, note, group_transaction_id, created_at"

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var payer string
	var note, groupID sql.NullString
	if err := row.Scan(&tx.ID, &tx.OwnerUserID, &tx.ContactID, &tx.Amount, &payer,
		&note, &groupID, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.Payer = models.Payer(payer)
	tx.Note = note.String
	tx.GroupTransactionID = groupID.String
	return tx, nil
}

func insertTransaction(ctx context.Context, dbtx *sql.Tx, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}
	_, err := dbtx.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_user_id, contact_id, amount, payer, note, group_transaction_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerUserID, tx.ContactID, tx.Amount.String(), string(tx.Payer),
		nullString(tx.Note), nullString(tx.GroupTransactionID), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// CommitTransaction appends tx and applies its delta to the contact balance
// in a single SQL transaction.
func (s *SQLiteStore) CommitTransaction(ctx context.Context, tx *models.Transaction) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.withTx(ctx, func(dbtx *sql.Tx) error {
		// Balance first: it doubles as the ownership check
		var err error
		balance, err = applyDelta(ctx, dbtx, tx.OwnerUserID, tx.ContactID, tx.Delta())
		if err != nil {
			return err
		}
		return insertTransaction(ctx, dbtx, tx)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// CommitGroupTransaction writes the group header, its shares and every derived
// transaction, updating each participant balance. Nothing is written if any
// step fails.
func (s *SQLiteStore) CommitGroupTransaction(ctx context.Context, group *models.GroupTransaction, txs []*models.Transaction) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	var userAmount any
	if group.UserAmount != nil {
		userAmount = group.UserAmount.String()
	}

	return s.withTx(ctx, func(dbtx *sql.Tx) error {
		_, err := dbtx.ExecContext(ctx,
			`INSERT INTO group_transactions (id, owner_user_id, payer_id, total_amount, description, split_mode, per_person_share, user_amount, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, group.OwnerUserID, group.PayerID, group.TotalAmount.String(), group.Description,
			string(group.SplitMode), group.PerPersonShare.String(), userAmount, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group transaction: %w", err)
		}

		for i, contactID := range group.ContactIDs {
			share := group.IndividualAmounts[contactID]
			if _, err := dbtx.ExecContext(ctx,
				`INSERT INTO group_transaction_shares (group_transaction_id, contact_id, position, amount)
				 VALUES (?, ?, ?, ?)`,
				group.ID, contactID, i, share.String(),
			); err != nil {
				return fmt.Errorf("failed to insert group share: %w", err)
			}
		}

		group.TransactionIDs = make([]string, 0, len(txs))
		for _, tx := range txs {
			tx.GroupTransactionID = group.ID
			if tx.CreatedAt == 0 {
				tx.CreatedAt = group.CreatedAt
			}
			if _, err := applyDelta(ctx, dbtx, tx.OwnerUserID, tx.ContactID, tx.Delta()); err != nil {
				return err
			}
			if err := insertTransaction(ctx, dbtx, tx); err != nil {
				return err
			}
			group.TransactionIDs = append(group.TransactionIDs, tx.ID)
		}
		return nil
	})
}

// DeleteTransaction removes a single transaction and reverses its delta.
// Entries produced by a group split cannot be removed individually.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, decimal.Decimal, error) {
	var deleted *models.Transaction
	var balance decimal.Decimal
	err := s.withTx(ctx, func(dbtx *sql.Tx) error {
		tx, err := scanTransaction(dbtx.QueryRowContext(ctx,
			"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND owner_user_id = ?",
			transactionID, userID,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: transaction %s", models.ErrNotFound, transactionID)
		}
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		if tx.GroupTransactionID != "" {
			return models.NewValidationError("transaction_id", "transactions created by a group split cannot be deleted individually")
		}

		if _, err := dbtx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", tx.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		balance, err = applyDelta(ctx, dbtx, userID, tx.ContactID, tx.Delta().Neg())
		if err != nil {
			return err
		}
		deleted = tx
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return deleted, balance, nil
}

// GetTransaction retrieves one transaction owned by userID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND owner_user_id = ?",
		transactionID, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", models.ErrNotFound, transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns the user's transactions newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE owner_user_id = ?"
	args := []any{userID}
	if filter.ContactID != "" {
		query += " AND contact_id = ?"
		args = append(args, filter.ContactID)
	}
	if filter.Since != 0 {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}
