package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// ListGroupTransactions returns the user's group transactions newest first,
// with participants in their original order and the derived transaction IDs.
//
// The store runs on a single connection, so each query is drained before the
// next one starts.
func (s *SQLiteStore) ListGroupTransactions(ctx context.Context, userID string) ([]*models.GroupTransaction, error) {
	groups, err := s.listGroupHeaders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return groups, nil
	}

	byID := make(map[string]*models.GroupTransaction, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	if err := s.loadGroupShares(ctx, userID, byID); err != nil {
		return nil, err
	}
	if err := s.loadGroupTransactionIDs(ctx, userID, byID); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *SQLiteStore) listGroupHeaders(ctx context.Context, userID string) ([]*models.GroupTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_user_id, payer_id, total_amount, description, split_mode, per_person_share, user_amount, created_at
		 FROM group_transactions
		 WHERE owner_user_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group transactions: %w", err)
	}
	defer rows.Close()

	groups := []*models.GroupTransaction{}
	for rows.Next() {
		g := &models.GroupTransaction{IndividualAmounts: map[string]decimal.Decimal{}}
		var mode string
		var userAmount decimal.NullDecimal
		if err := rows.Scan(&g.ID, &g.OwnerUserID, &g.PayerID, &g.TotalAmount, &g.Description,
			&mode, &g.PerPersonShare, &userAmount, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group transaction: %w", err)
		}
		g.SplitMode = models.SplitMode(mode)
		if userAmount.Valid {
			amount := userAmount.Decimal
			g.UserAmount = &amount
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group transactions: %w", err)
	}
	return groups, nil
}

func (s *SQLiteStore) loadGroupShares(ctx context.Context, userID string, byID map[string]*models.GroupTransaction) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.group_transaction_id, s.contact_id, s.amount
		 FROM group_transaction_shares s
		 JOIN group_transactions g ON g.id = s.group_transaction_id
		 WHERE g.owner_user_id = ?
		 ORDER BY s.group_transaction_id, s.position`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to list group shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, contactID string
		var amount decimal.Decimal
		if err := rows.Scan(&groupID, &contactID, &amount); err != nil {
			return fmt.Errorf("failed to scan group share: %w", err)
		}
		g, ok := byID[groupID]
		if !ok {
			continue
		}
		g.ContactIDs = append(g.ContactIDs, contactID)
		g.IndividualAmounts[contactID] = amount
	}
	return rows.Err()
}

func (s *SQLiteStore) loadGroupTransactionIDs(ctx context.Context, userID string, byID map[string]*models.GroupTransaction) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_transaction_id, id
		 FROM transactions
		 WHERE owner_user_id = ? AND group_transaction_id IS NOT NULL
		 ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to list group transaction ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID sql.NullString
		var txID string
		if err := rows.Scan(&groupID, &txID); err != nil {
			return fmt.Errorf("failed to scan group transaction id: %w", err)
		}
		if g, ok := byID[groupID.String]; ok {
			g.TransactionIDs = append(g.TransactionIDs, txID)
		}
	}
	return rows.Err()
}
