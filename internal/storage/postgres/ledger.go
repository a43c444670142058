package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const transactionColumns = "id, owner_user_id, contact_id, amount::text, payer, note, group_transaction_id, created_at"

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var amount, payer string
	var note, groupID *string
	if err := row.Scan(&tx.ID, &tx.OwnerUserID, &tx.ContactID, &amount, &payer, &note, &groupID, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.Payer = models.Payer(payer)
	tx.Note = deref(note)
	tx.GroupTransactionID = deref(groupID)
	var err error
	tx.Amount, err = parseDecimal(amount)
	return tx, err
}

func insertTransaction(ctx context.Context, dbtx pgx.Tx, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}
	_, err := dbtx.Exec(ctx,
		`INSERT INTO transactions (id, owner_user_id, contact_id, amount, payer, note, group_transaction_id, created_at)
		 VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)`,
		tx.ID, tx.OwnerUserID, tx.ContactID, tx.Amount.String(), string(tx.Payer),
		nullString(tx.Note), nullString(tx.GroupTransactionID), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) CommitTransaction(ctx context.Context, tx *models.Transaction) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := pgx.BeginFunc(ctx, s.pool, func(dbtx pgx.Tx) error {
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

func (s *PostgresStore) CommitGroupTransaction(ctx context.Context, group *models.GroupTransaction, txs []*models.Transaction) error {
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

	return pgx.BeginFunc(ctx, s.pool, func(dbtx pgx.Tx) error {
		_, err := dbtx.Exec(ctx,
			`INSERT INTO group_transactions (id, owner_user_id, payer_id, total_amount, description, split_mode, per_person_share, user_amount, created_at)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6, $7::numeric, $8::numeric, $9)`,
			group.ID, group.OwnerUserID, group.PayerID, group.TotalAmount.String(), group.Description,
			string(group.SplitMode), group.PerPersonShare.String(), userAmount, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group transaction: %w", err)
		}

		for i, contactID := range group.ContactIDs {
			share := group.IndividualAmounts[contactID]
			if _, err := dbtx.Exec(ctx,
				`INSERT INTO group_transaction_shares (group_transaction_id, contact_id, position, amount)
				 VALUES ($1, $2, $3, $4::numeric)`,
				group.ID, contactID, i, share.String(),
			); err != nil {
				return fmt.Errorf("failed to insert group share: %w", err)
			}
		}

		// Row locks are taken in contact ID order so overlapping groups
		// cannot deadlock.
		for _, i := range lockOrder(txs) {
			tx := txs[i]
			if _, err := applyDelta(ctx, dbtx, tx.OwnerUserID, tx.ContactID, tx.Delta()); err != nil {
				return err
			}
		}

		group.TransactionIDs = make([]string, 0, len(txs))
		for _, tx := range txs {
			tx.GroupTransactionID = group.ID
			if tx.CreatedAt == 0 {
				tx.CreatedAt = group.CreatedAt
			}
			if err := insertTransaction(ctx, dbtx, tx); err != nil {
				return err
			}
			group.TransactionIDs = append(group.TransactionIDs, tx.ID)
		}
		return nil
	})
}

// lockOrder returns the indexes of txs sorted by contact ID.
func lockOrder(txs []*models.Transaction) []int {
	order := make([]int, len(txs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return txs[order[a]].ContactID < txs[order[b]].ContactID
	})
	return order
}

func (s *PostgresStore) DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, decimal.Decimal, error) {
	var deleted *models.Transaction
	var balance decimal.Decimal
	err := pgx.BeginFunc(ctx, s.pool, func(dbtx pgx.Tx) error {
		tx, err := scanTransaction(dbtx.QueryRow(ctx,
			"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 AND owner_user_id = $2 FOR UPDATE",
			transactionID, userID,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: transaction %s", models.ErrNotFound, transactionID)
		}
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}
		if tx.GroupTransactionID != "" {
			return models.NewValidationError("transaction_id", "transactions created by a group split cannot be deleted individually")
		}

		if _, err := dbtx.Exec(ctx, "DELETE FROM transactions WHERE id = $1", tx.ID); err != nil {
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

func (s *PostgresStore) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 AND owner_user_id = $2",
		transactionID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", models.ErrNotFound, transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE owner_user_id = $1"
	args := []any{userID}
	if filter.ContactID != "" {
		args = append(args, filter.ContactID)
		query += fmt.Sprintf(" AND contact_id = $%d", len(args))
	}
	if filter.Since != 0 {
		args = append(args, filter.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, seq DESC"

	rows, err := s.pool.Query(ctx, query, args...)
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
	return txs, rows.Err()
}

func (s *PostgresStore) ListGroupTransactions(ctx context.Context, userID string) ([]*models.GroupTransaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_user_id, payer_id, total_amount::text, description, split_mode,
		     per_person_share::text, user_amount::text, created_at
		 FROM group_transactions
		 WHERE owner_user_id = $1
		 ORDER BY created_at DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group transactions: %w", err)
	}
	groups := []*models.GroupTransaction{}
	byID := map[string]*models.GroupTransaction{}
	for rows.Next() {
		g := &models.GroupTransaction{IndividualAmounts: map[string]decimal.Decimal{}}
		var total, mode, perPerson string
		var userAmount *string
		if err := rows.Scan(&g.ID, &g.OwnerUserID, &g.PayerID, &total, &g.Description, &mode,
			&perPerson, &userAmount, &g.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group transaction: %w", err)
		}
		g.SplitMode = models.SplitMode(mode)
		if g.TotalAmount, err = parseDecimal(total); err != nil {
			rows.Close()
			return nil, err
		}
		if g.PerPersonShare, err = parseDecimal(perPerson); err != nil {
			rows.Close()
			return nil, err
		}
		if userAmount != nil {
			ua, err := parseDecimal(*userAmount)
			if err != nil {
				rows.Close()
				return nil, err
			}
			g.UserAmount = &ua
		}
		groups = append(groups, g)
		byID[g.ID] = g
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group transactions: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	shares, err := s.pool.Query(ctx,
		`SELECT s.group_transaction_id, s.contact_id, s.amount::text
		 FROM group_transaction_shares s
		 JOIN group_transactions g ON g.id = s.group_transaction_id
		 WHERE g.owner_user_id = $1
		 ORDER BY s.group_transaction_id, s.position`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group shares: %w", err)
	}
	defer shares.Close()
	for shares.Next() {
		var groupID, contactID, amount string
		if err := shares.Scan(&groupID, &contactID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan group share: %w", err)
		}
		g, ok := byID[groupID]
		if !ok {
			continue
		}
		share, err := parseDecimal(amount)
		if err != nil {
			return nil, err
		}
		g.ContactIDs = append(g.ContactIDs, contactID)
		g.IndividualAmounts[contactID] = share
	}
	if err := shares.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group shares: %w", err)
	}

	ids, err := s.pool.Query(ctx,
		`SELECT group_transaction_id, id FROM transactions
		 WHERE owner_user_id = $1 AND group_transaction_id IS NOT NULL
		 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group transaction ids: %w", err)
	}
	defer ids.Close()
	for ids.Next() {
		var groupID, txID string
		if err := ids.Scan(&groupID, &txID); err != nil {
			return nil, fmt.Errorf("failed to scan group transaction id: %w", err)
		}
		if g, ok := byID[groupID]; ok {
			g.TransactionIDs = append(g.TransactionIDs, txID)
		}
	}
	return groups, ids.Err()
}
