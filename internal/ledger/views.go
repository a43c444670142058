package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/storage"
)

// MonthlySummary aggregates the user's transactions over the trailing months
// ending with the current one.
func (e *Engine) MonthlySummary(ctx context.Context, userID string) ([]calculator.MonthRow, error) {
	now := e.now()
	txs, err := e.store.ListTransactions(ctx, userID, storage.TransactionFilter{
		Since: calculator.MonthlyWindowStart(now).Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return calculator.MonthlySummary(txs, now), nil
}

// BalanceBuckets counts the user's contacts per balance range.
func (e *Engine) BalanceBuckets(ctx context.Context, userID string) ([]calculator.BucketRow, error) {
	contacts, err := e.store.ListContacts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return calculator.BalanceBuckets(contacts), nil
}
