// Package ledger applies settlement events to contact balances.
//
// Every write is validated in full before anything is persisted, then handed
// to the store as a single unit of work. Successful writes are passed to a
// Notifier that runs outside the request path.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Store is the storage surface the engine needs.
type Store interface {
	GetContacts(ctx context.Context, userID string, contactIDs []string) (map[string]*models.Contact, error)
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)
	CommitTransaction(ctx context.Context, tx *models.Transaction) (decimal.Decimal, error)
	CommitGroupTransaction(ctx context.Context, group *models.GroupTransaction, txs []*models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error)
}

// Notifier is told about committed writes. Implementations must not block.
type Notifier interface {
	NotifyTransaction(userID string, contact *models.Contact, tx *models.Transaction, newBalance decimal.Decimal)
	NotifyGroup(userID string, group *models.GroupTransaction, contacts map[string]*models.Contact, txs []*models.Transaction)
}

// Engine validates and commits settlement events.
type Engine struct {
	store    Store
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the post-commit notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine over store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TransactionInput is a single one-to-one settlement event.
type TransactionInput struct {
	ContactID string
	Amount    decimal.Decimal
	Payer     models.Payer
	Note      string
}

// TransactionResult is the committed entry and the contact's balance after it.
type TransactionResult struct {
	Transaction *models.Transaction
	NewBalance  decimal.Decimal
}

// GroupInput is a shared expense.
type GroupInput struct {
	PayerID           string
	ContactIDs        []string
	TotalAmount       decimal.Decimal
	Description       string
	SplitMode         models.SplitMode
	IndividualAmounts map[string]decimal.Decimal
	UserAmount        *decimal.Decimal
}

// GroupResult is the committed group header and its per-contact entries.
type GroupResult struct {
	GroupTransaction *models.GroupTransaction
	ContactAmounts   map[string]decimal.Decimal
	Transactions     []*models.Transaction
}

// CreateTransaction records a single transaction and updates the contact balance.
func (e *Engine) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*TransactionResult, error) {
	contact, err := e.validateTransaction(ctx, userID, in)
	if err != nil {
		e.reject(err)
		return nil, err
	}

	effect := calculator.SingleEffect(in.ContactID, in.Amount, in.Payer)
	tx := &models.Transaction{
		OwnerUserID: userID,
		ContactID:   effect.ContactID,
		Amount:      effect.Amount,
		Payer:       effect.Payer,
		Note:        in.Note,
		CreatedAt:   e.now().Unix(),
	}

	balance, err := e.store.CommitTransaction(ctx, tx)
	if err != nil {
		e.reject(err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	e.metrics.LedgerWrite("single")
	e.logger.Info("Transaction committed",
		"user_id", userID,
		"transaction_id", tx.ID,
		"contact_id", tx.ContactID,
		"payer", tx.Payer,
		"amount", tx.Amount.String(),
		"new_balance", balance.String(),
	)

	if e.notifier != nil {
		e.notifier.NotifyTransaction(userID, contact, tx, balance)
	}
	return &TransactionResult{Transaction: tx, NewBalance: balance}, nil
}

func (e *Engine) validateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Contact, error) {
	if err := models.CheckAmountBounds("amount", in.Amount); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero, got %s", models.ErrInvalidAmount, in.Amount.String())
	}
	if _, err := models.ParsePayer(string(in.Payer)); err != nil {
		return nil, err
	}
	if in.ContactID == "" {
		return nil, models.NewValidationError("contact_id", "is required")
	}
	if err := validateText("note", in.Note, false); err != nil {
		return nil, err
	}

	contacts, err := e.store.GetContacts(ctx, userID, []string{in.ContactID})
	if err != nil {
		return nil, err
	}
	contact, ok := contacts[in.ContactID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrContactNotFound, in.ContactID)
	}
	return contact, nil
}

// CreateGroupTransaction splits a shared expense and commits one entry per
// participant together with the group header.
func (e *Engine) CreateGroupTransaction(ctx context.Context, userID string, in GroupInput) (*GroupResult, error) {
	split, contacts, err := e.validateGroup(ctx, userID, in)
	if err != nil {
		e.reject(err)
		return nil, err
	}

	effects, err := calculator.GroupEffects(in.PayerID, in.ContactIDs, in.TotalAmount, split.ContactAmounts)
	if err != nil {
		e.reject(err)
		return nil, err
	}

	createdAt := e.now().Unix()
	group := &models.GroupTransaction{
		OwnerUserID:       userID,
		PayerID:           in.PayerID,
		ContactIDs:        append([]string(nil), in.ContactIDs...),
		TotalAmount:       in.TotalAmount,
		Description:       in.Description,
		SplitMode:         in.SplitMode,
		PerPersonShare:    split.PerPersonShare,
		IndividualAmounts: split.ContactAmounts,
		CreatedAt:         createdAt,
	}
	if in.SplitMode == models.SplitManual {
		userAmount := split.UserAmount
		group.UserAmount = &userAmount
	}

	txs := make([]*models.Transaction, 0, len(effects))
	for _, effect := range effects {
		txs = append(txs, &models.Transaction{
			OwnerUserID: userID,
			ContactID:   effect.ContactID,
			Amount:      effect.Amount,
			Payer:       effect.Payer,
			Note:        in.Description,
			CreatedAt:   createdAt,
		})
	}

	if err := e.store.CommitGroupTransaction(ctx, group, txs); err != nil {
		e.reject(err)
		return nil, fmt.Errorf("failed to commit group transaction: %w", err)
	}
	e.metrics.LedgerWrite("group")
	e.logger.Info("Group transaction committed",
		"user_id", userID,
		"group_transaction_id", group.ID,
		"payer_id", group.PayerID,
		"split_mode", group.SplitMode,
		"total_amount", group.TotalAmount.String(),
		"participants", len(group.ContactIDs),
	)

	if e.notifier != nil {
		e.notifier.NotifyGroup(userID, group, contacts, txs)
	}
	return &GroupResult{
		GroupTransaction: group,
		ContactAmounts:   split.ContactAmounts,
		Transactions:     txs,
	}, nil
}

func (e *Engine) validateGroup(ctx context.Context, userID string, in GroupInput) (*calculator.GroupSplit, map[string]*models.Contact, error) {
	if err := checkGroupAmounts(in); err != nil {
		return nil, nil, err
	}
	if !in.TotalAmount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: total_amount must be greater than zero, got %s", models.ErrInvalidAmount, in.TotalAmount.String())
	}
	if err := validateText("description", in.Description, true); err != nil {
		return nil, nil, err
	}
	if _, err := models.ParseSplitMode(string(in.SplitMode)); err != nil {
		return nil, nil, err
	}
	if err := calculator.ValidateParticipants(in.ContactIDs); err != nil {
		return nil, nil, err
	}
	if err := calculator.ValidatePayer(in.PayerID, in.ContactIDs); err != nil {
		return nil, nil, err
	}

	split, err := calculator.SplitGroup(calculator.GroupSplitInput{
		TotalAmount:       in.TotalAmount,
		ContactIDs:        in.ContactIDs,
		Mode:              in.SplitMode,
		IndividualAmounts: in.IndividualAmounts,
		UserAmount:        in.UserAmount,
	})
	if err != nil {
		return nil, nil, err
	}

	contacts, err := e.store.GetContacts(ctx, userID, in.ContactIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range in.ContactIDs {
		if _, ok := contacts[id]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", models.ErrContactNotFound, id)
		}
	}
	return split, contacts, nil
}

// DeleteTransaction removes a single transaction and reverses its effect on
// the contact balance. Entries that belong to a group cannot be deleted.
func (e *Engine) DeleteTransaction(ctx context.Context, userID, transactionID string) (*TransactionResult, error) {
	if transactionID == "" {
		err := models.NewValidationError("transaction_id", "is required")
		e.reject(err)
		return nil, err
	}

	tx, balance, err := e.store.DeleteTransaction(ctx, userID, transactionID)
	if err != nil {
		e.reject(err)
		return nil, err
	}
	e.metrics.LedgerWrite("delete")
	e.logger.Info("Transaction deleted",
		"user_id", userID,
		"transaction_id", tx.ID,
		"contact_id", tx.ContactID,
		"new_balance", balance.String(),
	)
	return &TransactionResult{Transaction: tx, NewBalance: balance}, nil
}

func checkGroupAmounts(in GroupInput) error {
	if err := models.CheckAmountBounds("total_amount", in.TotalAmount); err != nil {
		return err
	}
	if in.UserAmount != nil {
		if err := models.CheckAmountBounds("user_amount", *in.UserAmount); err != nil {
			return err
		}
	}
	for id, share := range in.IndividualAmounts {
		if err := models.CheckAmountBounds("individual_amounts["+id+"]", share); err != nil {
			return err
		}
	}
	return nil
}

func validateText(field, value string, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return models.NewValidationError(field, "is required")
	}
	if utf8.RuneCountInString(value) > models.MaxNoteLength {
		return models.NewValidationError(field, fmt.Sprintf("must be at most %d characters", models.MaxNoteLength))
	}
	return nil
}

// reject counts a refused write by error kind. Unclassified errors are
// storage failures and are not counted.
func (e *Engine) reject(err error) {
	if reason := RejectionReason(err); reason != "" {
		e.metrics.LedgerRejection(reason)
	}
}

// RejectionReason returns a short label for a domain error, or "" for any
// other error.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrSplitMismatch):
		return "split_mismatch"
	case errors.Is(err, models.ErrPayerNotInGroup):
		return "payer_not_in_group"
	case errors.Is(err, models.ErrValidationFailed):
		return "validation"
	case errors.Is(err, models.ErrContactNotFound):
		return "contact_not_found"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	}
	return ""
}
