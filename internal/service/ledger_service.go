package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	pb "github.com/mmynk/settleup/pkg/apiv1"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

// LedgerService implements the Connect LedgerService.
// Every method expects RequireAuth to have placed the user ID in the context.
type LedgerService struct {
	apiv1connect.UnimplementedLedgerServiceHandler
	engine *ledger.Engine
	store  storage.Store
}

// NewLedgerService creates a LedgerService. Writes go through engine; reads
// go straight to store.
func NewLedgerService(engine *ledger.Engine, store storage.Store) *LedgerService {
	return &LedgerService{engine: engine, store: store}
}

// CreateTransaction records a single transaction between the user and a contact.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[pb.CreateTransactionRequest]) (*connect.Response[pb.CreateTransactionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateTransaction request received",
		"user_id", userID,
		"contact_id", req.Msg.ContactId,
		"payer", req.Msg.Payer,
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("CreateTransaction", err)
	}

	res, err := s.engine.CreateTransaction(ctx, userID, ledger.TransactionInput{
		ContactID: req.Msg.ContactId,
		Amount:    amount,
		Payer:     models.Payer(req.Msg.Payer),
		Note:      req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError("CreateTransaction", err)
	}

	return connect.NewResponse(&pb.CreateTransactionResponse{
		TransactionId: res.Transaction.ID,
		NewBalance:    res.NewBalance.String(),
		Transaction:   toProtoTransaction(res.Transaction),
	}), nil
}

// DeleteTransaction removes a single (non-group) transaction and reverses its effect.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[pb.DeleteTransactionRequest]) (*connect.Response[pb.DeleteTransactionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("DeleteTransaction request received", "user_id", userID, "transaction_id", req.Msg.TransactionId)

	res, err := s.engine.DeleteTransaction(ctx, userID, req.Msg.TransactionId)
	if err != nil {
		return nil, toConnectError("DeleteTransaction", err)
	}

	return connect.NewResponse(&pb.DeleteTransactionResponse{
		ContactId:  res.Transaction.ContactID,
		NewBalance: res.NewBalance.String(),
	}), nil
}

// ListTransactions returns the user's transactions, newest first, optionally for one contact.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[pb.ListTransactionsRequest]) (*connect.Response[pb.ListTransactionsResponse], error) {
	userID := middleware.GetUserID(ctx)

	if req.Msg.ContactId != "" {
		if _, err := s.store.GetContact(ctx, userID, req.Msg.ContactId); err != nil {
			return nil, toConnectError("ListTransactions", err)
		}
	}

	txs, err := s.store.ListTransactions(ctx, userID, storage.TransactionFilter{ContactID: req.Msg.ContactId})
	if err != nil {
		return nil, toConnectError("ListTransactions", err)
	}

	out := make([]*pb.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = toProtoTransaction(tx)
	}
	slog.Debug("ListTransactions successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&pb.ListTransactionsResponse{Transactions: out}), nil
}

// CreateGroupTransaction splits a shared expense across several contacts.
func (s *LedgerService) CreateGroupTransaction(ctx context.Context, req *connect.Request[pb.CreateGroupTransactionRequest]) (*connect.Response[pb.CreateGroupTransactionResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateGroupTransaction request received",
		"user_id", userID,
		"payer_id", req.Msg.PayerId,
		"participants", len(req.Msg.ContactIds),
		"split_mode", req.Msg.SplitMode,
	)

	total, err := parseAmount("total_amount", req.Msg.TotalAmount)
	if err != nil {
		return nil, toConnectError("CreateGroupTransaction", err)
	}
	individual, err := parseAmounts("individual_amounts", req.Msg.IndividualAmounts)
	if err != nil {
		return nil, toConnectError("CreateGroupTransaction", err)
	}
	input := ledger.GroupInput{
		PayerID:           req.Msg.PayerId,
		ContactIDs:        req.Msg.ContactIds,
		TotalAmount:       total,
		Description:       req.Msg.Description,
		SplitMode:         models.SplitMode(req.Msg.SplitMode),
		IndividualAmounts: individual,
	}
	if req.Msg.UserAmount != nil {
		userAmount, err := parseAmount("user_amount", *req.Msg.UserAmount)
		if err != nil {
			return nil, toConnectError("CreateGroupTransaction", err)
		}
		input.UserAmount = &userAmount
	}

	res, err := s.engine.CreateGroupTransaction(ctx, userID, input)
	if err != nil {
		return nil, toConnectError("CreateGroupTransaction", err)
	}

	return connect.NewResponse(&pb.CreateGroupTransactionResponse{
		GroupTransactionId: res.GroupTransaction.ID,
		PerPersonShare:     res.GroupTransaction.PerPersonShare.String(),
		IndividualAmounts:  toProtoAmounts(res.ContactAmounts),
		TransactionIds:     res.GroupTransaction.TransactionIDs,
	}), nil
}

// ListGroupTransactions returns the user's group transactions, newest first.
func (s *LedgerService) ListGroupTransactions(ctx context.Context, req *connect.Request[pb.ListGroupTransactionsRequest]) (*connect.Response[pb.ListGroupTransactionsResponse], error) {
	userID := middleware.GetUserID(ctx)

	groups, err := s.store.ListGroupTransactions(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListGroupTransactions", err)
	}

	out := make([]*pb.GroupTransaction, len(groups))
	for i, g := range groups {
		out[i] = toProtoGroup(g)
	}
	return connect.NewResponse(&pb.ListGroupTransactionsResponse{GroupTransactions: out}), nil
}

// GetMonthlySummary returns USER vs FRIEND totals for the trailing months.
func (s *LedgerService) GetMonthlySummary(ctx context.Context, req *connect.Request[pb.GetMonthlySummaryRequest]) (*connect.Response[pb.GetMonthlySummaryResponse], error) {
	rows, err := s.engine.MonthlySummary(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError("GetMonthlySummary", err)
	}

	months := make([]*pb.MonthSummary, len(rows))
	for i, row := range rows {
		months[i] = toProtoMonth(row)
	}
	return connect.NewResponse(&pb.GetMonthlySummaryResponse{Months: months}), nil
}

// GetBalanceBuckets counts contacts per balance range.
func (s *LedgerService) GetBalanceBuckets(ctx context.Context, req *connect.Request[pb.GetBalanceBucketsRequest]) (*connect.Response[pb.GetBalanceBucketsResponse], error) {
	rows, err := s.engine.BalanceBuckets(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError("GetBalanceBuckets", err)
	}

	buckets := make([]*pb.BalanceBucket, len(rows))
	for i, row := range rows {
		buckets[i] = &pb.BalanceBucket{Label: row.Label, Count: int32(row.Count)}
	}
	return connect.NewResponse(&pb.GetBalanceBucketsResponse{Buckets: buckets}), nil
}

// ListNotifications returns delivery records for the user's notifications.
func (s *LedgerService) ListNotifications(ctx context.Context, req *connect.Request[pb.ListNotificationsRequest]) (*connect.Response[pb.ListNotificationsResponse], error) {
	notifications, err := s.store.ListNotifications(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError("ListNotifications", err)
	}

	out := make([]*pb.Notification, len(notifications))
	for i, n := range notifications {
		out[i] = toProtoNotification(n)
	}
	return connect.NewResponse(&pb.ListNotificationsResponse{Notifications: out}), nil
}
