package apiv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	apiv1 "github.com/mmynk/settleup/pkg/apiv1"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "settleup.v1.LedgerService"

// Procedure paths of LedgerService.
const (
	LedgerServiceCreateTransactionProcedure      = "/settleup.v1.LedgerService/CreateTransaction"
	LedgerServiceDeleteTransactionProcedure      = "/settleup.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure       = "/settleup.v1.LedgerService/ListTransactions"
	LedgerServiceCreateGroupTransactionProcedure = "/settleup.v1.LedgerService/CreateGroupTransaction"
	LedgerServiceListGroupTransactionsProcedure  = "/settleup.v1.LedgerService/ListGroupTransactions"
	LedgerServiceGetMonthlySummaryProcedure      = "/settleup.v1.LedgerService/GetMonthlySummary"
	LedgerServiceGetBalanceBucketsProcedure      = "/settleup.v1.LedgerService/GetBalanceBuckets"
	LedgerServiceListNotificationsProcedure      = "/settleup.v1.LedgerService/ListNotifications"
)

// LedgerServiceClient is a client for the settleup.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateTransaction(context.Context, *connect.Request[apiv1.CreateTransactionRequest]) (*connect.Response[apiv1.CreateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[apiv1.DeleteTransactionRequest]) (*connect.Response[apiv1.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[apiv1.ListTransactionsRequest]) (*connect.Response[apiv1.ListTransactionsResponse], error)
	CreateGroupTransaction(context.Context, *connect.Request[apiv1.CreateGroupTransactionRequest]) (*connect.Response[apiv1.CreateGroupTransactionResponse], error)
	ListGroupTransactions(context.Context, *connect.Request[apiv1.ListGroupTransactionsRequest]) (*connect.Response[apiv1.ListGroupTransactionsResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[apiv1.GetMonthlySummaryRequest]) (*connect.Response[apiv1.GetMonthlySummaryResponse], error)
	GetBalanceBuckets(context.Context, *connect.Request[apiv1.GetBalanceBucketsRequest]) (*connect.Response[apiv1.GetBalanceBucketsResponse], error)
	ListNotifications(context.Context, *connect.Request[apiv1.ListNotificationsRequest]) (*connect.Response[apiv1.ListNotificationsResponse], error)
}

// NewLedgerServiceClient constructs a client for the settleup.v1.LedgerService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createTransaction:      connect.NewClient[apiv1.CreateTransactionRequest, apiv1.CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		deleteTransaction:      connect.NewClient[apiv1.DeleteTransactionRequest, apiv1.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:       connect.NewClient[apiv1.ListTransactionsRequest, apiv1.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		createGroupTransaction: connect.NewClient[apiv1.CreateGroupTransactionRequest, apiv1.CreateGroupTransactionResponse](httpClient, baseURL+LedgerServiceCreateGroupTransactionProcedure, opts...),
		listGroupTransactions:  connect.NewClient[apiv1.ListGroupTransactionsRequest, apiv1.ListGroupTransactionsResponse](httpClient, baseURL+LedgerServiceListGroupTransactionsProcedure, opts...),
		getMonthlySummary:      connect.NewClient[apiv1.GetMonthlySummaryRequest, apiv1.GetMonthlySummaryResponse](httpClient, baseURL+LedgerServiceGetMonthlySummaryProcedure, opts...),
		getBalanceBuckets:      connect.NewClient[apiv1.GetBalanceBucketsRequest, apiv1.GetBalanceBucketsResponse](httpClient, baseURL+LedgerServiceGetBalanceBucketsProcedure, opts...),
		listNotifications:      connect.NewClient[apiv1.ListNotificationsRequest, apiv1.ListNotificationsResponse](httpClient, baseURL+LedgerServiceListNotificationsProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createTransaction      *connect.Client[apiv1.CreateTransactionRequest, apiv1.CreateTransactionResponse]
	deleteTransaction      *connect.Client[apiv1.DeleteTransactionRequest, apiv1.DeleteTransactionResponse]
	listTransactions       *connect.Client[apiv1.ListTransactionsRequest, apiv1.ListTransactionsResponse]
	createGroupTransaction *connect.Client[apiv1.CreateGroupTransactionRequest, apiv1.CreateGroupTransactionResponse]
	listGroupTransactions  *connect.Client[apiv1.ListGroupTransactionsRequest, apiv1.ListGroupTransactionsResponse]
	getMonthlySummary      *connect.Client[apiv1.GetMonthlySummaryRequest, apiv1.GetMonthlySummaryResponse]
	getBalanceBuckets      *connect.Client[apiv1.GetBalanceBucketsRequest, apiv1.GetBalanceBucketsResponse]
	listNotifications      *connect.Client[apiv1.ListNotificationsRequest, apiv1.ListNotificationsResponse]
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[apiv1.CreateTransactionRequest]) (*connect.Response[apiv1.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[apiv1.DeleteTransactionRequest]) (*connect.Response[apiv1.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[apiv1.ListTransactionsRequest]) (*connect.Response[apiv1.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateGroupTransaction(ctx context.Context, req *connect.Request[apiv1.CreateGroupTransactionRequest]) (*connect.Response[apiv1.CreateGroupTransactionResponse], error) {
	return c.createGroupTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListGroupTransactions(ctx context.Context, req *connect.Request[apiv1.ListGroupTransactionsRequest]) (*connect.Response[apiv1.ListGroupTransactionsResponse], error) {
	return c.listGroupTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMonthlySummary(ctx context.Context, req *connect.Request[apiv1.GetMonthlySummaryRequest]) (*connect.Response[apiv1.GetMonthlySummaryResponse], error) {
	return c.getMonthlySummary.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalanceBuckets(ctx context.Context, req *connect.Request[apiv1.GetBalanceBucketsRequest]) (*connect.Response[apiv1.GetBalanceBucketsResponse], error) {
	return c.getBalanceBuckets.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListNotifications(ctx context.Context, req *connect.Request[apiv1.ListNotificationsRequest]) (*connect.Response[apiv1.ListNotificationsResponse], error) {
	return c.listNotifications.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of settleup.v1.LedgerService.
type LedgerServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[apiv1.CreateTransactionRequest]) (*connect.Response[apiv1.CreateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[apiv1.DeleteTransactionRequest]) (*connect.Response[apiv1.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[apiv1.ListTransactionsRequest]) (*connect.Response[apiv1.ListTransactionsResponse], error)
	CreateGroupTransaction(context.Context, *connect.Request[apiv1.CreateGroupTransactionRequest]) (*connect.Response[apiv1.CreateGroupTransactionResponse], error)
	ListGroupTransactions(context.Context, *connect.Request[apiv1.ListGroupTransactionsRequest]) (*connect.Response[apiv1.ListGroupTransactionsResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[apiv1.GetMonthlySummaryRequest]) (*connect.Response[apiv1.GetMonthlySummaryResponse], error)
	GetBalanceBuckets(context.Context, *connect.Request[apiv1.GetBalanceBucketsRequest]) (*connect.Response[apiv1.GetBalanceBucketsResponse], error)
	ListNotifications(context.Context, *connect.Request[apiv1.ListNotificationsRequest]) (*connect.Response[apiv1.ListNotificationsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createTransaction := connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	deleteTransaction := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	listTransactions := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	createGroupTransaction := connect.NewUnaryHandler(LedgerServiceCreateGroupTransactionProcedure, svc.CreateGroupTransaction, opts...)
	listGroupTransactions := connect.NewUnaryHandler(LedgerServiceListGroupTransactionsProcedure, svc.ListGroupTransactions, opts...)
	getMonthlySummary := connect.NewUnaryHandler(LedgerServiceGetMonthlySummaryProcedure, svc.GetMonthlySummary, opts...)
	getBalanceBuckets := connect.NewUnaryHandler(LedgerServiceGetBalanceBucketsProcedure, svc.GetBalanceBuckets, opts...)
	listNotifications := connect.NewUnaryHandler(LedgerServiceListNotificationsProcedure, svc.ListNotifications, opts...)
	return "/settleup.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateTransactionProcedure:
			createTransaction.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransaction.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactions.ServeHTTP(w, r)
		case LedgerServiceCreateGroupTransactionProcedure:
			createGroupTransaction.ServeHTTP(w, r)
		case LedgerServiceListGroupTransactionsProcedure:
			listGroupTransactions.ServeHTTP(w, r)
		case LedgerServiceGetMonthlySummaryProcedure:
			getMonthlySummary.ServeHTTP(w, r)
		case LedgerServiceGetBalanceBucketsProcedure:
			getBalanceBuckets.ServeHTTP(w, r)
		case LedgerServiceListNotificationsProcedure:
			listNotifications.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateTransaction(context.Context, *connect.Request[apiv1.CreateTransactionRequest]) (*connect.Response[apiv1.CreateTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.CreateTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[apiv1.DeleteTransactionRequest]) (*connect.Response[apiv1.DeleteTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.DeleteTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[apiv1.ListTransactionsRequest]) (*connect.Response[apiv1.ListTransactionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.ListTransactions is not implemented"))
}

func (UnimplementedLedgerServiceHandler) CreateGroupTransaction(context.Context, *connect.Request[apiv1.CreateGroupTransactionRequest]) (*connect.Response[apiv1.CreateGroupTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.CreateGroupTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListGroupTransactions(context.Context, *connect.Request[apiv1.ListGroupTransactionsRequest]) (*connect.Response[apiv1.ListGroupTransactionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.ListGroupTransactions is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetMonthlySummary(context.Context, *connect.Request[apiv1.GetMonthlySummaryRequest]) (*connect.Response[apiv1.GetMonthlySummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.GetMonthlySummary is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBalanceBuckets(context.Context, *connect.Request[apiv1.GetBalanceBucketsRequest]) (*connect.Response[apiv1.GetBalanceBucketsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.GetBalanceBuckets is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListNotifications(context.Context, *connect.Request[apiv1.ListNotificationsRequest]) (*connect.Response[apiv1.ListNotificationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.LedgerService.ListNotifications is not implemented"))
}
