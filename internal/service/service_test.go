package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	pb "github.com/mmynk/settleup/pkg/apiv1"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

type inbox struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (i *inbox) Send(_ context.Context, msg notify.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, msg)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (i *inbox) lastCode(t *testing.T) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	require.NotEmpty(t, i.messages)
	code := codePattern.FindString(i.messages[len(i.messages)-1].Body)
	require.NotEmpty(t, code)
	return code
}

type testServer struct {
	store    *sqlite.SQLiteStore
	jwt      *auth.JWTManager
	inbox    *inbox
	ledger   apiv1connect.LedgerServiceClient
	contacts apiv1connect.ContactServiceClient
	auth     apiv1connect.AuthServiceClient
}

// setupTestServer wires all three services the same way the server binary does.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager, err := auth.NewJWTManager(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	authenticator := auth.NewPasswordAuthenticator(store)
	box := &inbox{}
	signup := auth.NewSignup(authenticator, auth.NewMemoryPendingStore(), box, 10*time.Minute, nil)

	engine := ledger.NewEngine(store)
	protected := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(nil))
	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(nil))

	mux := http.NewServeMux()
	mux.Handle(apiv1connect.NewLedgerServiceHandler(NewLedgerService(engine, store), protected))
	mux.Handle(apiv1connect.NewContactServiceHandler(NewContactService(store), protected))
	mux.Handle(apiv1connect.NewAuthServiceHandler(NewAuthService(authenticator, signup, jwtManager, store, nil), optional))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		store:    store,
		jwt:      jwtManager,
		inbox:    box,
		ledger:   apiv1connect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		contacts: apiv1connect.NewContactServiceClient(http.DefaultClient, server.URL),
		auth:     apiv1connect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// userToken creates a user directly in storage and returns a bearer token for it.
func (s *testServer) userToken(t *testing.T, email string) string {
	t.Helper()
	user := models.NewUser(email, "Test User", "unused")
	require.NoError(t, s.store.CreateUser(context.Background(), user))
	token, err := s.jwt.Generate(user)
	require.NoError(t, err)
	return token
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func (s *testServer) createContact(t *testing.T, token, name string) *pb.Contact {
	t.Helper()
	resp, err := s.contacts.CreateContact(context.Background(), authed(token, &pb.CreateContactRequest{
		Name:  name,
		Phone: "555-0100",
	}))
	require.NoError(t, err)
	return resp.Msg.Contact
}

func requireCode(t *testing.T, err error, code connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "expected connect error, got %v", err)
	require.Equal(t, code, connectErr.Code(), connectErr.Message())
	return connectErr
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, err := s.contacts.ListContacts(ctx, connect.NewRequest(&pb.ListContactsRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = s.ledger.ListTransactions(ctx, authed("garbage", &pb.ListTransactionsRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)
}

func TestContactLifecycle(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.userToken(t, "owner@example.com")

	bob := s.createContact(t, token, "Bob")
	assert.NotEmpty(t, bob.Id)
	assert.Equal(t, "0", bob.Balance)
	s.createContact(t, token, "alice")

	list, err := s.contacts.ListContacts(ctx, authed(token, &pb.ListContactsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Contacts, 2)
	assert.Equal(t, "alice", list.Msg.Contacts[0].Name)
	assert.Equal(t, "Bob", list.Msg.Contacts[1].Name)

	updated, err := s.contacts.UpdateContact(ctx, authed(token, &pb.UpdateContactRequest{
		ContactId: bob.Id,
		Name:      "Robert",
		Phone:     "555-0199",
		Email:     "robert@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Msg.Contact.Name)
	assert.Equal(t, "robert@example.com", updated.Msg.Contact.Email)

	_, err = s.contacts.DeleteContact(ctx, authed(token, &pb.DeleteContactRequest{ContactId: bob.Id}))
	require.NoError(t, err)

	_, err = s.contacts.GetContact(ctx, authed(token, &pb.GetContactRequest{ContactId: bob.Id}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestContactValidation(t *testing.T) {
	s := setupTestServer(t)
	token := s.userToken(t, "owner@example.com")

	tests := []struct {
		name string
		req  *pb.CreateContactRequest
	}{
		{"missing name", &pb.CreateContactRequest{Phone: "555"}},
		{"blank name", &pb.CreateContactRequest{Name: "   ", Phone: "555"}},
		{"missing phone", &pb.CreateContactRequest{Name: "Bob"}},
		{"bad email", &pb.CreateContactRequest{Name: "Bob", Phone: "555", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.contacts.CreateContact(context.Background(), authed(token, tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestContactsAreScopedToOwner(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	owner := s.userToken(t, "owner@example.com")
	other := s.userToken(t, "other@example.com")

	bob := s.createContact(t, owner, "Bob")

	_, err := s.contacts.GetContact(ctx, authed(other, &pb.GetContactRequest{ContactId: bob.Id}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = s.ledger.CreateTransaction(ctx, authed(other, &pb.CreateTransactionRequest{
		ContactId: bob.Id,
		Amount:    "10",
		Payer:     "USER",
	}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = s.ledger.ListTransactions(ctx, authed(other, &pb.ListTransactionsRequest{ContactId: bob.Id}))
	requireCode(t, err, connect.CodeNotFound)

	list, err := s.contacts.ListContacts(ctx, authed(other, &pb.ListContactsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Contacts)
}

func TestTransactionsUpdateBalance(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.userToken(t, "owner@example.com")
	bob := s.createContact(t, token, "Bob")

	first, err := s.ledger.CreateTransaction(ctx, authed(token, &pb.CreateTransactionRequest{
		ContactId: bob.Id,
		Amount:    "50",
		Payer:     "USER",
		Note:      "dinner",
	}))
	require.NoError(t, err)
	assert.Equal(t, "50", first.Msg.NewBalance)
	assert.Equal(t, "dinner", first.Msg.Transaction.Note)

	second, err := s.ledger.CreateTransaction(ctx, authed(token, &pb.CreateTransactionRequest{
		ContactId: bob.Id,
		Amount:    "20.50",
		Payer:     "FRIEND",
	}))
	require.NoError(t, err)
	assert.Equal(t, "29.5", second.Msg.NewBalance)

	list, err := s.ledger.ListTransactions(ctx, authed(token, &pb.ListTransactionsRequest{ContactId: bob.Id}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Transactions, 2)
	assert.Equal(t, second.Msg.TransactionId, list.Msg.Transactions[0].Id)

	deleted, err := s.ledger.DeleteTransaction(ctx, authed(token, &pb.DeleteTransactionRequest{
		TransactionId: first.Msg.TransactionId,
	}))
	require.NoError(t, err)
	assert.Equal(t, bob.Id, deleted.Msg.ContactId)
	assert.Equal(t, "-20.5", deleted.Msg.NewBalance)

	contact, err := s.contacts.GetContact(ctx, authed(token, &pb.GetContactRequest{ContactId: bob.Id}))
	require.NoError(t, err)
	assert.Equal(t, "-20.5", contact.Msg.Contact.Balance)
}

func TestCreateTransactionRejections(t *testing.T) {
	s := setupTestServer(t)
	token := s.userToken(t, "owner@example.com")
	bob := s.createContact(t, token, "Bob")

	tests := []struct {
		name string
		req  *pb.CreateTransactionRequest
		code connect.Code
	}{
		{"empty amount", &pb.CreateTransactionRequest{ContactId: bob.Id, Payer: "USER"}, connect.CodeInvalidArgument},
		{"non-numeric amount", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "ten", Payer: "USER"}, connect.CodeInvalidArgument},
		{"zero amount", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "0", Payer: "USER"}, connect.CodeInvalidArgument},
		{"negative amount", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "-5", Payer: "USER"}, connect.CodeInvalidArgument},
		{"too many decimal places", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "1e-10000000", Payer: "USER"}, connect.CodeInvalidArgument},
		{"out of range", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "1e2000000000", Payer: "USER"}, connect.CodeInvalidArgument},
		{"bad payer", &pb.CreateTransactionRequest{ContactId: bob.Id, Amount: "5", Payer: "BOTH"}, connect.CodeInvalidArgument},
		{"unknown contact", &pb.CreateTransactionRequest{ContactId: "missing", Amount: "5", Payer: "USER"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ledger.CreateTransaction(context.Background(), authed(token, tt.req))
			requireCode(t, err, tt.code)
		})
	}

	contact, err := s.contacts.GetContact(context.Background(), authed(token, &pb.GetContactRequest{ContactId: bob.Id}))
	require.NoError(t, err)
	assert.Equal(t, "0", contact.Msg.Contact.Balance)
}

func TestGroupTransactionAmountBounds(t *testing.T) {
	s := setupTestServer(t)
	token := s.userToken(t, "owner@example.com")
	a := s.createContact(t, token, "A")
	b := s.createContact(t, token, "B")
	tiny := "1e-10000000"

	tests := []struct {
		name string
		req  *pb.CreateGroupTransactionRequest
	}{
		{"total", &pb.CreateGroupTransactionRequest{
			PayerId: "USER", ContactIds: []string{a.Id, b.Id}, TotalAmount: tiny,
			Description: "dust", SplitMode: "EQUAL",
		}},
		{"individual amount", &pb.CreateGroupTransactionRequest{
			PayerId: "USER", ContactIds: []string{a.Id, b.Id}, TotalAmount: "10",
			Description: "dust", SplitMode: "MANUAL",
			IndividualAmounts: map[string]string{a.Id: "10", b.Id: tiny},
		}},
		{"user amount", &pb.CreateGroupTransactionRequest{
			PayerId: "USER", ContactIds: []string{a.Id, b.Id}, TotalAmount: "10",
			Description: "dust", SplitMode: "MANUAL",
			IndividualAmounts: map[string]string{a.Id: "5", b.Id: "5"},
			UserAmount:        &tiny,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ledger.CreateGroupTransaction(context.Background(), authed(token, tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}

	for _, c := range []*pb.Contact{a, b} {
		contact, err := s.contacts.GetContact(context.Background(), authed(token, &pb.GetContactRequest{ContactId: c.Id}))
		require.NoError(t, err)
		assert.Equal(t, "0", contact.Msg.Contact.Balance)
	}
}

func TestGroupTransaction(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.userToken(t, "owner@example.com")
	a := s.createContact(t, token, "A")
	b := s.createContact(t, token, "B")
	c := s.createContact(t, token, "C")

	resp, err := s.ledger.CreateGroupTransaction(ctx, authed(token, &pb.CreateGroupTransactionRequest{
		PayerId:     "USER",
		ContactIds:  []string{a.Id, b.Id, c.Id},
		TotalAmount: "100",
		Description: "groceries",
		SplitMode:   "EQUAL",
	}))
	require.NoError(t, err)
	assert.Equal(t, "25", resp.Msg.PerPersonShare)
	assert.Len(t, resp.Msg.TransactionIds, 3)
	for _, id := range []string{a.Id, b.Id, c.Id} {
		assert.Equal(t, "25", resp.Msg.IndividualAmounts[id])
	}

	groups, err := s.ledger.ListGroupTransactions(ctx, authed(token, &pb.ListGroupTransactionsRequest{}))
	require.NoError(t, err)
	require.Len(t, groups.Msg.GroupTransactions, 1)
	assert.Equal(t, "groceries", groups.Msg.GroupTransactions[0].Description)
	assert.Equal(t, resp.Msg.GroupTransactionId, groups.Msg.GroupTransactions[0].Id)

	// Entries created by a group cannot be removed one at a time.
	_, err = s.ledger.DeleteTransaction(ctx, authed(token, &pb.DeleteTransactionRequest{
		TransactionId: resp.Msg.TransactionIds[0],
	}))
	requireCode(t, err, connect.CodeInvalidArgument)

	contact, err := s.contacts.GetContact(ctx, authed(token, &pb.GetContactRequest{ContactId: a.Id}))
	require.NoError(t, err)
	assert.Equal(t, "25", contact.Msg.Contact.Balance)
}

func TestGroupTransactionSplitMismatch(t *testing.T) {
	s := setupTestServer(t)
	token := s.userToken(t, "owner@example.com")
	a := s.createContact(t, token, "A")
	b := s.createContact(t, token, "B")

	userAmount := "10"
	_, err := s.ledger.CreateGroupTransaction(context.Background(), authed(token, &pb.CreateGroupTransactionRequest{
		PayerId:           "USER",
		ContactIds:        []string{a.Id, b.Id},
		TotalAmount:       "100",
		Description:       "tickets",
		SplitMode:         "MANUAL",
		IndividualAmounts: map[string]string{a.Id: "30", b.Id: "40"},
		UserAmount:        &userAmount,
	}))
	connectErr := requireCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "100", connectErr.Meta().Get(SplitExpectedHeader))
	assert.Equal(t, "80", connectErr.Meta().Get(SplitComputedHeader))

	// Nothing was committed.
	contact, err := s.contacts.GetContact(context.Background(), authed(token, &pb.GetContactRequest{ContactId: a.Id}))
	require.NoError(t, err)
	assert.Equal(t, "0", contact.Msg.Contact.Balance)
}

func TestViews(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.userToken(t, "owner@example.com")
	bob := s.createContact(t, token, "Bob")
	s.createContact(t, token, "Carol")

	_, err := s.ledger.CreateTransaction(ctx, authed(token, &pb.CreateTransactionRequest{
		ContactId: bob.Id,
		Amount:    "75",
		Payer:     "USER",
	}))
	require.NoError(t, err)

	summary, err := s.ledger.GetMonthlySummary(ctx, authed(token, &pb.GetMonthlySummaryRequest{}))
	require.NoError(t, err)
	require.NotEmpty(t, summary.Msg.Months)
	current := summary.Msg.Months[len(summary.Msg.Months)-1]
	assert.Equal(t, "75", current.UserPaid)
	assert.Equal(t, "0", current.FriendPaid)

	buckets, err := s.ledger.GetBalanceBuckets(ctx, authed(token, &pb.GetBalanceBucketsRequest{}))
	require.NoError(t, err)
	var total int32
	for _, b := range buckets.Msg.Buckets {
		total += b.Count
	}
	assert.Equal(t, int32(2), total)

	notifications, err := s.ledger.ListNotifications(ctx, authed(token, &pb.ListNotificationsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, notifications.Msg.Notifications)
}

func TestSignupAndLogin(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	reg, err := s.auth.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email:       "New@Example.com",
		DisplayName: "New User",
		Password:    "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", reg.Msg.Email)
	assert.Equal(t, int64(600), reg.Msg.ExpiresInSeconds)

	_, err = s.auth.VerifySignup(ctx, connect.NewRequest(&pb.VerifySignupRequest{
		Email: "new@example.com",
		Code:  "not-it",
	}))
	requireCode(t, err, connect.CodeUnauthenticated)

	verified, err := s.auth.VerifySignup(ctx, connect.NewRequest(&pb.VerifySignupRequest{
		Email: "new@example.com",
		Code:  s.inbox.lastCode(t),
	}))
	require.NoError(t, err)
	require.NotEmpty(t, verified.Msg.Token)
	assert.Equal(t, "New User", verified.Msg.User.DisplayName)

	me, err := s.auth.GetCurrentUser(ctx, authed(verified.Msg.Token, &pb.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, verified.Msg.User.Id, me.Msg.User.Id)

	login, err := s.auth.Login(ctx, connect.NewRequest(&pb.LoginRequest{
		Email:    "new@example.com",
		Password: "password123",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, login.Msg.Token)

	_, err = s.auth.Login(ctx, connect.NewRequest(&pb.LoginRequest{
		Email:    "new@example.com",
		Password: "wrong-password",
	}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = s.auth.Register(ctx, connect.NewRequest(&pb.RegisterRequest{
		Email:       "new@example.com",
		DisplayName: "Again",
		Password:    "password123",
	}))
	requireCode(t, err, connect.CodeAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		req  *pb.RegisterRequest
	}{
		{"weak password", &pb.RegisterRequest{Email: "a@example.com", DisplayName: "A", Password: "short"}},
		{"missing display name", &pb.RegisterRequest{Email: "a@example.com", Password: "password123"}},
		{"missing email", &pb.RegisterRequest{DisplayName: "A", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(context.Background(), connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetCurrentUserRequiresToken(t *testing.T) {
	s := setupTestServer(t)
	_, err := s.auth.GetCurrentUser(context.Background(), connect.NewRequest(&pb.GetCurrentUserRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)
}
