package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	pb "github.com/mmynk/settleup/pkg/apiv1"
	"github.com/mmynk/settleup/pkg/apiv1/apiv1connect"
)

func newTestRouter(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore, *auth.JWTManager) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	jwtManager, err := auth.NewJWTManager(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	authenticator := auth.NewPasswordAuthenticator(store)
	mailer := notify.NewLogMailer(nil)

	server := httptest.NewServer(newRouter(routerDeps{
		store:         store,
		engine:        ledger.NewEngine(store, ledger.WithMetrics(m)),
		authenticator: authenticator,
		signup:        auth.NewSignup(authenticator, auth.NewMemoryPendingStore(), mailer, time.Minute, nil),
		jwtManager:    jwtManager,
		metrics:       m,
		corsOrigins:   []string{"http://localhost:3000"},
	}))
	t.Cleanup(server.Close)
	return server, store, jwtManager
}

func TestHealthz(t *testing.T) {
	server, _, _ := newTestRouter(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRouterServesRPCAndMetrics(t *testing.T) {
	server, store, jwtManager := newTestRouter(t)
	ctx := context.Background()

	user := models.NewUser("owner@example.com", "Owner", "hash")
	require.NoError(t, store.CreateUser(ctx, user))
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	client := apiv1connect.NewContactServiceClient(http.DefaultClient, server.URL)
	req := connect.NewRequest(&pb.CreateContactRequest{Name: "Bob", Phone: "555"})
	req.Header().Set("Authorization", "Bearer "+token)
	_, err = client.CreateContact(ctx, req)
	require.NoError(t, err)

	_, err = client.ListContacts(ctx, connect.NewRequest(&pb.ListContactsRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "settleup_rpc_requests_total"), "metrics output missing rpc counter")
}

func TestReportsRequireAuth(t *testing.T) {
	server, _, _ := newTestRouter(t)

	resp, err := http.Get(server.URL + "/reports/transactions.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	server, _, _ := newTestRouter(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+apiv1connect.ContactServiceListContactsProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
