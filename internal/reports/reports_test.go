package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func sampleStatement() *Statement {
	txs := []*models.Transaction{
		{ContactID: "c1", Amount: decimal.RequireFromString("50"), Payer: models.PayerUser, Note: "dinner", CreatedAt: fixedNow.Unix()},
		{ContactID: "c2", Amount: decimal.RequireFromString("12.5"), Payer: models.PayerFriend, GroupTransactionID: "g1", CreatedAt: fixedNow.Unix()},
		{ContactID: "gone", Amount: decimal.RequireFromString("1"), Payer: models.PayerUser, CreatedAt: fixedNow.Unix()},
	}
	return NewStatement("Statement", txs, map[string]string{"c1": "Bob", "c2": "Carol"}, fixedNow)
}

func TestNewStatement(t *testing.T) {
	s := sampleStatement()
	require.Len(t, s.Rows, 3)
	assert.Equal(t, "Bob", s.Rows[0].Contact)
	assert.Equal(t, "gone", s.Rows[2].Contact)
	assert.True(t, s.Rows[1].Group)
	assert.True(t, s.Rows[1].Effect.Equal(decimal.RequireFromString("-12.5")))
	assert.True(t, s.Net().Equal(decimal.RequireFromString("38.5")))
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, sampleStatement()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"2026-03-15", "Bob", "You", "50.00", "50.00", "dinner", ""}, records[1])
	assert.Equal(t, []string{"2026-03-15", "Carol", "Contact", "12.50", "-12.50", "", "yes"}, records[2])
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, sampleStatement()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderPDFTruncates(t *testing.T) {
	txs := make([]*models.Transaction, maxPDFRows+10)
	for i := range txs {
		txs[i] = &models.Transaction{ContactID: "c1", Amount: decimal.NewFromInt(1), Payer: models.PayerUser, CreatedAt: fixedNow.Unix()}
	}
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, NewStatement("Long", txs, nil, fixedNow)))
	assert.NotZero(t, buf.Len())
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderXLSX(&buf, sampleStatement()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Contact", rows[0][1])
	assert.Equal(t, "Carol", rows[2][1])
	assert.Equal(t, "-12.5", rows[2][4])
}

func TestTransactionsHandler(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	user := models.NewUser("owner@example.com", "Owner", "hash")
	require.NoError(t, store.CreateUser(ctx, user))
	bob := &models.Contact{OwnerUserID: user.ID, Name: "Bob", Phone: "555"}
	require.NoError(t, store.CreateContact(ctx, bob))
	_, err = store.CommitTransaction(ctx, &models.Transaction{
		OwnerUserID: user.ID,
		ContactID:   bob.ID,
		Amount:      decimal.NewFromInt(20),
		Payer:       models.PayerUser,
		CreatedAt:   fixedNow.Unix(),
	})
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	h := NewHandler(store, nil)
	h.now = func() time.Time { return fixedNow }
	r := chi.NewRouter()
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuthHTTP(jwtManager))
		h.Routes(r)
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	get := func(path, bearer string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	tests := []struct {
		name        string
		path        string
		bearer      string
		status      int
		contentType string
	}{
		{"csv", "/reports/transactions.csv", token, http.StatusOK, "text/csv; charset=utf-8"},
		{"pdf for contact", "/reports/transactions.pdf?contact_id=" + bob.ID, token, http.StatusOK, "application/pdf"},
		{"xlsx", "/reports/transactions.xlsx", token, http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"unknown format", "/reports/transactions.doc", token, http.StatusNotFound, ""},
		{"unknown contact", "/reports/transactions.csv?contact_id=missing", token, http.StatusNotFound, ""},
		{"no token", "/reports/transactions.csv", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(tt.path, tt.bearer)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
				assert.Contains(t, resp.Header.Get("Content-Disposition"), "transactions_20260315_120000")
			}
		})
	}
}
