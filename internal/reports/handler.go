package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// Store is the read surface reports need.
type Store interface {
	GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error)
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)
	ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]*models.Transaction, error)
}

type format struct {
	contentType string
	render      func(w io.Writer, s *Statement) error
}

var formats = map[string]format{
	"csv":  {"text/csv; charset=utf-8", RenderCSV},
	"pdf":  {"application/pdf", RenderPDF},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", RenderXLSX},
}

// Handler serves GET /reports/transactions.{format}. It must run behind
// middleware.RequireAuthHTTP.
type Handler struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, now: time.Now, logger: logger}
}

// Routes mounts the report endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions.{format}", h.Transactions)
}

// Transactions renders the user's transactions, optionally for one contact
// given by the contact_id query parameter.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ext := chi.URLParam(r, "format")
	f, ok := formats[ext]
	if !ok {
		http.Error(w, "unsupported format", http.StatusNotFound)
		return
	}

	title := "Transaction statement"
	contactID := r.URL.Query().Get("contact_id")
	if contactID != "" {
		contact, err := h.store.GetContact(ctx, userID, contactID)
		if err != nil {
			if models.IsNotFound(err) {
				http.Error(w, "contact not found", http.StatusNotFound)
				return
			}
			h.fail(w, "failed to load contact", err)
			return
		}
		title = "Transactions with " + contact.Name
	}

	contacts, err := h.store.ListContacts(ctx, userID)
	if err != nil {
		h.fail(w, "failed to list contacts", err)
		return
	}
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
	}

	txs, err := h.store.ListTransactions(ctx, userID, storage.TransactionFilter{ContactID: contactID})
	if err != nil {
		h.fail(w, "failed to list transactions", err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := f.render(&buf, NewStatement(title, txs, names, now)); err != nil {
		h.fail(w, "failed to render report", err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", now.UTC().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("Failed to write report", "error", err)
		return
	}
	h.logger.Info("Report generated", "user_id", userID, "format", ext, "rows", len(txs))
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
