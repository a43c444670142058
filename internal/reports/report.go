// Package reports renders transaction statements as CSV, PDF or XLSX.
// Rendering is presentational only; nothing here touches balances.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Row is one statement line.
type Row struct {
	Date    time.Time
	Contact string
	Payer   models.Payer
	Amount  decimal.Decimal
	// Effect is the signed change the transaction made to the contact's balance.
	Effect decimal.Decimal
	Note   string
	Group  bool
}

// Statement is a titled list of rows.
type Statement struct {
	Title       string
	GeneratedAt time.Time
	Rows        []Row
}

var header = []string{"Date", "Contact", "Paid by", "Amount", "Balance effect", "Note", "Group"}

// NewStatement builds rows from transactions. names maps contact ID to
// display name; unknown IDs fall back to the ID itself.
func NewStatement(title string, txs []*models.Transaction, names map[string]string, now time.Time) *Statement {
	rows := make([]Row, len(txs))
	for i, tx := range txs {
		name, ok := names[tx.ContactID]
		if !ok {
			name = tx.ContactID
		}
		rows[i] = Row{
			Date:    time.Unix(tx.CreatedAt, 0).UTC(),
			Contact: name,
			Payer:   tx.Payer,
			Amount:  tx.Amount,
			Effect:  tx.Delta(),
			Note:    tx.Note,
			Group:   tx.GroupTransactionID != "",
		}
	}
	return &Statement{Title: title, GeneratedAt: now.UTC(), Rows: rows}
}

// Net is the sum of every row's balance effect.
func (s *Statement) Net() decimal.Decimal {
	net := decimal.Zero
	for _, r := range s.Rows {
		net = net.Add(r.Effect)
	}
	return net
}

func (r Row) cells() []string {
	group := ""
	if r.Group {
		group = "yes"
	}
	return []string{
		r.Date.Format("2006-01-02"),
		r.Contact,
		payerLabel(r.Payer),
		r.Amount.StringFixed(2),
		r.Effect.StringFixed(2),
		r.Note,
		group,
	}
}

func payerLabel(p models.Payer) string {
	if p == models.PayerFriend {
		return "Contact"
	}
	return "You"
}
