package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// SummaryMonths is the length of the trailing window used by MonthlySummary.
const SummaryMonths = 6

// MonthRow is one month of the monthly summary.
type MonthRow struct {
	Label      string // e.g. "Mar 2026"
	Year       int
	Month      time.Month
	UserPaid   decimal.Decimal
	FriendPaid decimal.Decimal
	Net        decimal.Decimal // UserPaid - FriendPaid
}

// BucketRow counts contacts whose balance falls in one bin.
type BucketRow struct {
	Label string
	Count int
}

type bucket struct {
	label string
	// upper is the exclusive upper bound; nil means unbounded.
	upper *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var balanceBuckets = []bucket{
	{label: "<0", upper: bound(0)},
	{label: "0-1k", upper: bound(1000)},
	{label: "1k-5k", upper: bound(5000)},
	{label: "5k-10k", upper: bound(10000)},
	{label: "10k+"},
}

// MonthlyWindowStart returns the first instant of the oldest month included in
// MonthlySummary for the given reference time (UTC).
func MonthlyWindowStart(now time.Time) time.Time {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(SummaryMonths - 1), 0)
}

// MonthlySummary groups transactions by calendar month and payer for the
// trailing SummaryMonths months ending with now's month. Rows are oldest first
// and months without activity are zero-filled. Transactions outside the window
// are ignored.
func MonthlySummary(txs []*models.Transaction, now time.Time) []MonthRow {
	start := MonthlyWindowStart(now)

	rows := make([]MonthRow, SummaryMonths)
	index := make(map[[2]int]int, SummaryMonths)
	for i := range rows {
		m := start.AddDate(0, i, 0)
		rows[i] = MonthRow{
			Label:      m.Format("Jan 2006"),
			Year:       m.Year(),
			Month:      m.Month(),
			UserPaid:   decimal.Zero,
			FriendPaid: decimal.Zero,
		}
		index[[2]int{m.Year(), int(m.Month())}] = i
	}

	for _, tx := range txs {
		at := time.Unix(tx.CreatedAt, 0).UTC()
		i, ok := index[[2]int{at.Year(), int(at.Month())}]
		if !ok {
			continue
		}
		if tx.Payer == models.PayerFriend {
			rows[i].FriendPaid = rows[i].FriendPaid.Add(tx.Amount)
		} else {
			rows[i].UserPaid = rows[i].UserPaid.Add(tx.Amount)
		}
	}

	for i := range rows {
		rows[i].Net = rows[i].UserPaid.Sub(rows[i].FriendPaid)
	}
	return rows
}

// BalanceBuckets partitions contacts by current balance into the fixed bins
// <0, 0-1k, 1k-5k, 5k-10k and 10k+. Every bin is reported, even when empty.
func BalanceBuckets(contacts []*models.Contact) []BucketRow {
	rows := make([]BucketRow, len(balanceBuckets))
	for i, b := range balanceBuckets {
		rows[i].Label = b.label
	}

	for _, c := range contacts {
		for i, b := range balanceBuckets {
			if b.upper == nil || c.Balance.LessThan(*b.upper) {
				rows[i].Count++
				break
			}
		}
	}
	return rows
}
