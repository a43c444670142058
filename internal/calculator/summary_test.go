package calculator

import (
	"testing"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

func at(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func TestMonthlySummary(t *testing.T) {
	now := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
	txs := []*models.Transaction{
		{Amount: d("100"), Payer: models.PayerUser, CreatedAt: at(2026, time.March, 1)},
		{Amount: d("30"), Payer: models.PayerFriend, CreatedAt: at(2026, time.March, 10)},
		{Amount: d("50"), Payer: models.PayerFriend, CreatedAt: at(2025, time.November, 20)},
		{Amount: d("75"), Payer: models.PayerUser, CreatedAt: at(2025, time.October, 1)},
		// Outside the window
		{Amount: d("999"), Payer: models.PayerUser, CreatedAt: at(2025, time.September, 30)},
	}

	rows := MonthlySummary(txs, now)
	if len(rows) != SummaryMonths {
		t.Fatalf("got %d rows, want %d", len(rows), SummaryMonths)
	}

	wantLabels := []string{"Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026", "Mar 2026"}
	for i, want := range wantLabels {
		if rows[i].Label != want {
			t.Errorf("row %d label = %q, want %q", i, rows[i].Label, want)
		}
	}

	if !rows[0].UserPaid.Equal(d("75")) || !rows[0].Net.Equal(d("75")) {
		t.Errorf("Oct row = %+v, want userPaid 75 net 75", rows[0])
	}
	if !rows[1].FriendPaid.Equal(d("50")) || !rows[1].Net.Equal(d("-50")) {
		t.Errorf("Nov row = %+v, want friendPaid 50 net -50", rows[1])
	}
	for _, i := range []int{2, 3, 4} {
		if !rows[i].UserPaid.IsZero() || !rows[i].FriendPaid.IsZero() || !rows[i].Net.IsZero() {
			t.Errorf("row %d should be zero-filled, got %+v", i, rows[i])
		}
	}
	last := rows[5]
	if !last.UserPaid.Equal(d("100")) || !last.FriendPaid.Equal(d("30")) || !last.Net.Equal(d("70")) {
		t.Errorf("Mar row = %+v, want 100/30/70", last)
	}
}

func TestMonthlySummary_Idempotent(t *testing.T) {
	now := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)
	txs := []*models.Transaction{
		{Amount: d("10"), Payer: models.PayerUser, CreatedAt: at(2025, time.December, 1)},
	}
	first := MonthlySummary(txs, now)
	second := MonthlySummary(txs, now)
	for i := range first {
		if first[i].Label != second[i].Label || !first[i].Net.Equal(second[i].Net) {
			t.Errorf("row %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestMonthlyWindowStart(t *testing.T) {
	got := MonthlyWindowStart(time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC))
	want := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthlyWindowStart = %v, want %v", got, want)
	}
}

func TestBalanceBuckets(t *testing.T) {
	contacts := []*models.Contact{
		{Balance: d("-0.01")},
		{Balance: d("-500")},
		{Balance: d("0")},
		{Balance: d("999.99")},
		{Balance: d("1000")},
		{Balance: d("4999")},
		{Balance: d("5000")},
		{Balance: d("10000")},
		{Balance: d("25000")},
	}

	rows := BalanceBuckets(contacts)
	want := []BucketRow{
		{Label: "<0", Count: 2},
		{Label: "0-1k", Count: 2},
		{Label: "1k-5k", Count: 2},
		{Label: "5k-10k", Count: 1},
		{Label: "10k+", Count: 2},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestBalanceBuckets_Empty(t *testing.T) {
	rows := BalanceBuckets(nil)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	for _, r := range rows {
		if r.Count != 0 {
			t.Errorf("bucket %s = %d, want 0", r.Label, r.Count)
		}
	}
}
