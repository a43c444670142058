package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

func TestGroupEffects(t *testing.T) {
	shares := map[string]decimal.Decimal{"A": d("20"), "B": d("20")}

	tests := []struct {
		name    string
		payerID string
		want    []Effect
		wantErr error
	}{
		{
			name:    "user pays",
			payerID: models.PayerIDUser,
			want: []Effect{
				{ContactID: "A", Payer: models.PayerUser, Amount: d("20")},
				{ContactID: "B", Payer: models.PayerUser, Amount: d("20")},
			},
		},
		{
			// Scenario: group of {A,B}, total 60, A pays
			name:    "participant pays",
			payerID: "A",
			want: []Effect{
				{ContactID: "A", Payer: models.PayerFriend, Amount: d("40")},
				{ContactID: "B", Payer: models.PayerFriend, Amount: d("20")},
			},
		},
		{
			name:    "payer outside the group",
			payerID: "Z",
			wantErr: models.ErrPayerNotInGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GroupEffects(tt.payerID, []string{"A", "B"}, d("60"), shares)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GroupEffects() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GroupEffects() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d effects, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ContactID != tt.want[i].ContactID || got[i].Payer != tt.want[i].Payer || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("effect %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEffectDelta(t *testing.T) {
	if got := SingleEffect("A", d("100"), models.PayerUser).Delta(); !got.Equal(d("100")) {
		t.Errorf("USER delta = %s, want 100", got)
	}
	if got := SingleEffect("A", d("100"), models.PayerFriend).Delta(); !got.Equal(d("-100")) {
		t.Errorf("FRIEND delta = %s, want -100", got)
	}
}

func TestReplayBalance(t *testing.T) {
	txs := []*models.Transaction{
		{ContactID: "A", Amount: d("100"), Payer: models.PayerUser},
		{ContactID: "A", Amount: d("40"), Payer: models.PayerFriend},
		{ContactID: "B", Amount: d("20"), Payer: models.PayerFriend},
		{ContactID: "A", Amount: d("33.3333333333333333"), Payer: models.PayerUser},
	}

	if got := ReplayBalance(txs[:2]); !got.Equal(d("60")) {
		t.Errorf("ReplayBalance = %s, want 60", got)
	}

	balances := ReplayBalances(txs)
	if !balances["A"].Equal(d("93.3333333333333333")) {
		t.Errorf("A = %s, want 93.3333333333333333", balances["A"])
	}
	if !balances["B"].Equal(d("-20")) {
		t.Errorf("B = %s, want -20", balances["B"])
	}
}
