package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Effect is one per-contact ledger entry derived from a settlement event.
type Effect struct {
	ContactID string
	Payer     models.Payer
	Amount    decimal.Decimal
}

// Delta returns the signed balance change for the contact.
// USER entries increase what the contact owes, FRIEND entries decrease it.
func (e Effect) Delta() decimal.Decimal {
	if e.Payer == models.PayerFriend {
		return e.Amount.Neg()
	}
	return e.Amount
}

// SingleEffect is the entry for a one-to-one transaction.
func SingleEffect(contactID string, amount decimal.Decimal, payer models.Payer) Effect {
	return Effect{ContactID: contactID, Payer: payer, Amount: amount}
}

// ValidatePayer accepts models.PayerIDUser or any listed participant.
func ValidatePayer(payerID string, contactIDs []string) error {
	if payerID == models.PayerIDUser {
		return nil
	}
	for _, id := range contactIDs {
		if id == payerID {
			return nil
		}
	}
	return fmt.Errorf("%w: payer_id %q must be %s or one of the participants", models.ErrPayerNotInGroup, payerID, models.PayerIDUser)
}

// GroupEffects applies the sign table to a calculated split, returning one
// Effect per participant in contactIDs order.
//
// Algorithm:
//   - user pays: every participant gets a USER entry for their share
//   - contact X pays: X gets a FRIEND entry for total - share_X (X fronted the
//     whole bill, net of their own part); every other participant Y gets a
//     FRIEND entry for share_Y
func GroupEffects(payerID string, contactIDs []string, total decimal.Decimal, shares map[string]decimal.Decimal) ([]Effect, error) {
	if err := ValidatePayer(payerID, contactIDs); err != nil {
		return nil, err
	}

	effects := make([]Effect, 0, len(contactIDs))
	for _, id := range contactIDs {
		share, ok := shares[id]
		if !ok {
			return nil, fmt.Errorf("no share calculated for contact %s", id)
		}

		switch {
		case payerID == models.PayerIDUser:
			effects = append(effects, Effect{ContactID: id, Payer: models.PayerUser, Amount: share})
		case id == payerID:
			effects = append(effects, Effect{ContactID: id, Payer: models.PayerFriend, Amount: total.Sub(share)})
		default:
			effects = append(effects, Effect{ContactID: id, Payer: models.PayerFriend, Amount: share})
		}
	}
	return effects, nil
}

// ReplayBalance rebuilds a balance from zero by summing every transaction's delta.
// For a contact's full history the result equals the stored Contact.Balance.
func ReplayBalance(txs []*models.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		balance = balance.Add(tx.Delta())
	}
	return balance
}

// ReplayBalances groups the replay by contact.
func ReplayBalances(txs []*models.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		balances[tx.ContactID] = balances[tx.ContactID].Add(tx.Delta())
	}
	return balances
}
