package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Payer identifies which side fronted the money in a Transaction.
type Payer string

const (
	// PayerUser means the owning user paid on behalf of the contact.
	PayerUser Payer = "USER"
	// PayerFriend means the contact paid on behalf of the owning user.
	PayerFriend Payer = "FRIEND"
)

// ParsePayer validates a wire value.
func ParsePayer(s string) (Payer, error) {
	switch Payer(s) {
	case PayerUser, PayerFriend:
		return Payer(s), nil
	}
	return "", NewValidationError("payer", fmt.Sprintf("must be %s or %s, got %q", PayerUser, PayerFriend, s))
}

// Transaction is one immutable monetary event between the owning user and a contact.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// OwnerUserID is the user who recorded the transaction.
	OwnerUserID string

	// ContactID is the contact whose balance this transaction affects.
	ContactID string

	// Amount is the unsigned value of the event. Direction comes from Payer.
	Amount decimal.Decimal

	// Payer is USER or FRIEND.
	Payer Payer

	// Note is an optional free-text description (at most MaxNoteLength runes).
	Note string

	// GroupTransactionID links the entry to the group split that produced it.
	// Empty for single transactions.
	GroupTransactionID string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}

// Delta returns the signed effect of the transaction on the contact's balance.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Payer == PayerFriend {
		return t.Amount.Neg()
	}
	return t.Amount
}

// MaxNoteLength bounds notes and group descriptions.
const MaxNoteLength = 200
