package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayerIDUser is the PayerID value used when the owning user fronted a group expense.
const PayerIDUser = "USER"

// SplitMode selects how a group total is divided.
type SplitMode string

const (
	// SplitEqual divides the total evenly among the participants and the user.
	SplitEqual SplitMode = "EQUAL"
	// SplitManual uses caller supplied shares that must reconcile to the total.
	SplitManual SplitMode = "MANUAL"
)

// ParseSplitMode validates a wire value.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case SplitEqual, SplitManual:
		return SplitMode(s), nil
	}
	return "", NewValidationError("split_mode", fmt.Sprintf("must be %s or %s, got %q", SplitEqual, SplitManual, s))
}

// GroupTransaction is a shared expense split between the owning user and several contacts.
// It is written once together with its per-contact Transactions and never edited.
type GroupTransaction struct {
	// ID is the unique identifier for the group transaction (UUID format).
	ID string

	// OwnerUserID is the user who recorded the expense.
	OwnerUserID string

	// PayerID is PayerIDUser or the ID of the participant contact who paid.
	PayerID string

	// ContactIDs lists the participating contacts in request order.
	// The owning user is an implicit extra participant and is never listed.
	ContactIDs []string

	// TotalAmount is the full bill.
	TotalAmount decimal.Decimal

	// Description is the user supplied label (at most MaxNoteLength runes).
	Description string

	// SplitMode is EQUAL or MANUAL.
	SplitMode SplitMode

	// PerPersonShare is TotalAmount / (len(ContactIDs)+1). Display only in MANUAL mode.
	PerPersonShare decimal.Decimal

	// IndividualAmounts holds each contact's share. Always populated after creation;
	// in EQUAL mode every value equals PerPersonShare.
	IndividualAmounts map[string]decimal.Decimal

	// UserAmount is the owning user's own share in MANUAL mode.
	UserAmount *decimal.Decimal

	// TransactionIDs are the IDs of the generated per-contact transactions.
	TransactionIDs []string

	// CreatedAt is the Unix timestamp when the group transaction was recorded.
	CreatedAt int64
}

// PaidByUser reports whether the owning user fronted the expense.
func (g *GroupTransaction) PaidByUser() bool {
	return g.PayerID == PayerIDUser
}
