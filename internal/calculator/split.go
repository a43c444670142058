package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// SplitTolerance is the absolute difference allowed between the manual shares
// and the group total. It absorbs rounding done by display layers.
var SplitTolerance = decimal.New(1, -2)

// GroupSplitInput describes a group expense to divide.
type GroupSplitInput struct {
	TotalAmount decimal.Decimal
	ContactIDs  []string
	Mode        models.SplitMode

	// IndividualAmounts and UserAmount are only read in MANUAL mode.
	// A nil UserAmount counts as zero.
	IndividualAmounts map[string]decimal.Decimal
	UserAmount        *decimal.Decimal
}

// GroupSplit is the calculated division of a group expense.
type GroupSplit struct {
	// ContactAmounts maps each participant to the share they are responsible for.
	ContactAmounts map[string]decimal.Decimal

	// PerPersonShare is TotalAmount / (participants + 1). In MANUAL mode it is
	// informational only.
	PerPersonShare decimal.Decimal

	// UserAmount is the owning user's own share.
	UserAmount decimal.Decimal
}

// SplitGroup divides a group total among the participants and the owning user.
//
// EQUAL mode gives every party, including the implicit user, TotalAmount/(n+1).
// MANUAL mode accepts caller shares when they reconcile to the total within
// SplitTolerance and fails with *models.SplitMismatchError otherwise.
func SplitGroup(in GroupSplitInput) (*GroupSplit, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total must be greater than zero, got %s", models.ErrInvalidAmount, in.TotalAmount.String())
	}
	if err := ValidateParticipants(in.ContactIDs); err != nil {
		return nil, err
	}

	parties := decimal.NewFromInt(int64(len(in.ContactIDs) + 1))
	perPerson := in.TotalAmount.Div(parties)

	switch in.Mode {
	case models.SplitEqual:
		amounts := make(map[string]decimal.Decimal, len(in.ContactIDs))
		for _, id := range in.ContactIDs {
			amounts[id] = perPerson
		}
		return &GroupSplit{
			ContactAmounts: amounts,
			PerPersonShare: perPerson,
			UserAmount:     perPerson,
		}, nil

	case models.SplitManual:
		amounts, userAmount, err := manualShares(in)
		if err != nil {
			return nil, err
		}
		return &GroupSplit{
			ContactAmounts: amounts,
			PerPersonShare: perPerson,
			UserAmount:     userAmount,
		}, nil
	}

	return nil, models.NewValidationError("split_mode", fmt.Sprintf("unsupported split mode %q", in.Mode))
}

func manualShares(in GroupSplitInput) (map[string]decimal.Decimal, decimal.Decimal, error) {
	if len(in.IndividualAmounts) != len(in.ContactIDs) {
		return nil, decimal.Zero, models.NewValidationError("individual_amounts",
			fmt.Sprintf("expected %d shares, got %d", len(in.ContactIDs), len(in.IndividualAmounts)))
	}

	userAmount := decimal.Zero
	if in.UserAmount != nil {
		userAmount = *in.UserAmount
	}
	if userAmount.IsNegative() {
		return nil, decimal.Zero, fmt.Errorf("%w: user_amount cannot be negative", models.ErrInvalidAmount)
	}
	if userAmount.GreaterThan(in.TotalAmount) {
		return nil, decimal.Zero, fmt.Errorf("%w: user_amount cannot exceed the total", models.ErrInvalidAmount)
	}

	amounts := make(map[string]decimal.Decimal, len(in.ContactIDs))
	sum := userAmount
	for _, id := range in.ContactIDs {
		share, ok := in.IndividualAmounts[id]
		if !ok {
			return nil, decimal.Zero, models.NewValidationError("individual_amounts",
				fmt.Sprintf("missing share for contact %s", id))
		}
		if share.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: share for contact %s cannot be negative", models.ErrInvalidAmount, id)
		}
		// A share above the total would give a paying contact a negative entry.
		if share.GreaterThan(in.TotalAmount) {
			return nil, decimal.Zero, fmt.Errorf("%w: share for contact %s cannot exceed the total", models.ErrInvalidAmount, id)
		}
		amounts[id] = share
		sum = sum.Add(share)
	}

	if sum.Sub(in.TotalAmount).Abs().GreaterThan(SplitTolerance) {
		return nil, decimal.Zero, &models.SplitMismatchError{Expected: in.TotalAmount, Computed: sum}
	}
	return amounts, userAmount, nil
}

// ValidateParticipants requires at least one contact and no duplicates.
func ValidateParticipants(contactIDs []string) error {
	if len(contactIDs) == 0 {
		return models.NewValidationError("contact_ids", "at least one contact is required")
	}
	seen := make(map[string]bool, len(contactIDs))
	for _, id := range contactIDs {
		if id == "" {
			return models.NewValidationError("contact_ids", "contact id cannot be empty")
		}
		if seen[id] {
			return models.NewValidationError("contact_ids", fmt.Sprintf("duplicate contact %s", id))
		}
		seen[id] = true
	}
	return nil
}
