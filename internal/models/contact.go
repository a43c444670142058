package models

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Contact is a person the owning user lends to or borrows from.
type Contact struct {
	// ID is the unique identifier for the contact (UUID format).
	ID string

	// OwnerUserID is the user this contact belongs to.
	OwnerUserID string

	// Name is the display name of the contact.
	Name string

	// Phone is the contact's phone number as entered by the user.
	Phone string

	// Email is optional. Notifications are only sent when it is set.
	Email string

	// Balance is the signed running total owed between the user and this contact.
	// Positive means the contact owes the user. Only the ledger mutates it.
	Balance decimal.Decimal

	// CreatedAt is the Unix timestamp when the contact was created.
	CreatedAt int64
}

// Field limits for contacts.
const (
	MaxContactNameLength  = 100
	MaxContactPhoneLength = 32
)

// Validate checks the user-editable fields.
func (c *Contact) Validate() error {
	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		return NewValidationError("name", "is required")
	case utf8.RuneCountInString(name) > MaxContactNameLength:
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxContactNameLength))
	}

	phone := strings.TrimSpace(c.Phone)
	switch {
	case phone == "":
		return NewValidationError("phone", "is required")
	case utf8.RuneCountInString(phone) > MaxContactPhoneLength:
		return NewValidationError("phone", fmt.Sprintf("must be at most %d characters", MaxContactPhoneLength))
	}

	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return NewValidationError("email", "is not a valid address")
		}
	}
	return nil
}
