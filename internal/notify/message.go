package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

const defaultSender = "Your SettleUp contact"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// balanceLine describes a balance from the contact's point of view.
// A positive balance means the contact owes the sender.
func balanceLine(sender string, balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return fmt.Sprintf("You now owe %s %s.", sender, money(balance))
	case balance.IsNegative():
		return fmt.Sprintf("%s now owes you %s.", sender, money(balance.Abs()))
	}
	return fmt.Sprintf("You and %s are settled up.", sender)
}

func entryLine(sender string, tx *models.Transaction) string {
	if tx.Payer == models.PayerUser {
		return fmt.Sprintf("%s recorded that they covered %s for you.", sender, money(tx.Amount))
	}
	return fmt.Sprintf("%s recorded that you covered %s.", sender, money(tx.Amount))
}

func transactionMessage(sender string, contact *models.Contact, tx *models.Transaction, balance decimal.Decimal) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", contact.Name)
	body.WriteString(entryLine(sender, tx))
	body.WriteString("\n")
	if tx.Note != "" {
		fmt.Fprintf(&body, "Note: %s\n", tx.Note)
	}
	body.WriteString("\n")
	body.WriteString(balanceLine(sender, balance))
	body.WriteString("\n")

	return Message{
		To:      contact.Email,
		Subject: fmt.Sprintf("%s recorded a transaction of %s", sender, money(tx.Amount)),
		Body:    body.String(),
	}
}

func groupMessage(sender string, contact *models.Contact, group *models.GroupTransaction, tx *models.Transaction) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", contact.Name)
	fmt.Fprintf(&body, "%s split %q (total %s, %s split) with you.\n",
		sender, group.Description, money(group.TotalAmount), strings.ToLower(string(group.SplitMode)))
	fmt.Fprintf(&body, "Your share: %s\n\n", money(group.IndividualAmounts[contact.ID]))
	body.WriteString(entryLine(sender, tx))
	body.WriteString("\n")

	return Message{
		To:      contact.Email,
		Subject: fmt.Sprintf("%s split %q with you", sender, group.Description),
		Body:    body.String(),
	}
}

// SignupCodeMessage is the e-mail carrying a one-time signup code.
func SignupCodeMessage(to, displayName, code string, validFor string) Message {
	return Message{
		To:      to,
		Subject: "Your SettleUp verification code",
		Body: fmt.Sprintf("Hi %s,\n\nYour verification code is %s.\nIt expires in %s.\n",
			displayName, code, validFor),
	}
}
