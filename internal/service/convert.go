package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	pb "github.com/mmynk/settleup/pkg/apiv1"
)

func toProtoContact(c *models.Contact) *pb.Contact {
	return &pb.Contact{
		Id:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Balance:   c.Balance.String(),
		CreatedAt: c.CreatedAt,
	}
}

func toProtoTransaction(tx *models.Transaction) *pb.Transaction {
	return &pb.Transaction{
		Id:                 tx.ID,
		ContactId:          tx.ContactID,
		Amount:             tx.Amount.String(),
		Payer:              string(tx.Payer),
		Note:               tx.Note,
		GroupTransactionId: tx.GroupTransactionID,
		CreatedAt:          tx.CreatedAt,
	}
}

func toProtoAmounts(in map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(in))
	for id, d := range in {
		out[id] = d.String()
	}
	return out
}

func toProtoGroup(g *models.GroupTransaction) *pb.GroupTransaction {
	out := &pb.GroupTransaction{
		Id:                g.ID,
		PayerId:           g.PayerID,
		ContactIds:        g.ContactIDs,
		TotalAmount:       g.TotalAmount.String(),
		Description:       g.Description,
		SplitMode:         string(g.SplitMode),
		PerPersonShare:    g.PerPersonShare.String(),
		IndividualAmounts: toProtoAmounts(g.IndividualAmounts),
		TransactionIds:    g.TransactionIDs,
		CreatedAt:         g.CreatedAt,
	}
	if g.UserAmount != nil {
		ua := g.UserAmount.String()
		out.UserAmount = &ua
	}
	return out
}

func toProtoMonth(row calculator.MonthRow) *pb.MonthSummary {
	return &pb.MonthSummary{
		Label:      row.Label,
		Year:       int32(row.Year),
		Month:      int32(row.Month),
		UserPaid:   row.UserPaid.String(),
		FriendPaid: row.FriendPaid.String(),
		Net:        row.Net.String(),
	}
}

func toProtoNotification(n *models.Notification) *pb.Notification {
	return &pb.Notification{
		Id:                 n.ID,
		ContactId:          n.ContactID,
		TransactionId:      n.TransactionID,
		GroupTransactionId: n.GroupTransactionID,
		Channel:            n.Channel,
		Recipient:          n.Recipient,
		Subject:            n.Subject,
		Status:             string(n.Status),
		Error:              n.Error,
		CreatedAt:          n.CreatedAt,
		UpdatedAt:          n.UpdatedAt,
	}
}

func toProtoUser(u *models.User) *pb.User {
	return &pb.User{
		Id:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
