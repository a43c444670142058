package models

// NotificationStatus tracks delivery of a Notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification records one message sent to a contact after a ledger write.
// Its status is informational and never affects ledger state.
type Notification struct {
	ID                 string
	OwnerUserID        string
	ContactID          string
	TransactionID      string
	GroupTransactionID string

	// Channel is the delivery channel. Only "email" exists today.
	Channel   string
	Recipient string
	Subject   string

	Status NotificationStatus
	// Error holds the delivery error when Status is failed.
	Error string

	CreatedAt int64
	UpdatedAt int64
}
