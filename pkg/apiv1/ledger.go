package apiv1

// Transaction is a single ledger entry.
type Transaction struct {
	Id                 string `json:"id"`
	ContactId          string `json:"contact_id"`
	Amount             string `json:"amount"`
	Payer              string `json:"payer"`
	Note               string `json:"note,omitempty"`
	GroupTransactionId string `json:"group_transaction_id,omitempty"`
	CreatedAt          int64  `json:"created_at"`
}

// GroupTransaction is a shared expense and its per-contact split.
type GroupTransaction struct {
	Id                string            `json:"id"`
	PayerId           string            `json:"payer_id"`
	ContactIds        []string          `json:"contact_ids"`
	TotalAmount       string            `json:"total_amount"`
	Description       string            `json:"description"`
	SplitMode         string            `json:"split_mode"`
	PerPersonShare    string            `json:"per_person_share"`
	IndividualAmounts map[string]string `json:"individual_amounts"`
	UserAmount        *string           `json:"user_amount,omitempty"`
	TransactionIds    []string          `json:"transaction_ids"`
	CreatedAt         int64             `json:"created_at"`
}

type CreateTransactionRequest struct {
	ContactId string `json:"contact_id"`
	Amount    string `json:"amount"`
	Payer     string `json:"payer"`
	Note      string `json:"note,omitempty"`
}

type CreateTransactionResponse struct {
	TransactionId string       `json:"transaction_id"`
	NewBalance    string       `json:"new_balance"`
	Transaction   *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionId string `json:"transaction_id"`
}

type DeleteTransactionResponse struct {
	ContactId  string `json:"contact_id"`
	NewBalance string `json:"new_balance"`
}

type ListTransactionsRequest struct {
	ContactId string `json:"contact_id,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type CreateGroupTransactionRequest struct {
	PayerId           string            `json:"payer_id"`
	ContactIds        []string          `json:"contact_ids"`
	TotalAmount       string            `json:"total_amount"`
	Description       string            `json:"description"`
	SplitMode         string            `json:"split_mode"`
	IndividualAmounts map[string]string `json:"individual_amounts,omitempty"`
	UserAmount        *string           `json:"user_amount,omitempty"`
}

type CreateGroupTransactionResponse struct {
	GroupTransactionId string            `json:"group_transaction_id"`
	PerPersonShare     string            `json:"per_person_share"`
	IndividualAmounts  map[string]string `json:"individual_amounts"`
	TransactionIds     []string          `json:"transaction_ids"`
}

type ListGroupTransactionsRequest struct{}

type ListGroupTransactionsResponse struct {
	GroupTransactions []*GroupTransaction `json:"group_transactions"`
}

// MonthSummary is one month of activity.
type MonthSummary struct {
	Label      string `json:"label"`
	Year       int32  `json:"year"`
	Month      int32  `json:"month"`
	UserPaid   string `json:"user_paid"`
	FriendPaid string `json:"friend_paid"`
	Net        string `json:"net"`
}

type GetMonthlySummaryRequest struct{}

type GetMonthlySummaryResponse struct {
	Months []*MonthSummary `json:"months"`
}

// BalanceBucket counts contacts in one balance range.
type BalanceBucket struct {
	Label string `json:"label"`
	Count int32  `json:"count"`
}

type GetBalanceBucketsRequest struct{}

type GetBalanceBucketsResponse struct {
	Buckets []*BalanceBucket `json:"buckets"`
}

// Notification is a delivery record for one message to a contact.
type Notification struct {
	Id                 string `json:"id"`
	ContactId          string `json:"contact_id"`
	TransactionId      string `json:"transaction_id,omitempty"`
	GroupTransactionId string `json:"group_transaction_id,omitempty"`
	Channel            string `json:"channel"`
	Recipient          string `json:"recipient"`
	Subject            string `json:"subject"`
	Status             string `json:"status"`
	Error              string `json:"error,omitempty"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"updated_at"`
}

type ListNotificationsRequest struct{}

type ListNotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}
