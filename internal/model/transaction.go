package model

import "time"

// TransactionType is the kind of gateway operation a record represents.
type TransactionType string

const (
	TransactionTypePurchase      TransactionType = "purchase"
	TransactionTypeAuthorization TransactionType = "authorization"
	TransactionTypeCapture       TransactionType = "capture"
	TransactionTypeVoid          TransactionType = "void"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypeVerification  TransactionType = "verification"
)

// TransactionStatus is the lifecycle state of a transaction record.
// Records are append-only; the single exception is a void, which flips
// the original record's status to "voided" in place.
type TransactionStatus string

const (
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusSuccess    TransactionStatus = "success"
	TransactionStatusDeclined   TransactionStatus = "declined"
	TransactionStatusError      TransactionStatus = "error"
	TransactionStatusRefunded   TransactionStatus = "refunded"
	TransactionStatusVoided     TransactionStatus = "voided"
)

type Transaction struct {
	ID              string            `json:"id"`
	Type            TransactionType   `json:"type"`
	Amount          float64           `json:"amount"`
	Currency        string            `json:"currency"`
	Status          TransactionStatus `json:"status"`
	CardLast4       string            `json:"card_last4"`
	CustomerName    string            `json:"customer_name"`
	Timestamp       time.Time         `json:"timestamp"`
	RequestID       string            `json:"request_id,omitempty"`
	ResponseCode    string            `json:"response_code,omitempty"`
	ResponseMessage string            `json:"response_message,omitempty"`
	SubscriptionID  string            `json:"subscription_id,omitempty"`
}

// Clone returns a value copy safe from later mutation of the stored record.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
