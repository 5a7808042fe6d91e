package models

import "time"

// Transaction statuses. pending transitions exactly once, to paid or rejected.
const (
	TransactionPending  = "pending"
	TransactionPaid     = "paid"
	TransactionRejected = "rejected"
)

// Transaction is a manual bank-transfer payment claim for one invitation's
// plan upgrade.
type Transaction struct {
	ID           string     `bson:"id" json:"id"`
	UserID       string     `bson:"userId" json:"userId"`
	InvitationID string     `bson:"invitationId" json:"invitationId"`
	Package      string     `bson:"package" json:"package"`
	Amount       int64      `bson:"amount" json:"amount"`
	SenderName   string     `bson:"senderName" json:"senderName"`
	SenderBank   string     `bson:"senderBank" json:"senderBank"`
	ProofURL     string     `bson:"proofUrl" json:"proofUrl"`
	Status       string     `bson:"status" json:"status"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	PaidAt       *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	RejectedAt   *time.Time `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`
	ConfirmedBy  string     `bson:"confirmedBy,omitempty" json:"confirmedBy,omitempty"`
	RejectedBy   string     `bson:"rejectedBy,omitempty" json:"rejectedBy,omitempty"`
}

// Final reports whether the transaction has left the pending state.
func (t *Transaction) Final() bool {
	return t.Status != TransactionPending
}
