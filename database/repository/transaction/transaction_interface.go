package transactionRepo

import (
	"context"
	"errors"
	"time"

	"nikahlink/models"
)

// ErrNotPending is returned by the conditional finalization updates when the
// transaction has already left the pending state (or disappeared) between
// the caller's read and the write.
var ErrNotPending = errors.New("transaction is not pending")

// TransactionRepository defines data access for upgrade transactions.
// Lookup methods return (nil, nil) when absent.
type TransactionRepository interface {
	// Create inserts a new transaction record.
	Create(trx *models.Transaction) error
	// GetByID retrieves a transaction by its unique ID.
	GetByID(id string) (*models.Transaction, error)
	// GetAll retrieves all transactions, newest first. limit <= 0 means no limit.
	GetAll(limit int) ([]models.Transaction, error)
	// GetByUser retrieves a user's transactions, newest first.
	GetByUser(userID string) ([]models.Transaction, error)

	// ConfirmPaid marks a pending transaction paid and raises the target
	// invitation's plan, quota and expiry. Both writes commit together or
	// not at all. Returns ErrNotPending if the transaction was already final.
	ConfirmPaid(ctx context.Context, trxID, adminID, plan string, maxLinks int, expiry time.Time) error
	// Reject marks a pending transaction rejected. The invitation is not
	// touched. Returns ErrNotPending if the transaction was already final.
	Reject(ctx context.Context, trxID, adminID string) error

	// SumPaidAmounts totals the amounts of all paid transactions.
	SumPaidAmounts() (int64, error)
}
