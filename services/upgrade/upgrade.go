package upgrade

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nikahlink/models"
	"nikahlink/services/invitation"
	"nikahlink/services/plan"
	"nikahlink/services/storage"

	invitationRepo "nikahlink/database/repository/invitation"
	transactionRepo "nikahlink/database/repository/transaction"
)

var (
	// ErrMissingProof is returned when a submission carries no transfer proof.
	ErrMissingProof = errors.New("payment proof is required")
	// ErrAlreadyFinal is returned when the transaction was already paid or
	// rejected; finalized transactions never change again.
	ErrAlreadyFinal = errors.New("transaction already finalized")
	// ErrNotFound is returned when the transaction does not exist.
	ErrNotFound = errors.New("transaction not found")
	// ErrUnknownPlan is returned for a target plan outside the catalog.
	ErrUnknownPlan = errors.New("unknown target plan")
)

// UpgradeService drives the manual bank-transfer upgrade flow: the owner
// submits a transfer proof, an admin confirms or rejects it. Confirmation is
// what actually promotes the invitation.
type UpgradeService interface {
	Submit(ctx context.Context, userID, invitationID string, in SubmitInput) (*models.Transaction, error)
	Confirm(ctx context.Context, trxID, adminID string) (*models.Transaction, error)
	Reject(ctx context.Context, trxID, adminID string) (*models.Transaction, error)
	ListByUser(userID string) ([]models.Transaction, error)
}

// SubmitInput carries the upgrade request fields. Proof may be a local path,
// an io.Reader, or a multipart file header, as accepted by the blob store.
type SubmitInput struct {
	TargetPlan string
	SenderName string
	SenderBank string
	Proof      interface{}
}

// DefaultUpgradeService implements UpgradeService.
type DefaultUpgradeService struct {
	Transactions transactionRepo.TransactionRepository
	Invitations  invitationRepo.InvitationRepository
	Catalog      plan.Catalog
	Storage      storage.StorageService
}

// newTransactionID keeps the historical TRX id shape.
func newTransactionID() string {
	return "TRX" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
}

// Submit stores a pending upgrade transaction with the uploaded proof. The
// invitation itself is untouched until an admin confirms.
func (s *DefaultUpgradeService) Submit(ctx context.Context, userID, invitationID string, in SubmitInput) (*models.Transaction, error) {
	if in.TargetPlan == models.PlanFree || !models.KnownPlan(in.TargetPlan) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, in.TargetPlan)
	}
	if in.Proof == nil {
		return nil, ErrMissingProof
	}

	inv, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return nil, invitation.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, invitation.ErrNotOwner
	}

	trxID := newTransactionID()
	proofURL, err := s.Storage.UploadProof(ctx, in.Proof, trxID)
	if err != nil {
		return nil, fmt.Errorf("failed to upload payment proof: %w", err)
	}

	trx := &models.Transaction{
		ID:           trxID,
		UserID:       userID,
		InvitationID: invitationID,
		Package:      in.TargetPlan,
		Amount:       s.Catalog.LimitsFor(in.TargetPlan).Price,
		SenderName:   in.SenderName,
		SenderBank:   in.SenderBank,
		ProofURL:     proofURL,
		Status:       models.TransactionPending,
		CreatedAt:    time.Now(),
	}
	if err := s.Transactions.Create(trx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	return trx, nil
}

// Confirm marks the transaction paid and promotes its invitation to the paid
// plan in one store transaction. Replaying a confirm, or confirming a
// rejected transaction, fails with ErrAlreadyFinal and changes nothing.
func (s *DefaultUpgradeService) Confirm(ctx context.Context, trxID, adminID string) (*models.Transaction, error) {
	trx, err := s.Transactions.GetByID(trxID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", trxID, err)
	}
	if trx == nil {
		return nil, ErrNotFound
	}
	if trx.Final() {
		return nil, ErrAlreadyFinal
	}

	limits := s.Catalog.LimitsFor(trx.Package)
	expiry := time.Now().AddDate(0, 0, limits.Duration)
	err = s.Transactions.ConfirmPaid(ctx, trxID, adminID, trx.Package, limits.MaxLinks, expiry)
	if errors.Is(err, transactionRepo.ErrNotPending) {
		return nil, ErrAlreadyFinal
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm transaction %s: %w", trxID, err)
	}

	confirmed, err := s.Transactions.GetByID(trxID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction %s: %w", trxID, err)
	}
	return confirmed, nil
}

// Reject finalizes the transaction as rejected. The invitation keeps its
// current plan; no transition ever lowers plan or quota.
func (s *DefaultUpgradeService) Reject(ctx context.Context, trxID, adminID string) (*models.Transaction, error) {
	trx, err := s.Transactions.GetByID(trxID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", trxID, err)
	}
	if trx == nil {
		return nil, ErrNotFound
	}
	if trx.Final() {
		return nil, ErrAlreadyFinal
	}

	err = s.Transactions.Reject(ctx, trxID, adminID)
	if errors.Is(err, transactionRepo.ErrNotPending) {
		return nil, ErrAlreadyFinal
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reject transaction %s: %w", trxID, err)
	}

	rejected, err := s.Transactions.GetByID(trxID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction %s: %w", trxID, err)
	}
	return rejected, nil
}

// ListByUser returns the user's transactions, newest first.
func (s *DefaultUpgradeService) ListByUser(userID string) ([]models.Transaction, error) {
	trxs, err := s.Transactions.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of %s: %w", userID, err)
	}
	return trxs, nil
}
