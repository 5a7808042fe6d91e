package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"nikahlink/models"
	"nikahlink/services/plan"

	invitationRepo "nikahlink/database/repository/invitation"
	settingsRepo "nikahlink/database/repository/settings"
	transactionRepo "nikahlink/database/repository/transaction"
	userRepo "nikahlink/database/repository/user"
)

// ErrUserNotFound is returned when the targeted user does not exist.
var ErrUserNotFound = errors.New("user not found")

// recentN bounds the dashboard's recent-activity lists.
const recentN = 5

// Overview aggregates the numbers shown on the admin dashboard.
type Overview struct {
	TotalUsers         int64                `json:"totalUsers"`
	PremiumUsers       int64                `json:"premiumUsers"`
	TotalInvitations   int64                `json:"totalInvitations"`
	Revenue            int64                `json:"revenue"`
	RecentUsers        []models.User        `json:"recentUsers"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

// UserRow is a user with its live invitation count.
type UserRow struct {
	models.User
	InvitationCount int64 `json:"invitationCount"`
}

// InvitationRow is an invitation annotated for the admin listing.
type InvitationRow struct {
	models.Invitation
	OwnerName  string `json:"ownerName,omitempty"`
	GuestCount int64  `json:"guestCount"`
}

// TransactionRow is a transaction annotated with the payer's name.
type TransactionRow struct {
	models.Transaction
	UserName string `json:"userName,omitempty"`
}

// UserPatch carries the admin-editable user fields. These are the legacy
// per-account quota knobs; invitation quotas live on the invitations.
type UserPatch struct {
	FullName      *string `json:"fullName,omitempty"`
	Plan          *string `json:"plan,omitempty"`
	MaxLinks      *int    `json:"maxLinks,omitempty"`
	LinkGenerated *int    `json:"linkGenerated,omitempty"`
}

// AdminService backs the admin panel: reporting, user and invitation
// management, transaction listing and package settings.
type AdminService interface {
	Overview() (*Overview, error)
	ListUsers() ([]UserRow, error)
	UpdateUser(adminID, userID string, patch UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListInvitations(limit int) ([]InvitationRow, error)
	ListTransactions(limit int) ([]TransactionRow, error)
	GetPackageSettings() (models.PackageSettings, error)
	UpdatePackageSettings(adminID string, in models.PackageSettings) (models.PackageSettings, error)
}

// DefaultAdminService implements AdminService.
type DefaultAdminService struct {
	Users        userRepo.UserRepository
	Invitations  invitationRepo.InvitationRepository
	Transactions transactionRepo.TransactionRepository
	Settings     settingsRepo.SettingsRepository
	Catalog      plan.Catalog
}

// Overview aggregates the dashboard counters.
func (s *DefaultAdminService) Overview() (*Overview, error) {
	totalUsers, err := s.Users.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	premium, err := s.Users.CountPremium()
	if err != nil {
		return nil, fmt.Errorf("failed to count premium users: %w", err)
	}
	totalInvitations, err := s.Invitations.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations: %w", err)
	}
	revenue, err := s.Transactions.SumPaidAmounts()
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	recentUsers, err := s.Users.Recent(recentN)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	recentTrxs, err := s.Transactions.GetAll(recentN)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}

	return &Overview{
		TotalUsers:         totalUsers,
		PremiumUsers:       premium,
		TotalInvitations:   totalInvitations,
		Revenue:            revenue,
		RecentUsers:        recentUsers,
		RecentTransactions: recentTrxs,
	}, nil
}

// ListUsers returns every user with its live invitation count.
func (s *DefaultAdminService) ListUsers() ([]UserRow, error) {
	users, err := s.Users.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		count, err := s.Invitations.CountByOwner(u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count invitations of %s: %w", u.ID, err)
		}
		rows = append(rows, UserRow{User: u, InvitationCount: count})
	}
	return rows, nil
}

// UpdateUser applies an admin edit to a user document. Switching the plan to
// unlimited forces the legacy per-account link cap open.
func (s *DefaultAdminService) UpdateUser(adminID, userID string, patch UserPatch) (*models.User, error) {
	existing, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	updateDoc := bson.M{
		"updatedAt": time.Now(),
		"updatedBy": adminID,
	}
	if patch.FullName != nil {
		updateDoc["fullName"] = *patch.FullName
	}
	if patch.Plan != nil {
		updateDoc["plan"] = *patch.Plan
		if *patch.Plan == models.PlanUnlimited {
			updateDoc["maxLinks"] = 999999
		}
	}
	if patch.MaxLinks != nil && updateDoc["maxLinks"] == nil {
		updateDoc["maxLinks"] = *patch.MaxLinks
	}
	if patch.LinkGenerated != nil {
		updateDoc["linkGenerated"] = *patch.LinkGenerated
	}

	if err := s.Users.UpdateSetDocument(userID, updateDoc); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	updated, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user %s: %w", userID, err)
	}
	return updated, nil
}

// DeleteUser removes the user with every invitation they own, including all
// guests and wishes, in one store transaction.
func (s *DefaultAdminService) DeleteUser(ctx context.Context, userID string) error {
	existing, err := s.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if existing == nil {
		return ErrUserNotFound
	}
	if err := s.Invitations.DeleteOwnerCascade(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

// ListInvitations returns invitations annotated with owner name and guest
// count. limit <= 0 lists everything.
func (s *DefaultAdminService) ListInvitations(limit int) ([]InvitationRow, error) {
	invs, err := s.Invitations.GetAll(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	rows := make([]InvitationRow, 0, len(invs))
	for _, inv := range invs {
		row := InvitationRow{Invitation: inv}
		if owner, err := s.Users.GetByID(inv.UserID); err == nil && owner != nil {
			row.OwnerName = owner.FullName
		}
		count, err := s.Invitations.CountGuests(inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count guests of %s: %w", inv.ID, err)
		}
		row.GuestCount = count
		rows = append(rows, row)
	}
	return rows, nil
}

// ListTransactions returns transactions annotated with the payer's name.
func (s *DefaultAdminService) ListTransactions(limit int) ([]TransactionRow, error) {
	trxs, err := s.Transactions.GetAll(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	rows := make([]TransactionRow, 0, len(trxs))
	for _, trx := range trxs {
		row := TransactionRow{Transaction: trx}
		if payer, err := s.Users.GetByID(trx.UserID); err == nil && payer != nil {
			row.UserName = payer.FullName
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetPackageSettings returns the effective plan table.
func (s *DefaultAdminService) GetPackageSettings() (models.PackageSettings, error) {
	return s.Catalog.All(), nil
}

// UpdatePackageSettings stores the admin's plan table edits and returns the
// resulting effective table.
func (s *DefaultAdminService) UpdatePackageSettings(adminID string, in models.PackageSettings) (models.PackageSettings, error) {
	in.UpdatedAt = time.Now()
	in.UpdatedBy = adminID
	if err := s.Settings.SavePackages(&in); err != nil {
		return models.PackageSettings{}, fmt.Errorf("failed to save package settings: %w", err)
	}
	return s.Catalog.All(), nil
}
