package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"nikahlink/models"
	"nikahlink/services/plan"

	invitationRepo "nikahlink/database/repository/invitation"
	transactionRepo "nikahlink/database/repository/transaction"
	userRepo "nikahlink/database/repository/user"
)

type fakeUsers struct {
	userRepo.UserRepository

	mu    sync.Mutex
	users map[string]*models.User
}

func (f *fakeUsers) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetAll() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) Recent(n int) ([]models.User, error) {
	all, _ := f.GetAll()
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (f *fakeUsers) CountAll() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUsers) CountPremium() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Plan != "" && u.Plan != models.PlanFree {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) UpdateSetDocument(id string, updateDoc bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	for k, v := range updateDoc {
		switch k {
		case "fullName":
			u.FullName = v.(string)
		case "plan":
			u.Plan = v.(string)
		case "maxLinks":
			u.MaxLinks = v.(int)
		case "linkGenerated":
			u.LinkGenerated = v.(int)
		case "updatedBy":
			u.UpdatedBy = v.(string)
		case "updatedAt":
			u.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

type fakeInvitations struct {
	invitationRepo.InvitationRepository

	mu     sync.Mutex
	invs   map[string]*models.Invitation
	guests map[string]int64 // invitationID -> guest count
	users  *fakeUsers
}

func (f *fakeInvitations) GetAll(limit int) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invitation
	for _, inv := range f.invs {
		out = append(out, *inv)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeInvitations) CountAll() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.invs)), nil
}

func (f *fakeInvitations) CountByOwner(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, inv := range f.invs {
		if inv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeInvitations) CountGuests(invitationID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guests[invitationID], nil
}

func (f *fakeInvitations) DeleteOwnerCascade(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, inv := range f.invs {
		if inv.UserID == userID {
			delete(f.invs, id)
			delete(f.guests, id)
		}
	}
	f.users.mu.Lock()
	delete(f.users.users, userID)
	f.users.mu.Unlock()
	return nil
}

func (f *fakeInvitations) GetByID(id string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

type fakeTransactions struct {
	transactionRepo.TransactionRepository

	trxs []models.Transaction
}

func (f *fakeTransactions) GetAll(limit int) ([]models.Transaction, error) {
	out := f.trxs
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTransactions) SumPaidAmounts() (int64, error) {
	var sum int64
	for _, trx := range f.trxs {
		if trx.Status == models.TransactionPaid {
			sum += trx.Amount
		}
	}
	return sum, nil
}

type fakeSettings struct {
	stored *models.PackageSettings
}

func (f *fakeSettings) GetPackages() (*models.PackageSettings, error) { return f.stored, nil }

func (f *fakeSettings) SavePackages(s *models.PackageSettings) error {
	cp := *s
	f.stored = &cp
	return nil
}

func fixture() (*DefaultAdminService, *fakeUsers, *fakeInvitations, *fakeSettings) {
	users := &fakeUsers{users: map[string]*models.User{
		"u1": {ID: "u1", FullName: "Fajar", Plan: models.PlanFree, MaxLinks: 10},
		"u2": {ID: "u2", FullName: "Rina", Plan: models.PlanPremium, MaxLinks: 500},
	}}
	invs := &fakeInvitations{
		invs: map[string]*models.Invitation{
			"inv_1": {ID: "inv_1", UserID: "u1", Plan: models.PlanFree},
			"inv_2": {ID: "inv_2", UserID: "u2", Plan: models.PlanPremium},
		},
		guests: map[string]int64{"inv_1": 3, "inv_2": 12},
		users:  users,
	}
	trxs := &fakeTransactions{trxs: []models.Transaction{
		{ID: "TRX1", UserID: "u2", Amount: 199000, Status: models.TransactionPaid},
		{ID: "TRX2", UserID: "u1", Amount: 99000, Status: models.TransactionPending},
		{ID: "TRX3", UserID: "u2", Amount: 499000, Status: models.TransactionRejected},
	}}
	settings := &fakeSettings{}
	svc := &DefaultAdminService{
		Users:        users,
		Invitations:  invs,
		Transactions: trxs,
		Settings:     settings,
		Catalog:      plan.NewCatalog(settings),
	}
	return svc, users, invs, settings
}

func TestOverviewCountsAndRevenue(t *testing.T) {
	svc, _, _, _ := fixture()

	ov, err := svc.Overview()
	require.NoError(t, err)
	assert.EqualValues(t, 2, ov.TotalUsers)
	assert.EqualValues(t, 1, ov.PremiumUsers)
	assert.EqualValues(t, 2, ov.TotalInvitations)
	// only paid transactions count toward revenue
	assert.EqualValues(t, 199000, ov.Revenue)
	assert.Len(t, ov.RecentUsers, 2)
	assert.Len(t, ov.RecentTransactions, 3)
}

func TestListUsersCarriesInvitationCounts(t *testing.T) {
	svc, _, _, _ := fixture()

	rows, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.ID] = r.InvitationCount
	}
	assert.EqualValues(t, 1, counts["u1"])
	assert.EqualValues(t, 1, counts["u2"])
}

func TestUpdateUserUnlimitedForcesMaxLinks(t *testing.T) {
	svc, users, _, _ := fixture()

	unlimited := models.PlanUnlimited
	updated, err := svc.UpdateUser("admin-1", "u1", UserPatch{Plan: &unlimited})
	require.NoError(t, err)
	assert.Equal(t, models.PlanUnlimited, updated.Plan)
	assert.Equal(t, 999999, updated.MaxLinks)
	assert.Equal(t, "admin-1", updated.UpdatedBy)

	stored, _ := users.GetByID("u1")
	assert.Equal(t, 999999, stored.MaxLinks)
}

func TestUpdateUserExplicitMaxLinks(t *testing.T) {
	svc, _, _, _ := fixture()

	basic := models.PlanBasic
	links := 42
	updated, err := svc.UpdateUser("admin-1", "u1", UserPatch{Plan: &basic, MaxLinks: &links})
	require.NoError(t, err)
	assert.Equal(t, models.PlanBasic, updated.Plan)
	assert.Equal(t, 42, updated.MaxLinks)
}

func TestUpdateUserUnknown(t *testing.T) {
	svc, _, _, _ := fixture()

	name := "Nobody"
	_, err := svc.UpdateUser("admin-1", "missing", UserPatch{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	svc, users, invs, _ := fixture()

	require.NoError(t, svc.DeleteUser(context.Background(), "u1"))

	gone, _ := users.GetByID("u1")
	assert.Nil(t, gone)
	inv, _ := invs.GetByID("inv_1")
	assert.Nil(t, inv)
	// other accounts untouched
	kept, _ := invs.GetByID("inv_2")
	assert.NotNil(t, kept)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "u1"), ErrUserNotFound)
}

func TestListInvitationsAnnotates(t *testing.T) {
	svc, _, _, _ := fixture()

	rows, err := svc.ListInvitations(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	byID := map[string]InvitationRow{}
	for _, r := range rows {
		byID[r.Invitation.ID] = r
	}
	assert.Equal(t, "Fajar", byID["inv_1"].OwnerName)
	assert.EqualValues(t, 3, byID["inv_1"].GuestCount)
	assert.Equal(t, "Rina", byID["inv_2"].OwnerName)
	assert.EqualValues(t, 12, byID["inv_2"].GuestCount)
}

func TestListTransactionsAnnotates(t *testing.T) {
	svc, _, _, _ := fixture()

	rows, err := svc.ListTransactions(0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rina", rows[0].UserName)
}

func TestPackageSettingsRoundTrip(t *testing.T) {
	svc, _, _, settings := fixture()

	before, err := svc.GetPackageSettings()
	require.NoError(t, err)
	assert.Equal(t, int64(99000), before.Basic.Price)

	after, err := svc.UpdatePackageSettings("admin-1", models.PackageSettings{
		Basic: models.PackageValues{Price: 149000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(149000), after.Basic.Price)
	// untouched fields keep catalog defaults
	assert.Equal(t, 100, after.Basic.MaxLinks)
	assert.Equal(t, "admin-1", after.UpdatedBy)
	require.NotNil(t, settings.stored)
	assert.Equal(t, "admin-1", settings.stored.UpdatedBy)
}
