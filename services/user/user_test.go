package user

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"nikahlink/models"
	"nikahlink/services/plan"

	invitationRepo "nikahlink/database/repository/invitation"
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

func (f *fakeUsers) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
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
		case "phone":
			u.Phone = v.(string)
		case "updatedAt":
			u.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

type fakeInvitations struct {
	invitationRepo.InvitationRepository

	invitations int64
	guests      int64
}

func (f *fakeInvitations) CountByOwner(userID string) (int64, error) { return f.invitations, nil }

func (f *fakeInvitations) CountGuestsForOwner(userID string) (int64, error) { return f.guests, nil }

func fixture() (*DefaultUserService, *fakeUsers) {
	users := &fakeUsers{users: map[string]*models.User{}}
	svc := &DefaultUserService{
		Users:       users,
		Invitations: &fakeInvitations{invitations: 2, guests: 35},
		Catalog:     plan.NewCatalog(nil),
	}
	return svc, users
}

func TestEnsureUserProvisionsFreeTier(t *testing.T) {
	svc, users := fixture()

	created, err := svc.EnsureUser(models.AuthUser{
		UID: "uid-1", Email: "Fajar@Example.com", DisplayName: "Fajar",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, created.Plan)
	assert.Equal(t, 10, created.MaxLinks)
	assert.Equal(t, "fajar@example.com", created.Email)

	stored, _ := users.GetByID("uid-1")
	require.NotNil(t, stored)

	// a second call returns the existing account untouched
	again, err := svc.EnsureUser(models.AuthUser{UID: "uid-1", Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "fajar@example.com", again.Email)
}

func TestUpdateProfile(t *testing.T) {
	svc, users := fixture()

	_, err := svc.EnsureUser(models.AuthUser{UID: "uid-1", DisplayName: "Fajar"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile("uid-1", ProfileInput{FullName: "Fajar Pratama", Phone: "0812345678"})
	require.NoError(t, err)
	assert.Equal(t, "Fajar Pratama", updated.FullName)
	assert.Equal(t, "0812345678", updated.Phone)

	stored, _ := users.GetByID("uid-1")
	assert.Equal(t, "Fajar Pratama", stored.FullName)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _ := fixture()

	_, err := svc.UpdateProfile("missing", ProfileInput{FullName: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	svc, _ := fixture()

	stats, err := svc.Stats("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Invitations)
	assert.Equal(t, 35, stats.Guests)
}
