package invitation

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
	"nikahlink/services/quota"

	userRepo "nikahlink/database/repository/user"
)

// fakeInvRepo is an in-memory stand-in for the Mongo invitation repository
// with the same conditional-update and cascade semantics.
type fakeInvRepo struct {
	mu     sync.Mutex
	invs   map[string]*models.Invitation
	guests []*models.Guest
	wishes []*models.Wish
}

func newFakeInvRepo() *fakeInvRepo {
	return &fakeInvRepo{invs: map[string]*models.Invitation{}}
}

func (f *fakeInvRepo) GetByID(id string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvRepo) GetByOwner(userID string) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invitation
	for _, inv := range f.invs {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvRepo) GetAll(limit int) ([]models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invitation
	for _, inv := range f.invs {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvRepo) CountByOwner(userID string) (int64, error) {
	invs, _ := f.GetByOwner(userID)
	return int64(len(invs)), nil
}

func (f *fakeInvRepo) CountAll() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.invs)), nil
}

func (f *fakeInvRepo) Create(inv *models.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	f.invs[inv.ID] = &cp
	return nil
}

func (f *fakeInvRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return nil
	}
	for k, v := range updateDoc {
		switch k {
		case "groom":
			inv.Groom = v.(models.CoupleMember)
		case "bride":
			inv.Bride = v.(models.CoupleMember)
		case "akad":
			inv.Akad = v.(models.EventDetail)
		case "resepsi":
			inv.Resepsi = v.(models.EventDetail)
		case "mapsLink":
			inv.MapsLink = v.(string)
		case "specialMessage":
			inv.SpecialMessage = v.(string)
		case "template":
			inv.Template = v.(string)
		case "plan":
			inv.Plan = v.(string)
		case "maxLinks":
			inv.MaxLinks = v.(int)
		case "expiryDate":
			inv.ExpiryDate = v.(time.Time)
		case "status":
			inv.Status = v.(string)
		case "updatedAt":
			inv.UpdatedAt = v.(time.Time)
		}
	}
	return nil
}

func (f *fakeInvRepo) ReserveLink(ctx context.Context, id string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return nil, nil
	}
	if inv.Plan != models.PlanUnlimited && inv.LinksGenerated >= inv.MaxLinks {
		return nil, nil
	}
	inv.LinksGenerated++
	cp := *inv
	return &cp, nil
}

func (f *fakeInvRepo) DeleteCascade(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.invs, id)
	f.guests = filterGuests(f.guests, id)
	f.wishes = filterWishes(f.wishes, id)
	return nil
}

func (f *fakeInvRepo) DeleteOwnerCascade(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, inv := range f.invs {
		if inv.UserID == userID {
			delete(f.invs, id)
			f.guests = filterGuests(f.guests, id)
			f.wishes = filterWishes(f.wishes, id)
		}
	}
	return nil
}

func filterGuests(in []*models.Guest, invitationID string) []*models.Guest {
	var out []*models.Guest
	for _, g := range in {
		if g.InvitationID != invitationID {
			out = append(out, g)
		}
	}
	return out
}

func filterWishes(in []*models.Wish, invitationID string) []*models.Wish {
	var out []*models.Wish
	for _, w := range in {
		if w.InvitationID != invitationID {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeInvRepo) ExpireOverdue(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now()
	for _, inv := range f.invs {
		if inv.Status == models.InvitationActive && inv.ExpiryDate.Before(now) {
			inv.Status = models.InvitationExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeInvRepo) AddGuest(g *models.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	f.guests = append(f.guests, &cp)
	return nil
}

func (f *fakeInvRepo) GetGuests(invitationID string) ([]models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Guest
	for _, g := range f.guests {
		if g.InvitationID == invitationID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeInvRepo) GetGuestByName(invitationID, name string) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.InvitationID == invitationID && g.Name == name {
			cp := *g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvRepo) UpdateGuest(invitationID, guestID string, updateDoc bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.InvitationID != invitationID || g.ID != guestID {
			continue
		}
		for k, v := range updateDoc {
			switch k {
			case "rsvpStatus":
				g.RSVPStatus = v.(string)
			case "attendance":
				g.Attendance = v.(string)
			case "guestCount":
				g.GuestCount = v.(int)
			case "message":
				g.Message = v.(string)
			case "rsvpAt":
				t := v.(time.Time)
				g.RSVPAt = &t
			case "openedAt":
				t := v.(time.Time)
				g.OpenedAt = &t
			}
		}
		return nil
	}
	return nil
}

func (f *fakeInvRepo) DeleteGuest(invitationID, guestID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Guest
	for _, g := range f.guests {
		if g.InvitationID == invitationID && g.ID == guestID {
			continue
		}
		out = append(out, g)
	}
	f.guests = out
	return nil
}

func (f *fakeInvRepo) CountGuests(invitationID string) (int64, error) {
	guests, _ := f.GetGuests(invitationID)
	return int64(len(guests)), nil
}

func (f *fakeInvRepo) CountGuestsForOwner(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, g := range f.guests {
		if inv, ok := f.invs[g.InvitationID]; ok && inv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeInvRepo) AddWish(w *models.Wish) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	f.wishes = append(f.wishes, &cp)
	return nil
}

func (f *fakeInvRepo) GetRecentWishes(invitationID string, limit int) ([]models.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Wish
	for i := len(f.wishes) - 1; i >= 0 && len(out) < limit; i-- {
		if f.wishes[i].InvitationID == invitationID {
			out = append(out, *f.wishes[i])
		}
	}
	return out, nil
}

// fakeUsers covers the user repository methods the service touches.
type fakeUsers struct {
	userRepo.UserRepository

	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}}
	for _, u := range users {
		cp := *u
		f.users[u.ID] = &cp
	}
	return f
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

func (f *fakeUsers) IncrementInvitationsCreated(id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.InvitationsCreated += delta
	}
	return nil
}

func newTestService(repo *fakeInvRepo, users *fakeUsers) *DefaultInvitationService {
	return &DefaultInvitationService{
		Invitations: repo,
		Users:       users,
		Catalog:     plan.NewCatalog(nil),
		Quota:       quota.NewGuard(repo),
		BaseURL:     "https://nikahku.com/invitation",
	}
}

func validInput() models.InvitationInput {
	return models.InvitationInput{
		Groom: models.CoupleMember{Name: "Fajar"},
		Bride: models.CoupleMember{Name: "Rina"},
		Akad:  models.EventDetail{Date: "2026-10-10", Time: "09:00"},
	}
}

func TestCreateInitializesFreeTier(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, inv.Plan)
	assert.Equal(t, 10, inv.MaxLinks)
	assert.Equal(t, 0, inv.LinksGenerated)
	assert.Equal(t, models.InvitationActive, inv.Status)
	assert.Equal(t, DefaultTemplate, inv.Template)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), inv.ExpiryDate, time.Minute)

	owner, _ := users.GetByID("u1")
	assert.Equal(t, 1, owner.InvitationsCreated)
}

func TestCreateEnforcesPlanCap(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	_, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "u1", validInput())
	assert.ErrorIs(t, err, ErrPlanLimitExceeded)
}

func TestCreatePremiumAllowsThree(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanPremium})
	svc := newTestService(repo, users)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), "u1", validInput())
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), "u1", validInput())
	assert.ErrorIs(t, err, ErrPlanLimitExceeded)
}

func TestCreateRequiresCoupleNames(t *testing.T) {
	svc := newTestService(newFakeInvRepo(), newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree}))

	in := validInput()
	in.Bride.Name = ""
	_, err := svc.Create(context.Background(), "u1", in)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)

	maps := "https://maps.example/xyz"
	_, err = svc.Update(context.Background(), "intruder", inv.ID, models.InvitationPatch{MapsLink: &maps})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(context.Background(), "u1", inv.ID, models.InvitationPatch{MapsLink: &maps})
	require.NoError(t, err)
	assert.Equal(t, maps, updated.MapsLink)
	// plan fields survived the edit untouched
	assert.Equal(t, models.PlanFree, updated.Plan)
	assert.Equal(t, 10, updated.MaxLinks)
}

func TestDeleteCascadesAndDecrements(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)
	_, _, err = svc.AddGuest(context.Background(), "u1", inv.ID, GuestInput{Name: "Budi"})
	require.NoError(t, err)
	_, err = svc.SubmitRSVP(context.Background(), inv.ID, RSVPInput{
		Name: "Budi", Attendance: models.AttendanceHadir, Message: "Selamat!",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "other", inv.ID, false)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Delete(context.Background(), "u1", inv.ID, false))

	gone, err := svc.GetPublic(context.Background(), inv.ID, "")
	assert.Nil(t, gone)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, repo.guests)
	assert.Empty(t, repo.wishes)

	owner, _ := users.GetByID("u1")
	assert.Equal(t, 0, owner.InvitationsCreated)
}

func TestDeleteAdminBypassesOwnership(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "admin-uid", inv.ID, true))
}

func TestAddGuestConsumesQuota(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, link, err := svc.AddGuest(context.Background(), "u1", inv.ID, GuestInput{Name: "Tamu"})
		require.NoError(t, err)
		assert.Contains(t, link, "?id="+inv.ID)
	}

	_, _, err = svc.AddGuest(context.Background(), "u1", inv.ID, GuestInput{Name: "Tamu 11"})
	assert.ErrorIs(t, err, quota.ErrQuotaExhausted)

	current, _ := repo.GetByID(inv.ID)
	assert.Equal(t, 10, current.LinksGenerated)
}

func TestShareLinkEncoding(t *testing.T) {
	svc := newTestService(newFakeInvRepo(), newFakeUsers())

	link := svc.BuildShareLink("inv_abc", "Budi Santoso")
	assert.Equal(t, "https://nikahku.com/invitation?id=inv_abc&to=Budi%2BSantoso", link)

	assert.Equal(t, "Budi Santoso", DecodeGuestName("Budi+Santoso"))
	assert.Equal(t, "Budi", DecodeGuestName("Budi"))
}

func TestGetPublicMarksOpenedAndReportsExpired(t *testing.T) {
	repo := newFakeInvRepo()
	users := newFakeUsers(&models.User{ID: "u1", Plan: models.PlanFree})
	svc := newTestService(repo, users)

	inv, err := svc.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)
	guest, _, err := svc.AddGuest(context.Background(), "u1", inv.ID, GuestInput{Name: "Budi Santoso"})
	require.NoError(t, err)

	_, err = svc.GetPublic(context.Background(), inv.ID, "Budi Santoso")
	require.NoError(t, err)
	stored, _ := repo.GetGuestByName(inv.ID, "Budi Santoso")
	require.NotNil(t, stored.OpenedAt)
	firstOpen := *stored.OpenedAt

	// a second open keeps the first timestamp
	_, err = svc.GetPublic(context.Background(), inv.ID, guest.Name)
	require.NoError(t, err)
	stored, _ = repo.GetGuestByName(inv.ID, "Budi Santoso")
	assert.Equal(t, firstOpen, *stored.OpenedAt)

	require.NoError(t, repo.UpdateSetDocument(inv.ID, bson.M{"expiryDate": time.Now().Add(-time.Hour)}))
	got, err := svc.GetPublic(context.Background(), inv.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.InvitationExpired, got.Status)
}
