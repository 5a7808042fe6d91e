package invitation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"nikahlink/models"
	"nikahlink/services/plan"
	"nikahlink/services/quota"
	"nikahlink/utils"

	invitationRepo "nikahlink/database/repository/invitation"
	userRepo "nikahlink/database/repository/user"
)

// DefaultTemplate is applied when the creator picks none.
const DefaultTemplate = "islamic-elegant"

// InvitationService manages the invitation lifecycle: creation under the
// owner's plan cap, content edits, cascaded deletion, guests, share links,
// RSVPs and wishes.
type InvitationService interface {
	Create(ctx context.Context, userID string, in models.InvitationInput) (*models.Invitation, error)
	GetPublic(ctx context.Context, invitationID, guestName string) (*models.Invitation, error)
	ListByOwner(userID string) ([]models.Invitation, error)
	Update(ctx context.Context, userID, invitationID string, patch models.InvitationPatch) (*models.Invitation, error)
	Delete(ctx context.Context, requesterID, invitationID string, asAdmin bool) error

	AddGuest(ctx context.Context, userID, invitationID string, in GuestInput) (*models.Guest, string, error)
	ListGuests(userID, invitationID string) ([]models.Guest, error)
	DeleteGuest(ctx context.Context, userID, invitationID, guestID string) error
	ExportGuestsCSV(userID, invitationID string) ([]byte, error)

	SubmitRSVP(ctx context.Context, invitationID string, in RSVPInput) (*models.Guest, error)
	ListWishes(invitationID string) ([]models.Wish, error)
}

// DefaultInvitationService implements InvitationService.
type DefaultInvitationService struct {
	Invitations invitationRepo.InvitationRepository
	Users       userRepo.UserRepository
	Catalog     plan.Catalog
	Quota       quota.Guard
	BaseURL     string
}

// newInvitationID mirrors the historical id shape so existing share links
// keep resolving. The random tail keeps same-millisecond creations distinct.
func newInvitationID() string {
	return "inv_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + uuid.NewString()[:4]
}

// Create stores a new invitation for userID. The owner's plan caps how many
// invitations they may hold; new invitations always start on the free tier
// and are promoted through the upgrade workflow.
func (s *DefaultInvitationService) Create(ctx context.Context, userID string, in models.InvitationInput) (*models.Invitation, error) {
	if in.Groom.Name == "" {
		return nil, fmt.Errorf("%w: groom name", ErrMissingRequiredField)
	}
	if in.Bride.Name == "" {
		return nil, fmt.Errorf("%w: bride name", ErrMissingRequiredField)
	}

	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("unknown user %s", userID)
	}

	count, err := s.Invitations.CountByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations of %s: %w", userID, err)
	}
	limit := s.Catalog.LimitsFor(user.Plan).MaxInvitations
	if count >= int64(limit) {
		return nil, fmt.Errorf("%w: plan %s allows %d", ErrPlanLimitExceeded, user.Plan, limit)
	}

	free := s.Catalog.LimitsFor(models.PlanFree)
	now := time.Now()
	template := in.Template
	if template == "" {
		template = DefaultTemplate
	}
	inv := &models.Invitation{
		ID:             newInvitationID(),
		UserID:         userID,
		Groom:          in.Groom,
		Bride:          in.Bride,
		Akad:           in.Akad,
		Resepsi:        in.Resepsi,
		MapsLink:       in.MapsLink,
		SpecialMessage: in.SpecialMessage,
		Template:       template,
		Plan:           models.PlanFree,
		MaxLinks:       free.MaxLinks,
		LinksGenerated: 0,
		ExpiryDate:     now.AddDate(0, 0, free.Duration),
		Status:         models.InvitationActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Invitations.Create(inv); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	// The per-user counter is informational; creation already happened.
	if err := s.Users.IncrementInvitationsCreated(userID, 1); err != nil {
		utils.GetLogger().Warn("failed to bump invitation counter",
			zap.String("userID", userID), zap.Error(err))
	}
	return inv, nil
}

// GetPublic returns the invitation for shared-link rendering. When the link
// carries a guest name, the matching guest record is marked as opened.
func (s *DefaultInvitationService) GetPublic(ctx context.Context, invitationID, guestName string) (*models.Invitation, error) {
	inv, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return nil, ErrNotFound
	}

	if inv.Status == models.InvitationActive && inv.ExpiryDate.Before(time.Now()) {
		// The sweep job persists the flip; reads must not lag behind it.
		inv.Status = models.InvitationExpired
	}

	if guestName != "" {
		s.markOpened(invitationID, guestName)
	}
	return inv, nil
}

// markOpened stamps the guest's first open. Best effort: a failed stamp must
// not break the public page.
func (s *DefaultInvitationService) markOpened(invitationID, guestName string) {
	guest, err := s.Invitations.GetGuestByName(invitationID, guestName)
	if err != nil || guest == nil || guest.OpenedAt != nil {
		return
	}
	now := time.Now()
	if err := s.Invitations.UpdateGuest(invitationID, guest.ID, bson.M{"openedAt": now}); err != nil {
		utils.GetLogger().Warn("failed to mark guest link opened",
			zap.String("invitationID", invitationID), zap.String("guestID", guest.ID), zap.Error(err))
	}
}

// ListByOwner returns the user's invitations, newest first.
func (s *DefaultInvitationService) ListByOwner(userID string) ([]models.Invitation, error) {
	invs, err := s.Invitations.GetByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations of %s: %w", userID, err)
	}
	return invs, nil
}

// Update applies a partial content edit. Ownership, plan, quota counters and
// expiry never move through this path.
func (s *DefaultInvitationService) Update(ctx context.Context, userID, invitationID string, patch models.InvitationPatch) (*models.Invitation, error) {
	inv, err := s.requireOwned(userID, invitationID)
	if err != nil {
		return nil, err
	}

	updateDoc := bson.M{}
	if patch.Groom != nil {
		updateDoc["groom"] = *patch.Groom
	}
	if patch.Bride != nil {
		updateDoc["bride"] = *patch.Bride
	}
	if patch.Akad != nil {
		updateDoc["akad"] = *patch.Akad
	}
	if patch.Resepsi != nil {
		updateDoc["resepsi"] = *patch.Resepsi
	}
	if patch.MapsLink != nil {
		updateDoc["mapsLink"] = *patch.MapsLink
	}
	if patch.SpecialMessage != nil {
		updateDoc["specialMessage"] = *patch.SpecialMessage
	}
	if patch.Template != nil {
		updateDoc["template"] = *patch.Template
	}
	if len(updateDoc) == 0 {
		return inv, nil
	}
	updateDoc["updatedAt"] = time.Now()

	if err := s.Invitations.UpdateSetDocument(invitationID, updateDoc); err != nil {
		return nil, fmt.Errorf("failed to update invitation %s: %w", invitationID, err)
	}

	updated, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invitation %s: %w", invitationID, err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the invitation with all guests and wishes in one
// transaction. Admins may delete any invitation; owners only their own.
func (s *DefaultInvitationService) Delete(ctx context.Context, requesterID, invitationID string, asAdmin bool) error {
	inv, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return fmt.Errorf("failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return ErrNotFound
	}
	if !asAdmin && inv.UserID != requesterID {
		return ErrNotOwner
	}

	if err := s.Invitations.DeleteCascade(ctx, invitationID); err != nil {
		return fmt.Errorf("failed to delete invitation %s: %w", invitationID, err)
	}

	if err := s.Users.IncrementInvitationsCreated(inv.UserID, -1); err != nil {
		utils.GetLogger().Warn("failed to lower invitation counter",
			zap.String("userID", inv.UserID), zap.Error(err))
	}
	return nil
}

// requireOwned loads the invitation and enforces ownership.
func (s *DefaultInvitationService) requireOwned(userID, invitationID string) (*models.Invitation, error) {
	inv, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.UserID != userID {
		return nil, ErrNotOwner
	}
	return inv, nil
}
