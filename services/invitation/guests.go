package invitation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"nikahlink/models"
)

// GuestInput carries the owner-entered fields for a new guest entry.
type GuestInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AddGuest registers a guest for the invitation and returns the personalized
// share link. One share link slot is reserved atomically before the guest is
// stored, so the plan cap holds under concurrent additions.
func (s *DefaultInvitationService) AddGuest(ctx context.Context, userID, invitationID string, in GuestInput) (*models.Guest, string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", fmt.Errorf("%w: guest name", ErrMissingRequiredField)
	}
	if _, err := s.requireOwned(userID, invitationID); err != nil {
		return nil, "", err
	}

	if _, err := s.Quota.Reserve(ctx, invitationID); err != nil {
		return nil, "", err
	}

	guest := &models.Guest{
		ID:           uuid.New().String(),
		InvitationID: invitationID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		RSVPStatus:   models.RSVPPending,
		CreatedAt:    time.Now(),
	}
	if err := s.Invitations.AddGuest(guest); err != nil {
		return nil, "", fmt.Errorf("failed to store guest: %w", err)
	}

	return guest, s.BuildShareLink(invitationID, guest.Name), nil
}

// ListGuests returns the invitation's guests, newest first.
func (s *DefaultInvitationService) ListGuests(userID, invitationID string) ([]models.Guest, error) {
	if _, err := s.requireOwned(userID, invitationID); err != nil {
		return nil, err
	}
	guests, err := s.Invitations.GetGuests(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests of %s: %w", invitationID, err)
	}
	return guests, nil
}

// DeleteGuest removes one guest entry. The consumed share link slot is not
// returned; generated links stay counted.
func (s *DefaultInvitationService) DeleteGuest(ctx context.Context, userID, invitationID, guestID string) error {
	if _, err := s.requireOwned(userID, invitationID); err != nil {
		return err
	}
	if err := s.Invitations.DeleteGuest(invitationID, guestID); err != nil {
		return fmt.Errorf("failed to delete guest %s: %w", guestID, err)
	}
	return nil
}

// BuildShareLink renders the public link for an invitation, optionally
// personalized: spaces in the guest name become '+' before escaping, the
// historical format the invitation pages parse.
func (s *DefaultInvitationService) BuildShareLink(invitationID, guestName string) string {
	link := s.BaseURL + "?id=" + url.QueryEscape(invitationID)
	name := strings.TrimSpace(guestName)
	if name != "" {
		link += "&to=" + url.QueryEscape(strings.ReplaceAll(name, " ", "+"))
	}
	return link
}

// DecodeGuestName reverses the share-link name encoding for a query value
// that the HTTP layer already unescaped.
func DecodeGuestName(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "+", " "))
}
