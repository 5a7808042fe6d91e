package invitation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"nikahlink/models"
)

// RSVPInput carries the public RSVP form fields.
type RSVPInput struct {
	Name       string `json:"name"`
	Attendance string `json:"attendance"`
	GuestCount int    `json:"guestCount"`
	Message    string `json:"message"`
}

// SubmitRSVP records a guest's answer on the public invitation page. The
// guest name is the identity key: an exact match updates the existing record,
// anything else creates a new one. A non-empty message also lands on the
// wishes wall.
func (s *DefaultInvitationService) SubmitRSVP(ctx context.Context, invitationID string, in RSVPInput) (*models.Guest, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if in.Attendance != models.AttendanceHadir && in.Attendance != models.AttendanceTidak {
		return nil, fmt.Errorf("%w: attendance must be %s or %s",
			ErrMissingRequiredField, models.AttendanceHadir, models.AttendanceTidak)
	}

	inv, err := s.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return nil, ErrNotFound
	}

	status := models.RSVPDeclined
	if in.Attendance == models.AttendanceHadir {
		status = models.RSVPConfirmed
	}
	guestCount := in.GuestCount
	if guestCount < 1 {
		guestCount = 1
	}
	now := time.Now()

	existing, err := s.Invitations.GetGuestByName(invitationID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guest %q: %w", name, err)
	}

	var guest *models.Guest
	if existing != nil {
		update := bson.M{
			"rsvpStatus": status,
			"attendance": in.Attendance,
			"guestCount": guestCount,
			"rsvpAt":     now,
		}
		if in.Message != "" {
			update["message"] = in.Message
		}
		if err := s.Invitations.UpdateGuest(invitationID, existing.ID, update); err != nil {
			return nil, fmt.Errorf("failed to record RSVP for %q: %w", name, err)
		}
		existing.RSVPStatus = status
		existing.Attendance = in.Attendance
		existing.GuestCount = guestCount
		existing.RSVPAt = &now
		if in.Message != "" {
			existing.Message = in.Message
		}
		guest = existing
	} else {
		guest = &models.Guest{
			ID:           uuid.New().String(),
			InvitationID: invitationID,
			Name:         name,
			RSVPStatus:   status,
			Attendance:   in.Attendance,
			GuestCount:   guestCount,
			Message:      in.Message,
			CreatedAt:    now,
			RSVPAt:       &now,
		}
		if err := s.Invitations.AddGuest(guest); err != nil {
			return nil, fmt.Errorf("failed to record RSVP for %q: %w", name, err)
		}
	}

	if in.Message != "" {
		wish := &models.Wish{
			ID:           uuid.New().String(),
			InvitationID: invitationID,
			Name:         name,
			Message:      in.Message,
			CreatedAt:    now,
		}
		if err := s.Invitations.AddWish(wish); err != nil {
			return nil, fmt.Errorf("failed to store wish for %q: %w", name, err)
		}
	}
	return guest, nil
}

// ListWishes returns the most recent wishes for the public invitation page.
func (s *DefaultInvitationService) ListWishes(invitationID string) ([]models.Wish, error) {
	wishes, err := s.Invitations.GetRecentWishes(invitationID, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishes of %s: %w", invitationID, err)
	}
	return wishes, nil
}
