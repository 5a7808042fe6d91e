package invitationRepo

import (
	"context"

	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// InvitationRepository defines data access for invitations and their guest
// and wish sub-records. Lookup methods return (nil, nil) when absent.
type InvitationRepository interface {
	// GetByID retrieves an invitation by its unique ID.
	GetByID(id string) (*models.Invitation, error)
	// GetByOwner retrieves all invitations owned by a user, newest first.
	GetByOwner(userID string) ([]models.Invitation, error)
	// GetAll retrieves all invitations, newest first. limit <= 0 means no limit.
	GetAll(limit int) ([]models.Invitation, error)
	// CountByOwner counts a user's invitations.
	CountByOwner(userID string) (int64, error)
	// CountAll counts all invitations.
	CountAll() (int64, error)
	// Create inserts a new invitation record.
	Create(inv *models.Invitation) error
	// UpdateSetDocument applies a partial $set update to an invitation.
	UpdateSetDocument(id string, updateDoc bson.M) error

	// ReserveLink atomically increments linksGenerated iff the plan is
	// unlimited or the counter is still below maxLinks, and returns the
	// updated document. It returns (nil, nil) when no document qualified:
	// the invitation is either absent or out of quota.
	ReserveLink(ctx context.Context, id string) (*models.Invitation, error)
	// DeleteCascade removes the invitation together with all of its guests
	// and wishes in a single transaction.
	DeleteCascade(ctx context.Context, id string) error
	// DeleteOwnerCascade removes every invitation owned by userID, with all
	// sub-records, plus the owner's user document, in a single transaction.
	DeleteOwnerCascade(ctx context.Context, userID string) error
	// ExpireOverdue marks active invitations whose expiry has passed and
	// returns how many were updated.
	ExpireOverdue(ctx context.Context) (int64, error)

	// Guest sub-records.
	AddGuest(g *models.Guest) error
	GetGuests(invitationID string) ([]models.Guest, error)
	GetGuestByName(invitationID, name string) (*models.Guest, error)
	UpdateGuest(invitationID, guestID string, updateDoc bson.M) error
	DeleteGuest(invitationID, guestID string) error
	CountGuests(invitationID string) (int64, error)
	CountGuestsForOwner(userID string) (int64, error)

	// Wish sub-records (append-only).
	AddWish(w *models.Wish) error
	GetRecentWishes(invitationID string, limit int) ([]models.Wish, error)
}
