package invitationRepo

import (
	"fmt"
	"time"

	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddGuest inserts a new guest document.
func (r *MongoInvitationRepo) AddGuest(g *models.Guest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	if _, err := r.guestColl.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("failed to add guest: %w", err)
	}
	return nil
}

// GetGuests retrieves all guests of an invitation, newest first.
func (r *MongoInvitationRepo) GetGuests(invitationID string) ([]models.Guest, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.guestColl.Find(ctx, bson.M{"invitationId": invitationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve guests: %w", err)
	}
	defer cursor.Close(ctx)

	var guests []models.Guest
	for cursor.Next(ctx) {
		var g models.Guest
		if err := cursor.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, nil
}

// GetGuestByName retrieves the first guest matching the exact display name
// within an invitation. The match is case-sensitive; returns (nil, nil) when
// no guest matches.
func (r *MongoInvitationRepo) GetGuestByName(invitationID, name string) (*models.Guest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"invitationId": invitationID, "name": name}
	var g models.Guest
	if err := r.guestColl.FindOne(ctx, filter).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch guest %q: %w", name, err)
	}
	return &g, nil
}

// UpdateGuest applies a partial $set update to a guest document.
func (r *MongoInvitationRepo) UpdateGuest(invitationID, guestID string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"invitationId": invitationID, "id": guestID}
	result, err := r.guestColl.UpdateOne(ctx, filter, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update guest %s: %w", guestID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("guest with id %s not found", guestID)
	}
	return nil
}

// DeleteGuest removes a guest document.
func (r *MongoInvitationRepo) DeleteGuest(invitationID, guestID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"invitationId": invitationID, "id": guestID}
	result, err := r.guestColl.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete guest %s: %w", guestID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("guest with id %s not found", guestID)
	}
	return nil
}

// CountGuests counts the guests of one invitation.
func (r *MongoInvitationRepo) CountGuests(invitationID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.guestColl.CountDocuments(ctx, bson.M{"invitationId": invitationID})
	if err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}
	return n, nil
}

// CountGuestsForOwner counts guests across all invitations a user owns.
func (r *MongoInvitationRepo) CountGuestsForOwner(userID string) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.invColl.Find(ctx, bson.M{"userId": userID},
		options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return 0, fmt.Errorf("failed to list owned invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var inv models.Invitation
		if err := cursor.Decode(&inv); err != nil {
			return 0, fmt.Errorf("failed to decode invitation: %w", err)
		}
		ids = append(ids, inv.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := r.guestColl.CountDocuments(ctx, bson.M{"invitationId": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count guests for owner %s: %w", userID, err)
	}
	return n, nil
}
