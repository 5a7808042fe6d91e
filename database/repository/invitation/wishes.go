package invitationRepo

import (
	"fmt"
	"time"

	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddWish appends a wish document.
func (r *MongoInvitationRepo) AddWish(w *models.Wish) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	if _, err := r.wishColl.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to add wish: %w", err)
	}
	return nil
}

// GetRecentWishes retrieves the most recent wishes of an invitation.
func (r *MongoInvitationRepo) GetRecentWishes(invitationID string, limit int) ([]models.Wish, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.wishColl.Find(ctx, bson.M{"invitationId": invitationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishes: %w", err)
	}
	defer cursor.Close(ctx)

	var wishes []models.Wish
	for cursor.Next(ctx) {
		var w models.Wish
		if err := cursor.Decode(&w); err != nil {
			return nil, fmt.Errorf("failed to decode wish: %w", err)
		}
		wishes = append(wishes, w)
	}
	return wishes, nil
}
