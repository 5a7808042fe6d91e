package invitationRepo

import (
	"context"
	"fmt"
	"time"

	"nikahlink/database"
	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvitationRepo implements InvitationRepository. It spans the
// invitations, guests and wishes collections (and touches users for the
// owner cascade) because the cascade invariants cross collection boundaries.
type MongoInvitationRepo struct {
	invColl   *mongo.Collection
	guestColl *mongo.Collection
	wishColl  *mongo.Collection
	userColl  *mongo.Collection
}

// NewMongoInvitationRepo creates a new InvitationRepository backed by MongoDB.
func NewMongoInvitationRepo() InvitationRepository {
	db := database.DB()
	repo := &MongoInvitationRepo{
		invColl:   db.Collection("invitations"),
		guestColl: db.Collection("guests"),
		wishColl:  db.Collection("wishes"),
		userColl:  db.Collection("users"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoInvitationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.invColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create invitation indexes: %w", err)
	}
	if _, err := r.guestColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "invitationId", Value: 1}, {Key: "name", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create guest indexes: %w", err)
	}
	if _, err := r.wishColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "invitationId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create wish indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an invitation by its unique ID.
func (r *MongoInvitationRepo) GetByID(id string) (*models.Invitation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var inv models.Invitation
	if err := r.invColl.FindOne(ctx, bson.M{"id": id}).Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch invitation with id %s: %w", id, err)
	}
	return &inv, nil
}

// GetByOwner retrieves all invitations owned by a user, newest first.
func (r *MongoInvitationRepo) GetByOwner(userID string) ([]models.Invitation, error) {
	return r.findInvitations(bson.M{"userId": userID}, 0)
}

// GetAll retrieves all invitations, newest first.
func (r *MongoInvitationRepo) GetAll(limit int) ([]models.Invitation, error) {
	return r.findInvitations(bson.M{}, int64(limit))
}

func (r *MongoInvitationRepo) findInvitations(filter bson.M, limit int64) ([]models.Invitation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.invColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.Invitation
	for cursor.Next(ctx) {
		var inv models.Invitation
		if err := cursor.Decode(&inv); err != nil {
			return nil, fmt.Errorf("failed to decode invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

// CountByOwner counts a user's invitations.
func (r *MongoInvitationRepo) CountByOwner(userID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.invColl.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count invitations for user %s: %w", userID, err)
	}
	return n, nil
}

// CountAll counts all invitations.
func (r *MongoInvitationRepo) CountAll() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	n, err := r.invColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count invitations: %w", err)
	}
	return n, nil
}

// Create inserts a new invitation document.
func (r *MongoInvitationRepo) Create(inv *models.Invitation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if _, err := r.invColl.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// UpdateSetDocument applies a partial $set update to an invitation document.
func (r *MongoInvitationRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	updateDoc["updatedAt"] = time.Now()
	result, err := r.invColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update invitation with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("invitation with id %s not found", id)
	}
	return nil
}

// ExpireOverdue marks active invitations whose expiry date has passed.
func (r *MongoInvitationRepo) ExpireOverdue(ctx context.Context) (int64, error) {
	filter := bson.M{
		"status":     models.InvitationActive,
		"expiryDate": bson.M{"$gt": time.Time{}, "$lt": time.Now()},
	}
	update := bson.M{"$set": bson.M{"status": models.InvitationExpired, "updatedAt": time.Now()}}

	result, err := r.invColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invitations: %w", err)
	}
	return result.ModifiedCount, nil
}
