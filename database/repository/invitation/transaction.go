package invitationRepo

import (
	"context"
	"fmt"

	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReserveLink performs the quota check and counter increment as one
// conditional update, so two concurrent issuances can never both pass a
// stale read. The filter admits the document only while the plan is
// unlimited or linksGenerated is still below maxLinks.
func (r *MongoInvitationRepo) ReserveLink(ctx context.Context, id string) (*models.Invitation, error) {
	filter := bson.M{
		"id": id,
		"$or": bson.A{
			bson.M{"plan": models.PlanUnlimited},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$linksGenerated", "$maxLinks"}}},
		},
	}
	update := bson.M{"$inc": bson.M{"linksGenerated": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invitation
	err := r.invColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to reserve link for invitation %s: %w", id, err)
	}
	return &inv, nil
}

// DeleteCascade removes the invitation and all of its guests and wishes in
// one transaction. Partial deletion is never persisted.
func (r *MongoInvitationRepo) DeleteCascade(ctx context.Context, id string) error {
	client := r.invColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.guestColl.DeleteMany(sc, bson.M{"invitationId": id}); err != nil {
			return fmt.Errorf("delete guests failed: %w", err)
		}
		if _, err := r.wishColl.DeleteMany(sc, bson.M{"invitationId": id}); err != nil {
			return fmt.Errorf("delete wishes failed: %w", err)
		}
		res, err := r.invColl.DeleteOne(sc, bson.M{"id": id})
		if err != nil {
			return fmt.Errorf("delete invitation failed: %w", err)
		}
		if res.DeletedCount == 0 {
			return fmt.Errorf("invitation with id %s not found", id)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("invitation cascade delete failed: %w", err)
	}
	return nil
}

// DeleteOwnerCascade removes every invitation a user owns, with all guests
// and wishes, plus the user document itself, in one transaction.
func (r *MongoInvitationRepo) DeleteOwnerCascade(ctx context.Context, userID string) error {
	client := r.invColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		cursor, err := r.invColl.Find(sc, bson.M{"userId": userID})
		if err != nil {
			return fmt.Errorf("list owned invitations failed: %w", err)
		}
		var ids []string
		for cursor.Next(sc) {
			var inv models.Invitation
			if err := cursor.Decode(&inv); err != nil {
				cursor.Close(sc)
				return fmt.Errorf("decode invitation failed: %w", err)
			}
			ids = append(ids, inv.ID)
		}
		cursor.Close(sc)

		if len(ids) > 0 {
			subFilter := bson.M{"invitationId": bson.M{"$in": ids}}
			if _, err := r.guestColl.DeleteMany(sc, subFilter); err != nil {
				return fmt.Errorf("delete guests failed: %w", err)
			}
			if _, err := r.wishColl.DeleteMany(sc, subFilter); err != nil {
				return fmt.Errorf("delete wishes failed: %w", err)
			}
			if _, err := r.invColl.DeleteMany(sc, bson.M{"userId": userID}); err != nil {
				return fmt.Errorf("delete invitations failed: %w", err)
			}
		}

		res, err := r.userColl.DeleteOne(sc, bson.M{"id": userID})
		if err != nil {
			return fmt.Errorf("delete user failed: %w", err)
		}
		if res.DeletedCount == 0 {
			return fmt.Errorf("user with id %s not found", userID)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("owner cascade delete failed: %w", err)
	}
	return nil
}
