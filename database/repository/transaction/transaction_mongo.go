package transactionRepo

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

// MongoTransactionRepo implements TransactionRepository. It holds the
// invitations collection too: confirming a payment updates the transaction
// and the invitation in one transaction.
type MongoTransactionRepo struct {
	trxColl *mongo.Collection
	invColl *mongo.Collection
}

// NewMongoTransactionRepo creates a new TransactionRepository backed by MongoDB.
func NewMongoTransactionRepo() TransactionRepository {
	db := database.DB()
	repo := &MongoTransactionRepo{
		trxColl: db.Collection("transactions"),
		invColl: db.Collection("invitations"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTransactionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.trxColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}

// Create inserts a new transaction document.
func (r *MongoTransactionRepo) Create(trx *models.Transaction) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if trx.CreatedAt.IsZero() {
		trx.CreatedAt = time.Now()
	}
	if _, err := r.trxColl.InsertOne(ctx, trx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by its unique ID.
func (r *MongoTransactionRepo) GetByID(id string) (*models.Transaction, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var trx models.Transaction
	if err := r.trxColl.FindOne(ctx, bson.M{"id": id}).Decode(&trx); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transaction with id %s: %w", id, err)
	}
	return &trx, nil
}

// GetAll retrieves all transactions, newest first.
func (r *MongoTransactionRepo) GetAll(limit int) ([]models.Transaction, error) {
	return r.findTransactions(bson.M{}, int64(limit))
}

// GetByUser retrieves a user's transactions, newest first.
func (r *MongoTransactionRepo) GetByUser(userID string) ([]models.Transaction, error) {
	return r.findTransactions(bson.M{"userId": userID}, 0)
}

func (r *MongoTransactionRepo) findTransactions(filter bson.M, limit int64) ([]models.Transaction, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.trxColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	for cursor.Next(ctx) {
		var trx models.Transaction
		if err := cursor.Decode(&trx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		transactions = append(transactions, trx)
	}
	return transactions, nil
}

// ConfirmPaid finalizes a pending transaction and raises the invitation's
// plan in one Mongo transaction. The status filter guards against replay: a
// transaction that already left pending matches nothing and the whole group
// aborts with ErrNotPending.
func (r *MongoTransactionRepo) ConfirmPaid(ctx context.Context, trxID, adminID, plan string, maxLinks int, expiry time.Time) error {
	var trx models.Transaction
	if err := r.trxColl.FindOne(ctx, bson.M{"id": trxID}).Decode(&trx); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotPending
		}
		return fmt.Errorf("failed to fetch transaction %s: %w", trxID, err)
	}

	client := r.trxColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		res, err := r.trxColl.UpdateOne(sc,
			bson.M{"id": trxID, "status": models.TransactionPending},
			bson.M{"$set": bson.M{
				"status":      models.TransactionPaid,
				"paidAt":      now,
				"confirmedBy": adminID,
			}})
		if err != nil {
			return fmt.Errorf("mark transaction paid failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotPending
		}

		invRes, err := r.invColl.UpdateOne(sc,
			bson.M{"id": trx.InvitationID},
			bson.M{"$set": bson.M{
				"plan":       plan,
				"maxLinks":   maxLinks,
				"expiryDate": expiry,
				"updatedAt":  now,
			}})
		if err != nil {
			return fmt.Errorf("raise invitation plan failed: %w", err)
		}
		if invRes.MatchedCount == 0 {
			// Abort: a paid transaction must never point at a missing invitation.
			return fmt.Errorf("invitation %s not found", trx.InvitationID)
		}
		return nil
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// Reject finalizes a pending transaction as rejected. A single conditional
// update suffices since the invitation is not touched.
func (r *MongoTransactionRepo) Reject(ctx context.Context, trxID, adminID string) error {
	res, err := r.trxColl.UpdateOne(ctx,
		bson.M{"id": trxID, "status": models.TransactionPending},
		bson.M{"$set": bson.M{
			"status":     models.TransactionRejected,
			"rejectedAt": time.Now(),
			"rejectedBy": adminID,
		}})
	if err != nil {
		return fmt.Errorf("failed to reject transaction %s: %w", trxID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// SumPaidAmounts totals the amounts of all paid transactions.
func (r *MongoTransactionRepo) SumPaidAmounts() (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.TransactionPaid}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.trxColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum paid transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var row struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("failed to decode revenue row: %w", err)
		}
	}
	return row.Total, nil
}
