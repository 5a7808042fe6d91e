package settingsRepo

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

const packagesDocID = "packages"

// SettingsRepository stores the admin-editable package settings singleton.
// GetPackages returns (nil, nil) when the document has never been written.
type SettingsRepository interface {
	GetPackages() (*models.PackageSettings, error)
	SavePackages(s *models.PackageSettings) error
}

// MongoSettingsRepo implements SettingsRepository using MongoDB.
type MongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo creates a new SettingsRepository backed by MongoDB.
func NewMongoSettingsRepo() SettingsRepository {
	return &MongoSettingsRepo{coll: database.DB().Collection("settings")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetPackages retrieves the package settings singleton.
func (r *MongoSettingsRepo) GetPackages() (*models.PackageSettings, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var s models.PackageSettings
	if err := r.coll.FindOne(ctx, bson.M{"_id": packagesDocID}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch package settings: %w", err)
	}
	return &s, nil
}

// SavePackages upserts the package settings singleton.
func (r *MongoSettingsRepo) SavePackages(s *models.PackageSettings) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": packagesDocID}, s, opts); err != nil {
		return fmt.Errorf("failed to save package settings: %w", err)
	}
	return nil
}
