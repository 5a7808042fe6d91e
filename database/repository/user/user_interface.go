package userRepo

import (
	"nikahlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access. Lookup methods return
// (nil, nil) when the document does not exist so callers can distinguish
// absence from infrastructure failure.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// GetAll retrieves all users, newest first.
	GetAll() ([]models.User, error)
	// Recent retrieves the n most recently created users.
	Recent(n int) ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// UpdateSetDocument applies a partial $set update to a user record.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// IncrementInvitationsCreated moves the invitation counter by delta.
	IncrementInvitationsCreated(id string, delta int) error
	// CountAll counts all user records.
	CountAll() (int64, error)
	// CountPremium counts users whose plan is set and not free.
	CountPremium() (int64, error)
}
