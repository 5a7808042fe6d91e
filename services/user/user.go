package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"nikahlink/models"
	"nikahlink/services/plan"

	invitationRepo "nikahlink/database/repository/invitation"
	userRepo "nikahlink/database/repository/user"
)

// ErrNotFound is returned when the user document does not exist.
var ErrNotFound = errors.New("user not found")

// UserService manages account documents for identities verified upstream.
type UserService interface {
	// EnsureUser returns the account for the authenticated identity,
	// provisioning a free-tier document on first contact.
	EnsureUser(auth models.AuthUser) (*models.User, error)
	GetByID(id string) (*models.User, error)
	UpdateProfile(id string, in ProfileInput) (*models.User, error)
	Stats(id string) (*models.UserStats, error)
}

// ProfileInput carries the self-service editable fields.
type ProfileInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Users       userRepo.UserRepository
	Invitations invitationRepo.InvitationRepository
	Catalog     plan.Catalog
}

// EnsureUser provisions the account document on first authenticated request.
func (s *DefaultUserService) EnsureUser(auth models.AuthUser) (*models.User, error) {
	existing, err := s.Users.GetByID(auth.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", auth.UID, err)
	}
	if existing != nil {
		return existing, nil
	}

	free := s.Catalog.LimitsFor(models.PlanFree)
	now := time.Now()
	user := &models.User{
		ID:        auth.UID,
		FullName:  auth.DisplayName,
		Email:     strings.ToLower(auth.Email),
		Plan:      models.PlanFree,
		MaxLinks:  free.MaxLinks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to provision user %s: %w", auth.UID, err)
	}
	return user, nil
}

// GetByID returns the account document.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	user, err := s.Users.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies the self-service profile fields.
func (s *DefaultUserService) UpdateProfile(id string, in ProfileInput) (*models.User, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	updateDoc := bson.M{"updatedAt": time.Now()}
	if in.FullName != "" {
		updateDoc["fullName"] = in.FullName
	}
	if in.Phone != "" {
		updateDoc["phone"] = in.Phone
	}
	if err := s.Users.UpdateSetDocument(id, updateDoc); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return s.GetByID(id)
}

// Stats reports the dashboard counters for one user.
func (s *DefaultUserService) Stats(id string) (*models.UserStats, error) {
	invitations, err := s.Invitations.CountByOwner(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations of %s: %w", id, err)
	}
	guests, err := s.Invitations.CountGuestsForOwner(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count guests of %s: %w", id, err)
	}
	return &models.UserStats{
		Invitations: int(invitations),
		Guests:      int(guests),
	}, nil
}
