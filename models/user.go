package models

import "time"

// User is the account document owned by a hosted-identity account.
// Plan, MaxLinks and LinkGenerated are the legacy per-account quota fields;
// quota enforcement runs on the per-invitation counters (see Invitation).
type User struct {
	ID                 string    `bson:"id" json:"id"`
	FullName           string    `bson:"fullName" json:"fullName"`
	Email              string    `bson:"email" json:"email"`
	Phone              string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Plan               string    `bson:"plan" json:"plan"`
	MaxLinks           int       `bson:"maxLinks" json:"maxLinks"`
	LinkGenerated      int       `bson:"linkGenerated" json:"linkGenerated"`
	InvitationsCreated int       `bson:"invitationsCreated" json:"invitationsCreated"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy          string    `bson:"updatedBy,omitempty" json:"-"`
}

// AuthUser is the identity extracted from a verified ID token.
type AuthUser struct {
	UID         string
	Email       string
	DisplayName string
}

// UserStats summarises a user's dashboard numbers.
type UserStats struct {
	Invitations int `json:"invitations"`
	Guests      int `json:"guests"`
}
