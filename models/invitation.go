package models

import "time"

// Invitation statuses.
const (
	InvitationActive  = "active"
	InvitationExpired = "expired"
)

// CoupleMember describes one half of the couple.
type CoupleMember struct {
	Name       string `bson:"name" json:"name"`
	Father     string `bson:"father,omitempty" json:"father,omitempty"`
	Mother     string `bson:"mother,omitempty" json:"mother,omitempty"`
	ChildOrder string `bson:"childOrder,omitempty" json:"childOrder,omitempty"`
}

// EventDetail describes one ceremony (akad or resepsi).
type EventDetail struct {
	Date     string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time     string `bson:"time" json:"time"` // "HH:MM"
	Location string `bson:"location,omitempty" json:"location,omitempty"`
}

// Invitation is the central document. LinksGenerated may never exceed
// MaxLinks while Plan != unlimited; the counter is only moved through the
// conditional reserve update in the invitation repository.
type Invitation struct {
	ID             string      `bson:"id" json:"id"`
	UserID         string      `bson:"userId" json:"userId"`
	Groom          CoupleMember `bson:"groom" json:"groom"`
	Bride          CoupleMember `bson:"bride" json:"bride"`
	Akad           EventDetail `bson:"akad" json:"akad"`
	Resepsi        EventDetail `bson:"resepsi" json:"resepsi"`
	MapsLink       string      `bson:"mapsLink,omitempty" json:"mapsLink,omitempty"`
	SpecialMessage string      `bson:"specialMessage,omitempty" json:"specialMessage,omitempty"`
	Template       string      `bson:"template" json:"template"`
	Plan           string      `bson:"plan" json:"plan"`
	MaxLinks       int         `bson:"maxLinks" json:"maxLinks"`
	LinksGenerated int         `bson:"linksGenerated" json:"linksGenerated"`
	ExpiryDate     time.Time   `bson:"expiryDate" json:"expiryDate"`
	Status         string      `bson:"status" json:"status"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// InvitationInput carries the user-editable fields for create.
type InvitationInput struct {
	Groom          CoupleMember `json:"groom"`
	Bride          CoupleMember `json:"bride"`
	Akad           EventDetail  `json:"akad"`
	Resepsi        EventDetail  `json:"resepsi"`
	MapsLink       string       `json:"mapsLink"`
	SpecialMessage string       `json:"specialMessage"`
	Template       string       `json:"template"`
}

// InvitationPatch carries the fields updatable after creation. Owner, plan,
// quota counters and expiry are deliberately absent: those move only through
// the upgrade workflow.
type InvitationPatch struct {
	Groom          *CoupleMember `json:"groom,omitempty"`
	Bride          *CoupleMember `json:"bride,omitempty"`
	Akad           *EventDetail  `json:"akad,omitempty"`
	Resepsi        *EventDetail  `json:"resepsi,omitempty"`
	MapsLink       *string       `json:"mapsLink,omitempty"`
	SpecialMessage *string       `json:"specialMessage,omitempty"`
	Template       *string       `json:"template,omitempty"`
}
