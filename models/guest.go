package models

import "time"

// RSVP statuses. A guest never moves back to pending once answered.
const (
	RSVPPending   = "pending"
	RSVPConfirmed = "confirmed"
	RSVPDeclined  = "declined"
)

// Attendance values accepted from the public RSVP form.
const (
	AttendanceHadir = "hadir"
	AttendanceTidak = "tidak"
)

// Guest belongs to exactly one invitation. Identity within an invitation is
// the exact display name; there is no dedup beyond equality match (inherited
// data-model gap, first match wins).
type Guest struct {
	ID           string     `bson:"id" json:"id"`
	InvitationID string     `bson:"invitationId" json:"invitationId"`
	Name         string     `bson:"name" json:"name"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	RSVPStatus   string     `bson:"rsvpStatus" json:"rsvpStatus"`
	Attendance   string     `bson:"attendance,omitempty" json:"attendance,omitempty"`
	GuestCount   int        `bson:"guestCount,omitempty" json:"guestCount,omitempty"`
	Message      string     `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	OpenedAt     *time.Time `bson:"openedAt,omitempty" json:"openedAt,omitempty"`
	RSVPAt       *time.Time `bson:"rsvpAt,omitempty" json:"rsvpAt,omitempty"`
}

// Wish is an append-only guest message shown on the public invitation page.
type Wish struct {
	ID           string    `bson:"id" json:"id"`
	InvitationID string    `bson:"invitationId" json:"invitationId"`
	Name         string    `bson:"name" json:"name"`
	Message      string    `bson:"message" json:"message"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
