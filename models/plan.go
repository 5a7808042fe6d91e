package models

import "time"

// Plan identifiers are persisted as-is; they must stay stable, lower-case strings.
const (
	PlanFree      = "free"
	PlanBasic     = "basic"
	PlanPremium   = "premium"
	PlanUnlimited = "unlimited"
)

// PackageValues holds the limits and pricing of a single plan tier.
type PackageValues struct {
	Price          int64  `bson:"price" json:"price"`
	MaxLinks       int    `bson:"maxLinks" json:"maxLinks"`
	MaxInvitations int    `bson:"maxInvitations" json:"maxInvitations"`
	Duration       int    `bson:"duration" json:"duration"` // days
	Features       string `bson:"features,omitempty" json:"features,omitempty"`
}

// PackageSettings is the admin-editable singleton stored in the settings collection.
type PackageSettings struct {
	Free      PackageValues `bson:"free" json:"free"`
	Basic     PackageValues `bson:"basic" json:"basic"`
	Premium   PackageValues `bson:"premium" json:"premium"`
	Unlimited PackageValues `bson:"unlimited" json:"unlimited"`
	UpdatedAt time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	UpdatedBy string        `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// KnownPlan reports whether the given identifier is one of the four tiers.
func KnownPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanBasic, PlanPremium, PlanUnlimited:
		return true
	}
	return false
}
