package plan

import (
	"nikahlink/models"
	"nikahlink/utils"

	"go.uber.org/zap"
)

// Catalog is the single source of truth for plan limits and pricing. No
// other component may carry its own plan table.
type Catalog interface {
	// LimitsFor returns the limits of the given plan identifier. An unknown
	// plan falls back to the free tier's values.
	LimitsFor(plan string) models.PackageValues
	// All returns the full settings document with defaults filled in.
	All() models.PackageSettings
}

// Defaults returns the built-in plan table used when the admin has never
// edited package settings, and as the fallback for missing fields.
func Defaults() models.PackageSettings {
	return models.PackageSettings{
		Free: models.PackageValues{
			Price: 0, MaxLinks: 10, MaxInvitations: 1, Duration: 7,
			Features: "Template Basic, Tanpa Musik",
		},
		Basic: models.PackageValues{
			Price: 99000, MaxLinks: 100, MaxInvitations: 1, Duration: 30,
		},
		Premium: models.PackageValues{
			Price: 199000, MaxLinks: 500, MaxInvitations: 3, Duration: 60,
		},
		Unlimited: models.PackageValues{
			Price: 499000, MaxLinks: 999999, MaxInvitations: 999999, Duration: 365,
		},
	}
}

// SettingsSource is the subset of the settings repository the catalog needs.
type SettingsSource interface {
	GetPackages() (*models.PackageSettings, error)
}

// DefaultCatalog overlays admin-edited package settings on the defaults.
type DefaultCatalog struct {
	Settings SettingsSource
}

// NewCatalog creates a catalog reading overrides from src. src may be nil,
// in which case the built-in defaults apply.
func NewCatalog(src SettingsSource) *DefaultCatalog {
	return &DefaultCatalog{Settings: src}
}

// All returns the effective plan table.
func (c *DefaultCatalog) All() models.PackageSettings {
	effective := Defaults()
	if c.Settings == nil {
		return effective
	}

	stored, err := c.Settings.GetPackages()
	if err != nil {
		// The catalog must keep answering; fall back to defaults.
		utils.GetLogger().Warn("failed to load package settings, using defaults", zap.Error(err))
		return effective
	}
	if stored == nil {
		return effective
	}

	overlay(&effective.Free, stored.Free)
	overlay(&effective.Basic, stored.Basic)
	overlay(&effective.Premium, stored.Premium)
	overlay(&effective.Unlimited, stored.Unlimited)
	effective.UpdatedAt = stored.UpdatedAt
	effective.UpdatedBy = stored.UpdatedBy
	return effective
}

// LimitsFor returns the limits of one plan; unknown plans report free limits.
func (c *DefaultCatalog) LimitsFor(plan string) models.PackageValues {
	all := c.All()
	switch plan {
	case models.PlanBasic:
		return all.Basic
	case models.PlanPremium:
		return all.Premium
	case models.PlanUnlimited:
		return all.Unlimited
	default:
		return all.Free
	}
}

// overlay copies the non-zero fields of src over dst. Price is taken as-is
// for paid tiers only when set; zero means "not overridden" everywhere except
// the free tier, whose price is always zero.
func overlay(dst *models.PackageValues, src models.PackageValues) {
	if src.Price > 0 {
		dst.Price = src.Price
	}
	if src.MaxLinks > 0 {
		dst.MaxLinks = src.MaxLinks
	}
	if src.MaxInvitations > 0 {
		dst.MaxInvitations = src.MaxInvitations
	}
	if src.Duration > 0 {
		dst.Duration = src.Duration
	}
	if src.Features != "" {
		dst.Features = src.Features
	}
}
