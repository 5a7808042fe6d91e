package quota

import (
	"context"
	"errors"
	"fmt"

	"nikahlink/models"

	invitationRepo "nikahlink/database/repository/invitation"
)

var (
	// ErrInvitationNotFound is returned when the invitation does not exist.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrQuotaExhausted is returned when every share link of the plan has
	// already been generated.
	ErrQuotaExhausted = errors.New("share link quota exhausted")
)

// Result describes the quota state of an invitation after a check or a
// successful reservation.
type Result struct {
	Allowed        bool   `json:"allowed"`
	Plan           string `json:"plan"`
	LinksGenerated int    `json:"linksGenerated"`
	MaxLinks       int    `json:"maxLinks"`
	Remaining      int    `json:"remaining"`
	ShowWarning    bool   `json:"showWarning"`
}

// Guard answers whether an invitation may generate another share link, and
// reserves slots. Reserve is the only way to consume a slot; checking and
// consuming in separate steps would let concurrent callers overshoot the cap.
type Guard interface {
	// Check reports the current quota state without consuming anything.
	Check(ctx context.Context, invitationID string) (*Result, error)

	// Reserve atomically consumes one share link slot and returns the state
	// after the reservation. It fails with ErrQuotaExhausted when no slot is
	// left, never pushing the counter past the cap.
	Reserve(ctx context.Context, invitationID string) (*Result, error)
}

// DefaultGuard implements Guard on the invitation repository.
type DefaultGuard struct {
	Invitations invitationRepo.InvitationRepository
}

// NewGuard creates a quota guard backed by the given repository.
func NewGuard(repo invitationRepo.InvitationRepository) *DefaultGuard {
	return &DefaultGuard{Invitations: repo}
}

// Check reports the quota state of an invitation.
func (g *DefaultGuard) Check(ctx context.Context, invitationID string) (*Result, error) {
	inv, err := g.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("quota: failed to load invitation %s: %w", invitationID, err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	return resultFor(inv), nil
}

// Reserve consumes one share link slot.
func (g *DefaultGuard) Reserve(ctx context.Context, invitationID string) (*Result, error) {
	inv, err := g.Invitations.ReserveLink(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("quota: failed to reserve link for %s: %w", invitationID, err)
	}
	if inv != nil {
		return resultFor(inv), nil
	}

	// The conditional update matched nothing: either the invitation is gone
	// or its quota is spent. Reload to tell the two apart.
	current, err := g.Invitations.GetByID(invitationID)
	if err != nil {
		return nil, fmt.Errorf("quota: failed to load invitation %s: %w", invitationID, err)
	}
	if current == nil {
		return nil, ErrInvitationNotFound
	}
	return resultFor(current), ErrQuotaExhausted
}

// resultFor derives the quota state from an invitation document.
func resultFor(inv *models.Invitation) *Result {
	unlimited := inv.Plan == models.PlanUnlimited
	remaining := inv.MaxLinks - inv.LinksGenerated
	if remaining < 0 {
		remaining = 0
	}
	allowed := unlimited || inv.LinksGenerated < inv.MaxLinks

	return &Result{
		Allowed:        allowed,
		Plan:           inv.Plan,
		LinksGenerated: inv.LinksGenerated,
		MaxLinks:       inv.MaxLinks,
		Remaining:      remaining,
		ShowWarning:    allowed && !unlimited && remaining <= warningThreshold(inv.MaxLinks),
	}
}

// warningThreshold is 20% of the cap, rounded up. The UI nudges the owner
// toward an upgrade once the remaining slots dip below it.
func warningThreshold(maxLinks int) int {
	return (maxLinks + 4) / 5
}
