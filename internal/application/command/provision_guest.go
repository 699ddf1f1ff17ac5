package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROVISION GUEST COMMAND
// Requests without any session token fall back to the shared demo_user
// account. The account is created lazily on first use; an invalid token
// never reaches this path - it is rejected, not downgraded to guest.
// ══════════════════════════════════════════════════════════════════════════════

// ProvisionGuestHandler returns the guest account, creating it on demand.
type ProvisionGuestHandler struct {
	userRepo        user.Repository
	achievementRepo achievement.Repository
}

// NewProvisionGuestHandler creates a new ProvisionGuestHandler.
func NewProvisionGuestHandler(userRepo user.Repository, achievementRepo achievement.Repository) *ProvisionGuestHandler {
	return &ProvisionGuestHandler{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
	}
}

// Handle returns the guest user.
func (h *ProvisionGuestHandler) Handle(ctx context.Context) (*user.User, error) {
	guest, err := h.userRepo.GetByUsername(ctx, user.GuestUsername)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("provision_guest: %w", err)
	}

	guest = user.NewGuestUser(uuid.NewString())

	if err := h.userRepo.Create(ctx, guest); err != nil {
		// Lost the race to another request; the winner's row is fine.
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return h.userRepo.GetByUsername(ctx, user.GuestUsername)
		}
		return nil, fmt.Errorf("provision_guest: create guest: %w", err)
	}

	if err := h.achievementRepo.InitForUser(ctx, guest.ID); err != nil {
		return nil, fmt.Errorf("provision_guest: seed achievements: %w", err)
	}

	return guest, nil
}
