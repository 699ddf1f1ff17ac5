package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

func TestProvisionGuest_CreatesOnFirstUse(t *testing.T) {
	d := newTestDeps()
	handler := NewProvisionGuestHandler(d.userRepo, d.achRepo)

	guest, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, user.Username(user.GuestUsername), guest.Username)
	assert.True(t, guest.IsGuest)
	assert.Equal(t, []string{guest.ID}, d.achRepo.seeded)
}

func TestProvisionGuest_ReusesExistingAccount(t *testing.T) {
	d := newTestDeps()
	handler := NewProvisionGuestHandler(d.userRepo, d.achRepo)

	first, err := handler.Handle(context.Background())
	require.NoError(t, err)

	second, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Достижения засеяны один раз.
	assert.Len(t, d.achRepo.seeded, 1)
}

func TestProvisionGuest_LosingCreateRaceRefetches(t *testing.T) {
	d := newTestDeps()
	handler := NewProvisionGuestHandler(d.userRepo, d.achRepo)

	// Конкурент вставляет demo_user между проверкой и нашей вставкой.
	d.userRepo.createHook = func(r *memUserRepo) error {
		winner := user.NewGuestUser("winner-id")
		r.byID[winner.ID] = winner
		return user.ErrUserAlreadyExists
	}

	guest, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "winner-id", guest.ID)
}
