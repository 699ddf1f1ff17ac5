// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Creates an account, seeds the locked achievement set, and starts the
// first session. Registration counts as the first active day: the streak
// starts at 1 and total_sessions at 1.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand contains the data to register a new user.
type RegisterUserCommand struct {
	// Username is the desired unique username.
	Username string

	// Password is the plaintext password; it is hashed before storage.
	Password string

	// Email is optional.
	Email string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if !user.Username(c.Username).IsValid() {
		return user.ErrInvalidUsername
	}
	if len(c.Password) < user.MinPasswordLength {
		return user.ErrInvalidPassword
	}
	return nil
}

// RegisterUserResult contains the result of registration.
type RegisterUserResult struct {
	// User is the created account.
	User *user.User

	// Session is the first session, already active.
	Session *session.Session

	// RegisteredAt is when the account was created.
	RegisteredAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo        user.Repository
	achievementRepo achievement.Repository
	hasher          *credential.Hasher
	sessions        session.Manager
	eventPublisher  shared.EventPublisher
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	userRepo user.Repository,
	achievementRepo achievement.Repository,
	hasher *credential.Hasher,
	sessions session.Manager,
	eventPublisher shared.EventPublisher,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		hasher:          hasher,
		sessions:        sessions,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the registration command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	username := user.Username(cmd.Username).Normalize()

	taken, err := h.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register_user: username check: %w", err)
	}
	if taken {
		return nil, user.ErrUserAlreadyExists
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_user: hash password: %w", err)
	}

	usr, err := user.NewUser(user.NewUserParams{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        cmd.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	// Registration is the first active day.
	now := time.Now().UTC()
	usr.TouchStreak(now)
	usr.Touch()

	if err := h.userRepo.Create(ctx, usr); err != nil {
		// A racing registration can win between the existence check and
		// the insert; surface it the same way.
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return nil, user.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("register_user: create user: %w", err)
	}

	if err := h.achievementRepo.InitForUser(ctx, usr.ID); err != nil {
		return nil, fmt.Errorf("register_user: seed achievements: %w", err)
	}

	sess, err := h.sessions.Start(ctx, usr.ID, usr.Username.String())
	if err != nil {
		return nil, fmt.Errorf("register_user: start session: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewUserRegisteredEvent(usr.ID, usr.Username.String(), usr.Email))
		_ = h.eventPublisher.Publish(shared.NewSessionStartedEvent(usr.ID, usr.Username.String()))
	}

	return &RegisterUserResult{
		User:         usr,
		Session:      sess,
		RegisteredAt: usr.CreatedAt,
	}, nil
}
