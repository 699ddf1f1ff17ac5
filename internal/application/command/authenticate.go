package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE COMMAND
// Verifies credentials and starts a session. A successful login is a
// daily touchpoint: the streak rule fires before the session is issued.
// Unknown usernames and wrong passwords produce the same error so the
// response does not reveal which accounts exist.
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateCommand contains login credentials.
type AuthenticateCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c AuthenticateCommand) Validate() error {
	if c.Username == "" || c.Password == "" {
		return credential.ErrInvalidCredential
	}
	return nil
}

// AuthenticateResult contains the result of a successful login.
type AuthenticateResult struct {
	// User is the authenticated account with the streak already applied.
	User *user.User

	// Session is the freshly issued session.
	Session *session.Session

	// Streak describes what the login did to the daily streak.
	Streak user.StreakTransition

	// AuthenticatedAt is when the login happened.
	AuthenticatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateHandler handles the AuthenticateCommand.
type AuthenticateHandler struct {
	userRepo       user.Repository
	hasher         *credential.Hasher
	sessions       session.Manager
	eventPublisher shared.EventPublisher
}

// NewAuthenticateHandler creates a new AuthenticateHandler.
func NewAuthenticateHandler(
	userRepo user.Repository,
	hasher *credential.Hasher,
	sessions session.Manager,
	eventPublisher shared.EventPublisher,
) *AuthenticateHandler {
	return &AuthenticateHandler{
		userRepo:       userRepo,
		hasher:         hasher,
		sessions:       sessions,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the login command.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*AuthenticateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	username := user.Username(cmd.Username).Normalize()

	usr, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, credential.ErrInvalidCredential
		}
		return nil, fmt.Errorf("authenticate: load user: %w", err)
	}

	if !h.hasher.Verify(cmd.Password, usr.PasswordHash) {
		return nil, credential.ErrInvalidCredential
	}

	now := time.Now().UTC()
	transition := usr.TouchStreak(now)
	usr.Touch()

	if err := h.userRepo.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("authenticate: update user: %w", err)
	}

	sess, err := h.sessions.Start(ctx, usr.ID, usr.Username.String())
	if err != nil {
		return nil, fmt.Errorf("authenticate: start session: %w", err)
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewSessionStartedEvent(usr.ID, usr.Username.String()))
		if transition.Fired {
			if transition.Reset && transition.PreviousStreak > 1 {
				_ = h.eventPublisher.Publish(shared.NewStreakBrokenEvent(usr.ID, transition.PreviousStreak, transition.DaysMissed))
			}
			_ = h.eventPublisher.Publish(shared.NewStreakUpdatedEvent(usr.ID, usr.DailyStreak, usr.TotalSessions, transition.Extended))
		}
	}

	return &AuthenticateResult{
		User:            usr,
		Session:         sess,
		Streak:          transition,
		AuthenticatedAt: now,
	}, nil
}
