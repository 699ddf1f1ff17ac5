package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// END SESSION COMMAND
// Invalidates a session token. Ending an already-ended or unknown
// session succeeds: logout is idempotent.
// ══════════════════════════════════════════════════════════════════════════════

// EndSessionCommand invalidates a session token.
type EndSessionCommand struct {
	// Token is the session token to invalidate.
	Token string

	// UserID is optional; when known it is attached to the logout event.
	UserID string
}

// EndSessionResult contains the result of ending a session.
type EndSessionResult struct {
	// EndedAt is when the invalidation was processed.
	EndedAt time.Time
}

// EndSessionHandler handles the EndSessionCommand.
type EndSessionHandler struct {
	sessions       session.Manager
	eventPublisher shared.EventPublisher
}

// NewEndSessionHandler creates a new EndSessionHandler.
func NewEndSessionHandler(sessions session.Manager, eventPublisher shared.EventPublisher) *EndSessionHandler {
	return &EndSessionHandler{
		sessions:       sessions,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the end session command.
func (h *EndSessionHandler) Handle(ctx context.Context, cmd EndSessionCommand) (*EndSessionResult, error) {
	if err := h.sessions.Invalidate(ctx, cmd.Token); err != nil {
		return nil, fmt.Errorf("end_session: %w", err)
	}

	if h.eventPublisher != nil && cmd.UserID != "" {
		_ = h.eventPublisher.Publish(shared.NewSessionEndedEvent(cmd.UserID))
	}

	return &EndSessionResult{EndedAt: time.Now().UTC()}, nil
}
