package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW RELOCATION COMMAND
// Serves the relocation dataset and marks the user as having explored
// it. The first view unlocks Relocation Explorer; the ledger entry is a
// zero-point audit record either way.
// ══════════════════════════════════════════════════════════════════════════════

// DatasetProvider serves the relocation dataset.
type DatasetProvider interface {
	GetDataset(ctx context.Context) (*relocate.Dataset, error)
}

// ViewRelocationCommand records a relocation data view.
type ViewRelocationCommand struct {
	// UserID is the internal ID of the user.
	UserID string
}

// Validate validates the command.
func (c ViewRelocationCommand) Validate() error {
	if c.UserID == "" {
		return user.ErrUserNotFound
	}
	return nil
}

// ViewRelocationResult contains the dataset and unlock state.
type ViewRelocationResult struct {
	// Dataset is the relocation data served to the user.
	Dataset *relocate.Dataset

	// User is the user after the view was recorded.
	User *user.User

	// FirstView is true when this was the user's first view.
	FirstView bool

	// Achievements holds the explorer achievement when first unlocked.
	Achievements *saga.AchievementFlowResult

	// ViewedAt is when the view was recorded.
	ViewedAt time.Time
}

// ViewRelocationHandler handles the ViewRelocationCommand.
type ViewRelocationHandler struct {
	deps     ProgressionDeps
	provider DatasetProvider
}

// NewViewRelocationHandler creates a new ViewRelocationHandler.
func NewViewRelocationHandler(deps ProgressionDeps, provider DatasetProvider) *ViewRelocationHandler {
	return &ViewRelocationHandler{deps: deps, provider: provider}
}

// Handle executes the relocation view command.
func (h *ViewRelocationHandler) Handle(ctx context.Context, cmd ViewRelocationCommand) (*ViewRelocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	dataset, err := h.provider.GetDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("view_relocation: %w", err)
	}

	usr, err := h.deps.loadUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("view_relocation: %w", err)
	}

	firstView := usr.MarkRelocationViewed()

	metadata := map[string]string{"source": dataset.Source}

	outcome, err := h.deps.award(ctx, usr, progression.ActionRelocationView,
		[]achievement.Type{achievement.TypeRelocationExplorer}, metadata)
	if err != nil {
		return nil, fmt.Errorf("view_relocation: %w", err)
	}

	return &ViewRelocationResult{
		Dataset:      dataset,
		User:         usr,
		FirstView:    firstView,
		Achievements: outcome.Achievements,
		ViewedAt:     outcome.Event.OccurredAt,
	}, nil
}
