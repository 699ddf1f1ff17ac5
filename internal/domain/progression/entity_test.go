package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointSchedule(t *testing.T) {
	cases := map[Action]int{
		ActionTaskCreated:         5,
		ActionTaskCompleted:       20,
		ActionTasksImported:       15,
		ActionJobApplication:      15,
		ActionSavingsUpdate:       10,
		ActionRefreshJobs:         5,
		ActionTerminalCommand:     2,
		ActionEasterEgg:           10,
		ActionKonamiCode:          50,
		ActionPongHighScore:       15,
		ActionRelocationView:      0,
		ActionAchievementUnlocked: 50,
	}

	for action, points := range cases {
		assert.Equal(t, points, PointsFor(action), "action=%s", action)
		assert.True(t, action.IsValid())
	}
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("evt-1", "user-1", ActionTaskCompleted)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, 20, ev.Points)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestNewEvent_ZeroPointAction(t *testing.T) {
	// relocation_view стоит 0 очков, но всё равно попадает в журнал.
	ev, err := NewEvent("evt-1", "user-1", ActionRelocationView)
	require.NoError(t, err)
	assert.Equal(t, 0, ev.Points)
}

func TestNewEvent_Validation(t *testing.T) {
	_, err := NewEvent("evt-1", "", ActionTaskCompleted)
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewEvent("evt-1", "user-1", Action("made_up"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestEvent_WithMetadata(t *testing.T) {
	ev, err := NewEvent("evt-1", "user-1", ActionJobApplication)
	require.NoError(t, err)

	ev.WithMetadata("job_title", "Go Developer").WithMetadata("company", "Acme")

	assert.Equal(t, "Go Developer", ev.Metadata["job_title"])
	assert.Equal(t, "Acme", ev.Metadata["company"])
}
