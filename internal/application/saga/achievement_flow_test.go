package saga

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeAchievementRepo struct {
	mu       sync.Mutex
	unlocked map[achievement.Type]bool
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{unlocked: make(map[achievement.Type]bool)}
}

func (r *fakeAchievementRepo) InitForUser(ctx context.Context, userID string) error { return nil }

func (r *fakeAchievementRepo) GetForUser(ctx context.Context, userID string) ([]*achievement.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*achievement.UserAchievement
	for _, def := range achievement.Catalog() {
		out = append(out, &achievement.UserAchievement{
			UserID:   userID,
			Type:     def.Type,
			Unlocked: r.unlocked[def.Type],
		})
	}
	return out, nil
}

func (r *fakeAchievementRepo) Get(ctx context.Context, userID string, t achievement.Type) (*achievement.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &achievement.UserAchievement{UserID: userID, Type: t, Unlocked: r.unlocked[t]}, nil
}

func (r *fakeAchievementRepo) TryUnlock(ctx context.Context, userID string, t achievement.Type) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unlocked[t] {
		return false, nil
	}
	r.unlocked[t] = true
	return true, nil
}

func (r *fakeAchievementRepo) CountUnlocked(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.unlocked {
		if u {
			n++
		}
	}
	return n, nil
}

type fakeLedger struct {
	mu     sync.Mutex
	events []*progression.Event
}

func (l *fakeLedger) Append(ctx context.Context, event *progression.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *fakeLedger) GetRecent(ctx context.Context, userID string, limit int) ([]*progression.Event, error) {
	return nil, nil
}

func (l *fakeLedger) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]*progression.Event, error) {
	return nil, nil
}

func (l *fakeLedger) SumPoints(ctx context.Context, userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := 0
	for _, e := range l.events {
		sum += e.Points
	}
	return sum, nil
}

func (l *fakeLedger) CountByAction(ctx context.Context, userID string, action progression.Action) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.events {
		if e.Action == action {
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func newSagaUnderTest() (*AchievementFlowSaga, *fakeAchievementRepo, *fakeLedger, *fakePublisher) {
	repo := newFakeAchievementRepo()
	ledger := &fakeLedger{}
	pub := &fakePublisher{}
	s := NewAchievementFlowSaga(repo, ledger, pub, DefaultAchievementFlowConfig())
	return s, repo, ledger, pub
}

func TestAchievementFlow_UnlockAwardsBonusOnce(t *testing.T) {
	s, _, ledger, pub := newSagaUnderTest()

	usr := user.NewGuestUser("user-1")
	usr.ApplicationsSubmitted = 1

	result, err := s.Execute(context.Background(), AchievementCheckInput{
		User:          usr,
		Candidates:    []achievement.Type{achievement.TypeFirstJobApply},
		TriggerAction: progression.ActionJobApplication,
	})
	require.NoError(t, err)

	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, achievement.TypeFirstJobApply, result.Unlocked[0].Definition.Type)
	assert.Equal(t, achievement.BonusPoints, result.TotalBonus)

	// Бонус попал в журнал и в память пользователя.
	require.Len(t, ledger.events, 1)
	assert.Equal(t, progression.ActionAchievementUnlocked, ledger.events[0].Action)
	assert.Equal(t, achievement.BonusPoints, ledger.events[0].Points)
	assert.Equal(t, user.Score(achievement.BonusPoints), usr.ProductivityScore)
	assert.Equal(t, 1, usr.AchievementsUnlocked)
	assert.Len(t, pub.events, 1)

	// Повторная проверка того же кандидата не начисляет второй бонус.
	result, err = s.Execute(context.Background(), AchievementCheckInput{
		User:       usr,
		Candidates: []achievement.Type{achievement.TypeFirstJobApply},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Unlocked)
	assert.Len(t, ledger.events, 1)
	assert.Equal(t, user.Score(achievement.BonusPoints), usr.ProductivityScore)
}

func TestAchievementFlow_ThresholdNotMet(t *testing.T) {
	s, _, ledger, _ := newSagaUnderTest()

	usr := user.NewGuestUser("user-1")
	usr.TasksCompleted = achievement.TaskMasterThreshold - 1

	result, err := s.Execute(context.Background(), AchievementCheckInput{
		User:       usr,
		Candidates: []achievement.Type{achievement.TypeTaskMaster},
	})
	require.NoError(t, err)

	assert.False(t, result.HasNewAchievements())
	assert.Empty(t, ledger.events)
}

func TestAchievementFlow_BothSavingsMilestonesAtOnce(t *testing.T) {
	s, _, ledger, _ := newSagaUnderTest()

	usr := user.NewGuestUser("user-1")
	require.NoError(t, usr.SetSavingsGoal(1000))
	require.NoError(t, usr.UpdateSavings(600)) // 60% - обе вехи сразу

	result, err := s.Execute(context.Background(), AchievementCheckInput{
		User: usr,
		Candidates: []achievement.Type{
			achievement.TypeSavingsMilestone25,
			achievement.TypeSavingsMilestone50,
		},
		TriggerAction: progression.ActionSavingsUpdate,
	})
	require.NoError(t, err)

	assert.Len(t, result.Unlocked, 2)
	assert.Equal(t, 2*achievement.BonusPoints, result.TotalBonus)
	assert.Len(t, ledger.events, 2)
	assert.Equal(t, 2, usr.AchievementsUnlocked)
}

func TestAchievementFlow_EmptyCandidatesScanCatalog(t *testing.T) {
	s, _, _, _ := newSagaUnderTest()

	usr := user.NewGuestUser("user-1")
	usr.RelocationViewed = true
	usr.PongHighScore = achievement.PongChampionThreshold

	result, err := s.Execute(context.Background(), AchievementCheckInput{User: usr})
	require.NoError(t, err)

	unlocked := make(map[achievement.Type]bool)
	for _, u := range result.Unlocked {
		unlocked[u.Definition.Type] = true
	}
	assert.True(t, unlocked[achievement.TypeRelocationExplorer])
	assert.True(t, unlocked[achievement.TypePongChampion])
	assert.Len(t, result.Unlocked, 2)
}

func TestAchievementFlow_ConcurrentUnlockWinsOnce(t *testing.T) {
	s, _, ledger, _ := newSagaUnderTest()

	const runners = 8
	var wg sync.WaitGroup
	wg.Add(runners)

	for i := 0; i < runners; i++ {
		go func() {
			defer wg.Done()

			usr := user.NewGuestUser("user-1")
			usr.EasterEggsFound = achievement.EasterHunterThreshold

			_, err := s.Execute(context.Background(), AchievementCheckInput{
				User:       usr,
				Candidates: []achievement.Type{achievement.TypeEasterHunter},
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// CAS выигрывает ровно один из конкурентных прогонов.
	count, err := ledger.CountByAction(context.Background(), "user-1", progression.ActionAchievementUnlocked)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAchievementFlow_InvalidCandidate(t *testing.T) {
	s, _, _, _ := newSagaUnderTest()

	_, err := s.Execute(context.Background(), AchievementCheckInput{
		User:       user.NewGuestUser("user-1"),
		Candidates: []achievement.Type{achievement.Type("made_up")},
	})
	assert.Error(t, err)
}

func TestAchievementFlowBuilder(t *testing.T) {
	_, err := NewAchievementFlowSagaBuilder().Build()
	assert.Error(t, err, "repo and ledger are required")

	s, err := NewAchievementFlowSagaBuilder().
		WithAchievementRepo(newFakeAchievementRepo()).
		WithLedger(&fakeLedger{}).
		Build()
	require.NoError(t, err)
	assert.NotNil(t, s)
}
