package command

import (
	"context"
	"sync"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// Разделяются всеми тестами пакета command.
// ══════════════════════════════════════════════════════════════════════════════

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*user.User
	updates int
	// createErr, когда установлен, возвращается следующим Create.
	createErr error
	// createHook, когда установлен, выполняется вместо следующего Create.
	// Позволяет воспроизводить гонки вставки.
	createHook func(r *memUserRepo) error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*user.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createHook != nil {
		hook := r.createHook
		r.createHook = nil
		return hook(r)
	}
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return user.ErrUserAlreadyExists
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.byID[u.ID] = u
	r.updates++
	return nil
}

func (r *memUserRepo) GetAll(ctx context.Context, opts user.ListOptions) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*user.User
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *memUserRepo) GetTopByScore(ctx context.Context, limit int) ([]*user.User, error) {
	return r.GetAll(ctx, user.DefaultListOptions())
}

func (r *memUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username user.Username) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type memAchievementRepo struct {
	mu       sync.Mutex
	seeded   []string
	unlocked map[achievement.Type]bool
}

func newMemAchievementRepo() *memAchievementRepo {
	return &memAchievementRepo{unlocked: make(map[achievement.Type]bool)}
}

func (r *memAchievementRepo) InitForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seeded = append(r.seeded, userID)
	return nil
}

func (r *memAchievementRepo) GetForUser(ctx context.Context, userID string) ([]*achievement.UserAchievement, error) {
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

func (r *memAchievementRepo) Get(ctx context.Context, userID string, t achievement.Type) (*achievement.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &achievement.UserAchievement{UserID: userID, Type: t, Unlocked: r.unlocked[t]}, nil
}

func (r *memAchievementRepo) TryUnlock(ctx context.Context, userID string, t achievement.Type) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unlocked[t] {
		return false, nil
	}
	r.unlocked[t] = true
	return true, nil
}

func (r *memAchievementRepo) CountUnlocked(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unlocked), nil
}

type memLedger struct {
	mu     sync.Mutex
	events []*progression.Event
}

func (l *memLedger) Append(ctx context.Context, event *progression.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *memLedger) GetRecent(ctx context.Context, userID string, limit int) ([]*progression.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*progression.Event(nil), l.events...), nil
}

func (l *memLedger) GetByRange(ctx context.Context, userID string, from, to time.Time) ([]*progression.Event, error) {
	return l.GetRecent(ctx, userID, 0)
}

func (l *memLedger) SumPoints(ctx context.Context, userID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := 0
	for _, e := range l.events {
		sum += e.Points
	}
	return sum, nil
}

func (l *memLedger) CountByAction(ctx context.Context, userID string, action progression.Action) (int, error) {
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

// lastEvent возвращает последнюю запись журнала или nil.
func (l *memLedger) lastEvent() *progression.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.events) == 0 {
		return nil
	}
	return l.events[len(l.events)-1]
}

type memSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemSessionManager() *memSessionManager {
	return &memSessionManager{sessions: make(map[string]*session.Session)}
}

func (m *memSessionManager) Start(ctx context.Context, userID, username string) (*session.Session, error) {
	sess, err := session.NewSession(userID, username)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.Token] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *memSessionManager) Resolve(ctx context.Context, token string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok || !sess.IsActive() {
		return nil, session.ErrSessionNotFound
	}
	return sess, nil
}

func (m *memSessionManager) Invalidate(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[token]; ok {
		sess.Invalidate()
	}
	return nil
}

type memPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *memPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *memPublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type testDeps struct {
	userRepo *memUserRepo
	achRepo  *memAchievementRepo
	ledger   *memLedger
	pub      *memPublisher
	deps     ProgressionDeps
}

func newTestDeps() *testDeps {
	userRepo := newMemUserRepo()
	achRepo := newMemAchievementRepo()
	ledger := &memLedger{}
	pub := &memPublisher{}

	flow := saga.NewAchievementFlowSaga(achRepo, ledger, pub, saga.DefaultAchievementFlowConfig())

	return &testDeps{
		userRepo: userRepo,
		achRepo:  achRepo,
		ledger:   ledger,
		pub:      pub,
		deps: ProgressionDeps{
			UserRepo:        userRepo,
			Ledger:          ledger,
			AchievementFlow: flow,
			EventPublisher:  pub,
		},
	}
}

// seedUser регистрирует пользователя напрямую в фейковом репозитории.
func (d *testDeps) seedUser(ctx context.Context, id, username string) *user.User {
	usr, err := user.NewUser(user.NewUserParams{
		ID:           id,
		Username:     user.Username(username),
		PasswordHash: "stub",
	})
	if err != nil {
		panic(err)
	}
	if err := d.userRepo.Create(ctx, usr); err != nil {
		panic(err)
	}
	return usr
}
