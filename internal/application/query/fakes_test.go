package query

import (
	"context"
	"errors"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/achievement"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// ══════════════════════════════════════════════════════════════════════════════

type stubAchievementRepo struct {
	// records - записи, возвращаемые GetForUser. Отсутствующие в списке
	// типы намеренно не представлены: выдача должна достроить их сама.
	records []*achievement.UserAchievement
}

func (r *stubAchievementRepo) InitForUser(ctx context.Context, userID string) error { return nil }

func (r *stubAchievementRepo) GetForUser(ctx context.Context, userID string) ([]*achievement.UserAchievement, error) {
	return r.records, nil
}

func (r *stubAchievementRepo) Get(ctx context.Context, userID string, t achievement.Type) (*achievement.UserAchievement, error) {
	for _, rec := range r.records {
		if rec.Type == t {
			return rec, nil
		}
	}
	return nil, achievement.ErrNotFound
}

func (r *stubAchievementRepo) TryUnlock(ctx context.Context, userID string, t achievement.Type) (bool, error) {
	return false, nil
}

func (r *stubAchievementRepo) CountUnlocked(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, rec := range r.records {
		if rec.Unlocked {
			n++
		}
	}
	return n, nil
}

type stubUserRepo struct {
	users map[string]*user.User
	gets  int
}

func newStubUserRepo(users ...*user.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	r.gets++
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	r.gets++
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (r *stubUserRepo) GetAll(ctx context.Context, opts user.ListOptions) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUserRepo) Count(ctx context.Context) (int, error) { return len(r.users), nil }

func (r *stubUserRepo) GetTopByScore(ctx context.Context, limit int) ([]*user.User, error) {
	return r.GetAll(ctx, user.DefaultListOptions())
}

func (r *stubUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username user.Username) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

// stubUserCache - кеш профилей в памяти без TTL.
type stubUserCache struct {
	byID   map[string]*user.User
	byName map[user.Username]*user.User
	sets   int
}

func newStubUserCache() *stubUserCache {
	return &stubUserCache{
		byID:   make(map[string]*user.User),
		byName: make(map[user.Username]*user.User),
	}
}

var errCacheMiss = errors.New("cache miss")

func (c *stubUserCache) Get(ctx context.Context, userID string) (*user.User, error) {
	if u, ok := c.byID[userID]; ok {
		return u, nil
	}
	return nil, errCacheMiss
}

func (c *stubUserCache) Set(ctx context.Context, u *user.User, ttl time.Duration) error {
	c.byID[u.ID] = u
	c.sets++
	return nil
}

func (c *stubUserCache) Delete(ctx context.Context, userID string) error {
	delete(c.byID, userID)
	return nil
}

func (c *stubUserCache) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	if u, ok := c.byName[username]; ok {
		return u, nil
	}
	return nil, errCacheMiss
}

func (c *stubUserCache) SetByUsername(ctx context.Context, u *user.User, ttl time.Duration) error {
	c.byName[u.Username] = u
	return nil
}

func (c *stubUserCache) Invalidate(ctx context.Context, userID string) error {
	if u, ok := c.byID[userID]; ok {
		delete(c.byName, u.Username)
	}
	delete(c.byID, userID)
	return nil
}
