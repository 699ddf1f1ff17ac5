package redis

import (
	"context"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
)

// UserCache implements the user.Cache interface using the generic Redis Cache.
// Profiles are cached under two keys: the primary "user:{id}" key and a
// secondary "user:name:{username}" key for auth lookups.
type UserCache struct {
	cache *Cache
}

// NewUserCache creates a new UserCache.
func NewUserCache(cache *Cache) *UserCache {
	return &UserCache{
		cache: cache,
	}
}

// Get gets a user from cache by ID.
func (u *UserCache) Get(ctx context.Context, userID string) (*user.User, error) {
	var usr user.User
	key := UserKey(userID)
	if err := u.cache.Get(ctx, key, &usr); err != nil {
		return nil, err
	}
	return &usr, nil
}

// Set sets a user in cache by ID.
func (u *UserCache) Set(ctx context.Context, usr *user.User, ttl time.Duration) error {
	if usr == nil {
		return nil
	}
	key := UserKey(usr.ID)
	return u.cache.Set(ctx, key, usr, ttl)
}

// Delete removes the primary user key from cache.
func (u *UserCache) Delete(ctx context.Context, userID string) error {
	return u.cache.Delete(ctx, UserKey(userID))
}

// GetByUsername gets a user from cache by the username secondary key.
func (u *UserCache) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	var usr user.User
	key := UsernameKey(username.String())
	if err := u.cache.Get(ctx, key, &usr); err != nil {
		return nil, err
	}
	return &usr, nil
}

// SetByUsername sets a user in cache under the username secondary key.
func (u *UserCache) SetByUsername(ctx context.Context, usr *user.User, ttl time.Duration) error {
	if usr == nil {
		return nil
	}
	key := UsernameKey(usr.Username.String())
	return u.cache.Set(ctx, key, usr, ttl)
}

// Invalidate removes both keys for a user. The username is needed to clear
// the secondary index, so we read the primary entry first. A miss on the
// primary key means only the username entry could be stale; without the
// name we cannot address it, and it expires on its own TTL.
func (u *UserCache) Invalidate(ctx context.Context, userID string) error {
	keys := []string{UserKey(userID)}
	if usr, err := u.Get(ctx, userID); err == nil {
		keys = append(keys, UsernameKey(usr.Username.String()))
	}
	return u.cache.Delete(ctx, keys...)
}

// InvalidateAll clears the entire user cache.
func (u *UserCache) InvalidateAll(ctx context.Context) error {
	return u.cache.DeleteByPattern(ctx, PrefixUser+"*")
}
