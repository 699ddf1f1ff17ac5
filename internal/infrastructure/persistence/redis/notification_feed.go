package redis

import (
	"context"
	"encoding/json"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/notification"
)

// NotificationFeed implements the notification.Feed interface as a Redis
// list per user. New entries are prepended; the list is trimmed to
// notification.FeedMaxLength and expires after TTLNotificationFeed of
// inactivity.
type NotificationFeed struct {
	cache *Cache
}

// NewNotificationFeed creates a new NotificationFeed.
func NewNotificationFeed(cache *Cache) *NotificationFeed {
	return &NotificationFeed{
		cache: cache,
	}
}

// Push adds a notification to the front of the user's feed and trims the tail.
func (f *NotificationFeed) Push(ctx context.Context, n *notification.Notification) error {
	if n == nil {
		return nil
	}

	key := NotificationKey(n.UserID)
	if err := f.cache.LPush(ctx, key, n); err != nil {
		return err
	}
	if err := f.cache.LTrim(ctx, key, 0, notification.FeedMaxLength-1); err != nil {
		return err
	}
	return f.cache.Expire(ctx, key, TTLNotificationFeed)
}

// Recent returns the most recent notifications, newest first.
func (f *NotificationFeed) Recent(ctx context.Context, userID string, limit int) ([]*notification.Notification, error) {
	if limit <= 0 || limit > notification.FeedMaxLength {
		limit = notification.FeedMaxLength
	}

	raw, err := f.cache.LRange(ctx, NotificationKey(userID), 0, int64(limit-1))
	if err != nil {
		return nil, err
	}

	items := make([]*notification.Notification, 0, len(raw))
	for _, entry := range raw {
		var n notification.Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			// Skip corrupted entries rather than failing the whole feed.
			continue
		}
		items = append(items, &n)
	}

	return items, nil
}

// Clear removes the user's feed.
func (f *NotificationFeed) Clear(ctx context.Context, userID string) error {
	return f.cache.Delete(ctx, NotificationKey(userID))
}
