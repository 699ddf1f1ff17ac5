// Package memory implements the in-process fast tier of the session
// engine: a sharded concurrent map keyed by session token. Sharding
// keeps lock contention low; each shard has its own RWMutex and every
// operation touches exactly one shard, so the locking discipline is
// strictly per key.
package memory

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
)

// shardCount is the number of map shards. Power of two, so the shard
// index is a cheap mask over the token hash.
const shardCount = 32

// SessionCache implements session.FastCache.
type SessionCache struct {
	shards [shardCount]sessionShard
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionCache creates an empty session cache.
func NewSessionCache() *SessionCache {
	c := &SessionCache{}
	for i := range c.shards {
		c.shards[i].sessions = make(map[string]*session.Session)
	}
	return c
}

// shardFor picks the shard owning a token.
func (c *SessionCache) shardFor(token string) *sessionShard {
	h := fnv.New32a()
	h.Write([]byte(token))
	return &c.shards[h.Sum32()&(shardCount-1)]
}

// Get returns a copy of the cached session. Returning a copy keeps
// callers from mutating shared state outside the shard lock.
func (c *SessionCache) Get(token string) (*session.Session, bool) {
	if token == "" {
		return nil, false
	}

	shard := c.shardFor(token)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	sess, ok := shard.sessions[token]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Put stores a session. The cache keeps its own copy.
func (c *SessionCache) Put(sess *session.Session) {
	if sess == nil || sess.Token == "" {
		return
	}

	shard := c.shardFor(sess.Token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.sessions[sess.Token] = sess.Clone()
}

// TouchUsed updates the last-used timestamp of a cached session.
// A miss is a no-op; the durable tier is the source of truth.
func (c *SessionCache) TouchUsed(token string) {
	shard := c.shardFor(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if sess, ok := shard.sessions[token]; ok {
		sess.LastUsedAt = time.Now().UTC()
	}
}

// Evict removes a session from the cache. Idempotent.
func (c *SessionCache) Evict(token string) {
	shard := c.shardFor(token)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.sessions, token)
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	total := 0
	for i := range c.shards {
		c.shards[i].mu.RLock()
		total += len(c.shards[i].sessions)
		c.shards[i].mu.RUnlock()
	}
	return total
}
