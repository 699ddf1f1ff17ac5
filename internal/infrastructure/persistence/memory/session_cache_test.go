package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
)

func newCachedSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.NewSession("user-1", "remote_worker")
	require.NoError(t, err)
	return sess
}

func TestSessionCache_PutGet(t *testing.T) {
	c := NewSessionCache()
	sess := newCachedSession(t)

	c.Put(sess)

	got, ok := c.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, "user-1", got.UserID)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	_, ok = c.Get("")
	assert.False(t, ok)
}

func TestSessionCache_GetReturnsCopy(t *testing.T) {
	c := NewSessionCache()
	sess := newCachedSession(t)
	c.Put(sess)

	got, ok := c.Get(sess.Token)
	require.True(t, ok)

	// Мутация копии не трогает запись в кеше.
	got.Invalidate()

	again, ok := c.Get(sess.Token)
	require.True(t, ok)
	assert.True(t, again.IsActive())
}

func TestSessionCache_Evict(t *testing.T) {
	c := NewSessionCache()
	sess := newCachedSession(t)
	c.Put(sess)

	c.Evict(sess.Token)
	_, ok := c.Get(sess.Token)
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	// Повторное удаление - no-op.
	c.Evict(sess.Token)
}

func TestSessionCache_ConcurrentAccess(t *testing.T) {
	c := NewSessionCache()

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()

			for i := 0; i < perWorker; i++ {
				sess, err := session.NewSession(fmt.Sprintf("user-%d-%d", w, i), "remote_worker")
				assert.NoError(t, err)

				c.Put(sess)
				c.TouchUsed(sess.Token)

				if _, ok := c.Get(sess.Token); !ok {
					t.Errorf("session %s lost after put", sess.Token)
				}
				if i%2 == 0 {
					c.Evict(sess.Token)
				}
			}
		}(w)
	}

	wg.Wait()
	assert.Equal(t, workers*perWorker/2, c.Len())
}
