package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func TestInMemoryEventBus_SubscribePublish(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var received []shared.Event
	err := bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		received = append(received, event)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewPointsAwardedEvent("user-1", "task_completed", 20, 120)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, shared.EventPointsAwarded, received[0].EventType())
	assert.Equal(t, "user-1", received[0].AggregateID())

	// Событие другого типа до подписчика не доходит.
	require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("user-1", 3, 10, true)))
	assert.Len(t, received, 1)
}

func TestInMemoryEventBus_SubscribeAll(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var count int
	require.NoError(t, bus.SubscribeAll(func(event shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	require.NoError(t, bus.Publish(shared.NewStreakUpdatedEvent("user-1", 1, 1, false)))

	assert.Equal(t, 2, count)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var secondCalled bool
	require.NoError(t, bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		secondCalled = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	assert.True(t, secondCalled)
}

func TestInMemoryEventBus_AsyncDelivery(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = true
	cfg.WorkerPoolSize = 4
	bus := NewInMemoryEventBus(cfg)

	var delivered atomic.Int64
	var wg sync.WaitGroup
	wg.Add(10)

	require.NoError(t, bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		defer wg.Done()
		delivered.Add(1)
		return nil
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	}

	wg.Wait()
	require.NoError(t, bus.Close())
	assert.Equal(t, int64(10), delivered.Load())
}

func TestInMemoryEventBus_ClosedBusRejects(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Повторное закрытие - no-op.
	assert.NoError(t, bus.Close())
}

func TestInMemoryEventBus_Metrics(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		return nil
	}))
	require.NoError(t, bus.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalPublished)
	assert.Equal(t, int64(1), snapshot.TotalHandlerExecs)
	assert.Equal(t, 1.0, snapshot.HandlerSuccessRate)
}

func TestBufferedEventBus_FlushOnSize(t *testing.T) {
	inner := newSyncBus()
	defer inner.Close()

	var count int
	require.NoError(t, inner.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		count++
		return nil
	}))

	buffered := NewBufferedEventBus(BufferedEventBusConfig{
		Inner:         inner,
		BufferSize:    3,
		FlushInterval: time.Hour,
	})
	defer buffered.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, buffered.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	}
	assert.Zero(t, count)

	// Третье событие заполняет буфер и триггерит сброс.
	require.NoError(t, buffered.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	assert.Equal(t, 3, count)
}

func TestBufferedEventBus_CloseFlushesRemainder(t *testing.T) {
	inner := newSyncBus()
	defer inner.Close()

	var count int
	require.NoError(t, inner.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
		count++
		return nil
	}))

	buffered := NewBufferedEventBus(BufferedEventBusConfig{
		Inner:         inner,
		BufferSize:    100,
		FlushInterval: time.Hour,
	})

	require.NoError(t, buffered.Publish(shared.NewPointsAwardedEvent("user-1", "task_created", 5, 5)))
	require.NoError(t, buffered.Close())
	assert.Equal(t, 1, count)
}
