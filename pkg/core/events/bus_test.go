package events

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(false)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	completed := NewScheduleEvent(EventScheduleCompleted, "run-1")
	completed.Order = []string{"C", "A"}
	require.NoError(t, bus.Publish(ctx, completed))

	stuck := NewScheduleEvent(EventScheduleStuck, "run-2")
	stuck.Stuck = []string{"A", "B"}
	require.NoError(t, bus.Publish(ctx, stuck))

	received := make(map[EventType]*ScheduleEvent)
	for len(received) < 2 {
		select {
		case ev := <-ch:
			received[ev.Type] = ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	assert.Equal(t, "run-1", received[EventScheduleCompleted].RunID)
	assert.Equal(t, []string{"C", "A"}, received[EventScheduleCompleted].Order)
	assert.Equal(t, []string{"A", "B"}, received[EventScheduleStuck].Stuck)
	assert.Equal(t, stuck.ID, received[EventScheduleStuck].ID)
}

func TestBus_SubscribeSingleType(t *testing.T) {
	bus := NewBus(false)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, EventScheduleStuck)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewScheduleEvent(EventScheduleCompleted, "ignored")))
	require.NoError(t, bus.Publish(ctx, NewScheduleEvent(EventScheduleStuck, "wanted")))

	select {
	case ev := <-ch:
		assert.Equal(t, "wanted", ev.RunID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_ChannelClosedOnCancel(t *testing.T) {
	bus := NewBus(false)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewBus_LoggerFollowsDebug(t *testing.T) {
	quiet := NewBus(false)
	defer quiet.Close()
	assert.IsType(t, watermill.NopLogger{}, quiet.logger)

	verbose := NewBus(true)
	defer verbose.Close()
	_, isNop := verbose.logger.(watermill.NopLogger)
	assert.False(t, isNop)
}
