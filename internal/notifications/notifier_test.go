package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishUser(context.Background(), 1, []byte("x")))
	assert.NoError(t, n.PublishBroadcast(context.Background(), []byte("x")))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))
}

func TestHub_StartWiringForwardsRedisMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	n := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, n))

	require.NoError(t, n.PublishBroadcast(ctx, []byte("everyone")))
	require.NoError(t, n.PublishUser(ctx, 2, []byte("just-b")))

	select {
	case msg := <-a.Send:
		assert.Equal(t, "everyone", string(msg))
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered to client a")
	}

	var got []string
	deadline := time.After(time.Second)
	for len(got) < 2 {
		select {
		case msg := <-b.Send:
			got = append(got, string(msg))
		case <-deadline:
			t.Fatalf("expected two messages for client b, got %v", got)
		}
	}
	assert.ElementsMatch(t, []string{"everyone", "just-b"}, got)
	assert.Len(t, a.Send, 0)
}
