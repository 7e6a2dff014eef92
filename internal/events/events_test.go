package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	natssrv "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []ContentChanged
}

func (r *recorder) handle(_ context.Context, ev ContentChanged) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []ContentChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ContentChanged, len(r.events))
	copy(out, r.events)
	return out
}

func TestLocalBus(t *testing.T) {
	bus := NewLocalBus()
	var rec recorder

	unsubscribe, err := bus.Subscribe(rec.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), ContentChanged{Kind: KindPost, ID: "1", Action: ActionCreated}))

	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, KindPost, got[0].Kind)
	assert.False(t, got[0].At.IsZero())

	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), ContentChanged{Kind: KindPost, ID: "2"}))
	assert.Len(t, rec.snapshot(), 1)
}

func TestNATSBus(t *testing.T) {
	url := startEmbeddedNATS(t)

	publisher, err := NewNATSBus(NATSConfig{URL: url, Name: "publisher"})
	require.NoError(t, err)
	t.Cleanup(func() { publisher.Close() })

	subscriber, err := NewNATSBus(NATSConfig{URL: url, Name: "subscriber"})
	require.NoError(t, err)
	t.Cleanup(func() { subscriber.Close() })

	var rec recorder
	_, err = subscriber.Subscribe(rec.handle)
	require.NoError(t, err)
	require.NoError(t, subscriber.Flush())

	ev := ContentChanged{Kind: KindService, ID: "svc-1", Action: ActionUpdated}
	require.NoError(t, publisher.Publish(context.Background(), ev))
	require.NoError(t, publisher.Flush())

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	got := rec.snapshot()[0]
	assert.Equal(t, "svc-1", got.ID)
	assert.Equal(t, ActionUpdated, got.Action)

	assert.NoError(t, publisher.HealthCheck(context.Background()))
}

func startEmbeddedNATS(t *testing.T) string {
	t.Helper()

	srv, err := natssrv.NewServer(&natssrv.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go srv.Start()
	require.True(t, srv.ReadyForConnections(10*time.Second), "nats server did not become ready")

	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	return fmt.Sprintf("nats://%s", srv.Addr().String())
}
