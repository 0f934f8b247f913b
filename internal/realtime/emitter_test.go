package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmitUsesLocalHubWhenResident(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{}
	hub.Register(client)
	hub.Join(UserRoom("7"), client)

	var calls int32
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer gateway.Close()

	e := NewEmitter(gateway.URL)
	e.local = func() *Hub { return hub }

	e.ToUser("7", EventNotification, map[string]any{"message": "hello"})

	require.Len(t, client.received(t), 1)
	require.Equal(t, EventNotification, client.received(t)[0].Event)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls), "local delivery must not hit the gateway")
}

func TestEmitFallsBackExactlyOnce(t *testing.T) {
	var calls int32
	var got EmitRequest
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer gateway.Close()

	e := NewEmitter(gateway.URL)
	e.local = func() *Hub { return nil }

	e.ToUser("7", EventNotification, map[string]any{"message": "hello"})

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, "user:7", got.Room)
	require.Equal(t, EventNotification, got.Event)
}

func TestEmitFallbackFailureIsSwallowed(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	gateway.Close() // refuse connections

	e := NewEmitter(gateway.URL)
	e.local = func() *Hub { return nil }

	// Must not panic; the caller never learns about delivery failures
	e.ToChat("42", EventNewMessage, map[string]any{"content": "hi"})
	e.ToEvent("9", EventJoined, nil)
}

// Simulates two instances: the "remote" process hosts the hub behind an
// /emit gateway; the local process has no hub and emits through the facade.
func TestEmitCrossProcessDelivery(t *testing.T) {
	remoteHub := NewHub()
	b := &fakeClient{}
	remoteHub.Register(b)
	remoteHub.Join(UserRoom("7"), b)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		remoteHub.Broadcast(req.Room, req.Event, req.Data)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer gateway.Close()

	e := NewEmitter(gateway.URL)
	e.local = func() *Hub { return nil }

	e.ToUser("7", EventNotification, map[string]any{"message": "you have a new like"})

	require.Eventually(t, func() bool {
		return len(b.received(t)) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, EventNotification, b.received(t)[0].Event)
}

func TestToAllHasNoFallback(t *testing.T) {
	var calls int32
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer gateway.Close()

	e := NewEmitter(gateway.URL)
	e.local = func() *Hub { return nil }

	// With no resident hub this is a silent no-op, not a gateway call
	e.ToAll(EventNotification, nil)
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDefaultEmitterFollowsHandle(t *testing.T) {
	ResetHub()
	defer ResetHub()

	hub := NewHub()
	SetHub(hub)
	client := &fakeClient{}
	hub.Register(client)
	hub.Join(ChatRoom("3"), client)

	prev := Default
	Default = NewEmitter("http://127.0.0.1:0/emit")
	defer func() { Default = prev }()

	ToChat("3", EventNewMessage, map[string]any{"content": "hey"})
	require.Len(t, client.received(t), 1)
}
