package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkucode2025/wedemo2025-sub001/internal/logger"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return WSMessage{}
	}
}

func TestHub_BroadcastReachesOnlyTheChat(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("alice", "chat_alice_bob", nil, hub)
	bob := NewClient("bob", "chat_alice_bob", nil, hub)
	carol := NewClient("carol", "chat_bob_carol", nil, hub)
	for _, c := range []*Client{alice, bob, carol} {
		require.True(t, hub.Register(c))
	}

	hub.Broadcast("chat_alice_bob", MessageCreated(models.Message{ID: 1, ChatID: "chat_alice_bob", SenderID: "alice", Content: "hi"}))

	for _, c := range []*Client{alice, bob} {
		msg := receive(t, c)
		assert.Equal(t, EventMessageCreated, msg.Type)
		payload := msg.Payload.(map[string]interface{})
		assert.Equal(t, "hi", payload["content"])
	}

	assert.Eventually(t, func() bool { return hub.SubscriberCount("chat_alice_bob") == 2 }, time.Second, 10*time.Millisecond)
	assert.Len(t, carol.Send, 0)
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("alice", "chat_alice_bob", nil, hub)
	require.True(t, hub.Register(alice))
	hub.Unregister(alice)

	_, ok := <-alice.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("chat_alice_bob"))
	assert.Equal(t, 0, hub.ChatCount())

	// a second unregister is a no-op
	hub.Unregister(alice)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)

	slow := NewClient("alice", "chat_alice_bob", nil, hub)
	slow.Send = make(chan []byte, 1)
	require.True(t, hub.Register(slow))

	hub.Broadcast("chat_alice_bob", MessageCreated(models.Message{ID: 1}))
	hub.Broadcast("chat_alice_bob", MessageCreated(models.Message{ID: 2}))

	assert.Eventually(t, func() bool { return hub.SubscriberCount("chat_alice_bob") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	alice := NewClient("alice", "chat_alice_bob", nil, hub)
	require.True(t, hub.Register(alice))

	cancel()
	<-hub.done

	_, ok := <-alice.Send
	assert.False(t, ok)
	assert.False(t, hub.Register(NewClient("bob", "chat_alice_bob", nil, hub)))
	hub.Broadcast("chat_alice_bob", MessageCreated(models.Message{}))
	hub.Unregister(alice)
}

type fakeConn struct {
	mu      sync.Mutex
	inbox   chan []byte
	written [][]byte
	closed  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 8)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-f.inbox
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestClient_RelaysTypingToOtherParticipant(t *testing.T) {
	hub := startHub(t)

	conn := newFakeConn()
	alice := NewClient("alice", "chat_alice_bob", conn, hub)
	bob := NewClient("bob", "chat_alice_bob", nil, hub)
	require.True(t, hub.Register(alice))
	require.True(t, hub.Register(bob))

	done := make(chan struct{})
	go func() {
		alice.ReadPump()
		close(done)
	}()

	conn.inbox <- []byte(`not json`)
	conn.inbox <- []byte(`{"type":"typing_start"}`)

	msg := receive(t, bob)
	assert.Equal(t, EventTypingStart, msg.Type)
	payload := msg.Payload.(map[string]interface{})
	assert.Equal(t, "alice", payload["userId"])
	assert.Len(t, alice.Send, 0)

	close(conn.inbox)
	<-done
	assert.True(t, conn.closed)
	assert.Eventually(t, func() bool { return hub.SubscriberCount("chat_alice_bob") == 1 }, time.Second, 10*time.Millisecond)
}

func TestClient_WritePumpClosesWithSendChannel(t *testing.T) {
	hub := startHub(t)
	conn := newFakeConn()
	alice := NewClient("alice", "chat_alice_bob", conn, hub)
	require.True(t, hub.Register(alice))

	done := make(chan struct{})
	go func() {
		alice.WritePump()
		close(done)
	}()

	hub.Broadcast("chat_alice_bob", MessageCreated(models.Message{ID: 7, Content: "queued"}))
	assert.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return len(conn.written) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(alice)
	<-done

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.True(t, conn.closed)
	assert.Len(t, conn.written, 2)
}
