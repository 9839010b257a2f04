package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

type broadcast struct {
	chatID  string
	exclude *Client
	data    []byte
}

// Hub keeps the open websocket subscriptions of every chat and fans
// messages out to them. It holds connection bookkeeping only; messages
// are persisted before they are broadcast.
type Hub struct {
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	done       chan struct{}

	log *slog.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case b := <-h.broadcast:
			h.deliver(b)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register subscribes client to its chat. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues msg for every subscriber of chatID.
func (h *Hub) Broadcast(chatID string, msg WSMessage) {
	h.queue(chatID, nil, msg)
}

func (h *Hub) queue(chatID string, exclude *Client, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal websocket message", "chatId", chatID, "error", err)
		return
	}

	select {
	case h.broadcast <- broadcast{chatID: chatID, exclude: exclude, data: data}:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.ChatID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.ChatID] = room
	}
	room[client] = struct{}{}

	h.log.Debug("websocket client subscribed", "userId", client.UserID, "chatId", client.ChatID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(client)
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	room, ok := h.rooms[client.ChatID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.ChatID)
	}

	h.log.Debug("websocket client unsubscribed", "userId", client.UserID, "chatId", client.ChatID)
}

func (h *Hub) deliver(b broadcast) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[b.chatID] {
		if client == b.exclude {
			continue
		}
		select {
		case client.Send <- b.data:
		default:
			h.log.Warn("dropping slow websocket client", "userId", client.UserID, "chatId", b.chatID)
			h.remove(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range h.rooms {
		for client := range room {
			h.remove(client)
		}
	}
}

// SubscriberCount returns the number of open subscriptions to chatID.
func (h *Hub) SubscriberCount(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[chatID])
}

// ChatCount returns the number of chats with at least one subscriber.
func (h *Hub) ChatCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms)
}
