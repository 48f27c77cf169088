package ws

import (
	"context"
	"sync"

	"hireflow_backend/internal/logger"
)

// Hub держит открытые соединения пользователей и раздает им in-app уведомления.
// У одного пользователя может быть несколько вкладок, поэтому клиенты группируются по userID.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			logger.Debug("ws client connected", "user_id", client.UserID)

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	logger.Debug("ws client disconnected", "user_id", client.UserID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

// PushToUser кладет payload в очередь каждого соединения пользователя.
// Возвращает false, если ни одно соединение не приняло сообщение.
func (h *Hub) PushToUser(userID string, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
			delivered = true
		default:
			// медленный клиент: сообщение остается в БД и будет видно в списке уведомлений
			logger.Warn("ws client buffer full, dropping push", "user_id", userID)
		}
	}
	return delivered
}

// ConnectedUsers - число пользователей хотя бы с одним соединением
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsConnected проверяет, есть ли у пользователя открытое соединение
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
