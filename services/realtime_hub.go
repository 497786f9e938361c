package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient is one websocket subscriber on a puppy's change stream.
type WSClient struct {
	PuppyID uint
	UserID  uint
	Conn    *websocket.Conn

	writeMu sync.Mutex
}

// Write serializes writes; gorilla allows one concurrent writer per conn.
func (c *WSClient) Write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.PuppyID] == nil {
		h.clients[c.PuppyID] = make(map[*WSClient]struct{})
	}
	h.clients[c.PuppyID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.PuppyID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.PuppyID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Subscribers(puppyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[puppyID])
}

// Broadcast sends payload as JSON to every subscriber of the puppy.
func (h *RealtimeHub) Broadcast(puppyID uint, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[puppyID]))
	for c := range h.clients[puppyID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		_ = c.Write(websocket.TextMessage, msg)
	}
}
