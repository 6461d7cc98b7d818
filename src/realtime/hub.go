// Package realtime pushes performance updates to websocket subscribers, grouped by owner.
package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	MessageTypeSummary = "summary"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SnapshotFunc returns the payload sent to a subscriber right after it connects.
type SnapshotFunc func(ctx context.Context, ownerID string) (interface{}, error)

type subscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *subscriber) write(msg Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *subscriber) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub is safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	upgrader    websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Hub) add(ownerID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[ownerID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subscribers[ownerID] = set
	}
	set[s] = struct{}{}
}

func (h *Hub) remove(ownerID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subscribers[ownerID]
	delete(set, s)
	if len(set) == 0 {
		delete(h.subscribers, ownerID)
	}
}

// Subscribers returns how many live connections the owner has.
func (h *Hub) Subscribers(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[ownerID])
}

// Publish sends msg to every subscriber of ownerID and returns how many received it.
// Subscribers that fail to receive are dropped.
func (h *Hub) Publish(ownerID string, msg Message) int {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subscribers[ownerID]))
	for s := range h.subscribers[ownerID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.write(msg); err != nil {
			logger.WithError(err).WithField("owner_id", ownerID).Warn("dropping websocket subscriber")
			h.remove(ownerID, s)
			_ = s.conn.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Handler upgrades an authenticated request and keeps the connection subscribed
// until the client goes away. Client messages are ignored.
func (h *Hub) Handler(snapshot SnapshotFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Warn("websocket upgrade failed")
			return
		}

		s := &subscriber{conn: conn}
		h.add(user.ID, s)
		defer func() {
			h.remove(user.ID, s)
			_ = conn.Close()
		}()

		log := logger.WithField("user_id", user.ID)
		log.Debug("websocket subscriber connected")

		if snapshot != nil {
			data, err := snapshot(r.Context(), user.ID)
			if err != nil {
				log.WithError(err).Error("failed to build initial snapshot")
				return
			}
			if err := s.write(Message{Type: MessageTypeSummary, Data: data}); err != nil {
				log.WithError(err).Warn("failed to send initial snapshot")
				return
			}
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if err := s.ping(); err != nil {
						return
					}
				}
			}
		}()

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Debug("websocket subscriber disconnected")
				return
			}
		}
	}
}
