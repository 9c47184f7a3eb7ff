package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub keeps track of the open booking sessions
type Hub struct {
	sessions   map[*Session]bool
	register   chan *Session
	unregister chan *Session
	shutdown   chan struct{}
	stopped    chan struct{}
	once       sync.Once
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates a new Hub. Call Run to start it.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		shutdown:   make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop. It returns after Close.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session] = true
			total := len(h.sessions)
			h.mu.Unlock()
			h.logger.Info("WebSocket session opened",
				zap.String("sessionId", session.id),
				zap.Int("total", total))

		case session := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.sessions[session]; ok {
				delete(h.sessions, session)
				session.close()
			}
			remaining := len(h.sessions)
			h.mu.Unlock()
			h.logger.Info("WebSocket session closed",
				zap.String("sessionId", session.id),
				zap.Int("remaining", remaining))

		case <-h.shutdown:
			h.mu.Lock()
			for session := range h.sessions {
				delete(h.sessions, session)
				session.close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// Close disconnects every session and stops Run
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.shutdown)
	})
	<-h.stopped
}

// SessionCount returns the number of open sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) add(s *Session) bool {
	select {
	case h.register <- s:
		return true
	case <-h.shutdown:
		return false
	}
}

func (h *Hub) remove(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.shutdown:
	}
}
