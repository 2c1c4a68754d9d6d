// Package hub keeps one SessionStore and one search controller per web
// session. The pair is created lazily on first contact and restored from the
// persisted credential, so a returning browser picks up its session.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Brupez/EletricNET/services/webapp/internal/search"
	"github.com/Brupez/EletricNET/services/webapp/internal/session"
)

// Session bundles the per-web-session state.
type Session struct {
	ID        string
	Store     *session.Store
	Search    *search.Controller
	CreatedAt time.Time
	lastSeen  time.Time
}

// Factory builds the store/controller pair for a new session id.
type Factory func(sessionID string) (*session.Store, *search.Controller)

// Hub is the mutex-guarded session registry.
type Hub struct {
	factory Factory
	maxIdle time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New returns a hub; sessions idle longer than maxIdle are dropped by Sweep.
func New(factory Factory, maxIdle time.Duration) *Hub {
	if maxIdle <= 0 {
		maxIdle = 24 * time.Hour
	}
	return &Hub{
		factory:  factory,
		maxIdle:  maxIdle,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for the given id, creating (and restoring) it if
// unknown. An empty id gets a fresh uuid. The returned session's id is what the
// caller should hand back to the client.
func (h *Hub) Acquire(ctx context.Context, id string) *Session {
	if id != "" {
		h.mu.Lock()
		if s, ok := h.sessions[id]; ok {
			s.lastSeen = time.Now()
			h.mu.Unlock()
			return s
		}
		h.mu.Unlock()
	}

	if id == "" {
		id = uuid.NewString()
	}

	store, controller := h.factory(id)
	s := &Session{
		ID:        id,
		Store:     store,
		Search:    controller,
		CreatedAt: time.Now(),
		lastSeen:  time.Now(),
	}
	// Rehydrate identity from whatever credential survived for this id.
	store.Restore(ctx)

	h.mu.Lock()
	if existing, ok := h.sessions[id]; ok {
		// Lost the race; keep the first one.
		h.mu.Unlock()
		return existing
	}
	h.sessions[id] = s
	h.mu.Unlock()
	return s
}

// Get returns an existing session without creating one.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Remove drops a session from the registry.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Sweep drops sessions idle past the configured window. Run periodically.
func (h *Hub) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-h.maxIdle)
			h.mu.Lock()
			for id, s := range h.sessions {
				if s.lastSeen.Before(cutoff) {
					delete(h.sessions, id)
				}
			}
			h.mu.Unlock()
		}
	}
}
