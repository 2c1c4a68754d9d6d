// Package ws pushes map marker updates to connected web clients. Each web
// session holds at most one feed connection; a committed search session
// replaces the client's marker set with one frame.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/search"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 8
)

type markerFrame struct {
	Type    string          `json:"type"`
	Markers []search.Marker `json:"markers"`
}

// Feed tracks marker connections by web session id.
type Feed struct {
	logger *zap.Logger

	mu    sync.RWMutex
	conns map[string]*conn
}

// NewFeed returns an empty feed registry.
func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		logger: logger,
		conns:  make(map[string]*conn),
	}
}

// Attach registers an upgraded connection for the session, replacing any
// previous one, and starts its pumps. The latest marker frame cached for the
// session is not replayed; the client triggers a fresh search on reconnect.
func (f *Feed) Attach(sessionID string, socket *websocket.Conn) {
	c := &conn{
		sessionID: sessionID,
		socket:    socket,
		send:      make(chan []byte, sendBuffer),
		logger:    f.logger,
	}

	f.mu.Lock()
	if prev, ok := f.conns[sessionID]; ok {
		prev.close()
	}
	f.conns[sessionID] = c
	f.mu.Unlock()

	go c.writePump(func() { f.detach(sessionID, c) })
	go c.readPump()

	f.logger.Info("marker feed attached", zap.String("session_id", sessionID))
}

func (f *Feed) detach(sessionID string, c *conn) {
	f.mu.Lock()
	if current, ok := f.conns[sessionID]; ok && current == c {
		delete(f.conns, sessionID)
	}
	f.mu.Unlock()
}

// Publish sends the full marker set to the session's connection, if any.
func (f *Feed) Publish(sessionID string, markers []search.Marker) {
	frame, err := json.Marshal(markerFrame{Type: "markers", Markers: markers})
	if err != nil {
		f.logger.Error("marker frame encode failed", zap.Error(err))
		return
	}

	f.mu.RLock()
	c, ok := f.conns[sessionID]
	f.mu.RUnlock()
	if !ok {
		return
	}
	c.enqueue(frame)
}

// SessionSink adapts the feed to one session's search controller.
type SessionSink struct {
	feed      *Feed
	sessionID string
}

// SinkFor returns a MarkerSink publishing to the given session.
func (f *Feed) SinkFor(sessionID string) *SessionSink {
	return &SessionSink{feed: f, sessionID: sessionID}
}

var _ search.MarkerSink = (*SessionSink)(nil)

// Replace pushes the new marker set, discarding whatever the client had.
func (s *SessionSink) Replace(markers []search.Marker) {
	s.feed.Publish(s.sessionID, markers)
}

type conn struct {
	sessionID string
	socket    *websocket.Conn
	send      chan []byte
	logger    *zap.Logger

	closeOnce sync.Once
}

func (c *conn) enqueue(frame []byte) {
	// The send channel is closed when the client goes away; a publish racing
	// that close must drop the frame, not take down the search commit.
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("marker feed closed, dropping frame",
				zap.String("session_id", c.sessionID))
		}
	}()
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("marker feed buffer full, dropping frame",
			zap.String("session_id", c.sessionID))
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *conn) writePump(onExit func()) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.socket.Close()
		onExit()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains (and ignores) client frames so pongs and close frames are
// processed.
func (c *conn) readPump() {
	c.socket.SetReadLimit(1024)
	_ = c.socket.SetReadDeadline(time.Now().Add(2 * pingInterval))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			c.close()
			return
		}
	}
}

func (c *conn) write(messageType int, payload []byte) error {
	_ = c.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.socket.WriteMessage(messageType, payload)
}
