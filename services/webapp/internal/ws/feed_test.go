package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/search"
)

func TestEnqueueAfterCloseDropsFrame(t *testing.T) {
	c := &conn{
		sessionID: "s-1",
		send:      make(chan []byte, 1),
		logger:    zap.NewNop(),
	}
	c.close()

	// A publish racing the client disconnect must not panic.
	assert.NotPanics(t, func() {
		c.enqueue([]byte(`{"type":"markers","markers":[]}`))
	})
}

func TestEnqueueFullBufferDropsFrame(t *testing.T) {
	c := &conn{
		sessionID: "s-1",
		send:      make(chan []byte, 1),
		logger:    zap.NewNop(),
	}
	c.enqueue([]byte("one"))

	assert.NotPanics(t, func() {
		c.enqueue([]byte("two"))
	})
	assert.Len(t, c.send, 1)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := &conn{
		sessionID: "s-1",
		send:      make(chan []byte, 1),
		logger:    zap.NewNop(),
	}
	assert.NotPanics(t, func() {
		c.close()
		c.close()
	})
}

func TestPublishWithoutConnectionIsNoop(t *testing.T) {
	feed := NewFeed(zap.NewNop())
	assert.NotPanics(t, func() {
		feed.Publish("nobody", []search.Marker{{Title: "x"}})
	})
}

func TestSinkForPublishesToItsSessionOnly(t *testing.T) {
	feed := NewFeed(zap.NewNop())
	c := &conn{
		sessionID: "s-1",
		send:      make(chan []byte, 4),
		logger:    zap.NewNop(),
	}
	feed.mu.Lock()
	feed.conns["s-1"] = c
	feed.mu.Unlock()

	feed.SinkFor("s-1").Replace([]search.Marker{{Title: "x"}})
	feed.SinkFor("s-2").Replace([]search.Marker{{Title: "y"}})

	assert.Len(t, c.send, 1)
}
