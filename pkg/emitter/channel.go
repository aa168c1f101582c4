package emitter

import (
	"sync"

	"github.com/0xmhha/change-monitor/pkg/event"
	"github.com/0xmhha/change-monitor/pkg/stats"
)

const defaultChannelCapacity = 256

// Channel delivers messages over a bounded in-process channel. Sends
// never block: when the consumer lags, the message is dropped and the
// emit call reports ErrChannelFull.
type Channel struct {
	mu     sync.Mutex
	msgs   chan Message
	closed bool
}

// NewChannel creates a channel emitter with the given capacity. A
// capacity of zero or less falls back to the default.
func NewChannel(capacity int) *Channel {
	if capacity <= 0 {
		capacity = defaultChannelCapacity
	}
	return &Channel{
		msgs: make(chan Message, capacity),
	}
}

// Messages returns the consumer side of the channel. It is closed by
// Close.
func (c *Channel) Messages() <-chan Message {
	return c.msgs
}

// EmitChange implements Emitter.EmitChange.
func (c *Channel) EmitChange(evt event.Event) error {
	return c.send(NewChangeMessage(evt))
}

// EmitError implements Emitter.EmitError.
func (c *Channel) EmitError(msg string) error {
	return c.send(NewErrorMessage(msg))
}

// EmitStats implements Emitter.EmitStats.
func (c *Channel) EmitStats(snap stats.Snapshot) error {
	return c.send(NewStatsMessage(snap))
}

func (c *Channel) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrEmitterClosed
	}

	select {
	case c.msgs <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Close closes the message channel. Close is idempotent; emits after
// Close report ErrEmitterClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.msgs)
}
