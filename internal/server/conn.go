package server

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sendQueueLen bounds the per-connection outbound queue. Snapshots for
// a slow client are dropped rather than stalling the simulation tick.
const sendQueueLen = 64

const writeTimeout = 5 * time.Second

// playerConn wraps a client's TCP connection with an ID and a bounded
// send queue drained by a dedicated write goroutine.
type playerConn struct {
	id   string
	conn net.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newPlayerConn(conn net.Conn) *playerConn {
	return &playerConn{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueLen),
		done: make(chan struct{}),
	}
}

// ID returns the connection's identity within its room.
func (c *playerConn) ID() string { return c.id }

// Enqueue queues data for delivery. Non-blocking: when the queue is
// full the message is dropped, the next snapshot supersedes it anyway.
func (c *playerConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	case <-c.done:
	default:
	}
}

// writePump drains the send queue onto the socket. Runs in its own
// goroutine; exits on close or write failure.
func (c *playerConn) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := c.conn.Write(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close shuts the connection down. Idempotent; also unblocks the
// reader goroutine via the socket close.
func (c *playerConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
