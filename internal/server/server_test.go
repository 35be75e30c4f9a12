package server

import (
	"bytes"
	"net"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0")
	go func() { _ = s.Start() }()
	require.Eventually(t, func() bool { return s.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(s.Stop)
	return s
}

// testClient is a raw TCP client that records everything the server
// sends.
type testClient struct {
	conn net.Conn

	mu  sync.Mutex
	buf bytes.Buffer
}

func dialTest(t *testing.T, s *Server) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	c := &testClient{conn: conn}
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		b := make([]byte, 4096)
		for {
			n, err := conn.Read(b)
			if n > 0 {
				c.mu.Lock()
				c.buf.Write(b[:n])
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func (c *testClient) send(t *testing.T, s string) {
	t.Helper()
	_, err := c.conn.Write([]byte(s))
	require.NoError(t, err)
}

func (c *testClient) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *testClient) waitFor(t *testing.T, substr string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(c.output(), substr)
	}, 5*time.Second, 10*time.Millisecond, "waiting for %q", substr)
}

var roomCodeRe = regexp.MustCompile(`ROOM ([A-Z0-9]{4})`)

func (c *testClient) roomCode(t *testing.T) string {
	t.Helper()
	var code string
	require.Eventually(t, func() bool {
		m := roomCodeRe.FindStringSubmatch(c.output())
		if m == nil {
			return false
		}
		code = m[1]
		return true
	}, 5*time.Second, 10*time.Millisecond, "waiting for ROOM reply")
	return code
}

func TestEndToEndCreateJoinAndPlay(t *testing.T) {
	s := startTestServer(t)

	a := dialTest(t, s)
	a.send(t, "CREATE\n")
	code := a.roomCode(t)
	assert.Equal(t, 1, s.Registry().Count())

	b := dialTest(t, s)
	b.send(t, "JOIN "+code+"\n")
	b.waitFor(t, "JOIN_OK")

	// Both clients receive a board broadcast with both player symbols.
	a.waitFor(t, "Player 1 (1) Health: 10.0 Bullets: 25")
	a.waitFor(t, "Player 2 (2) Health: 10.0 Bullets: 25")
	b.waitFor(t, "Player 1 (1)")
	b.waitFor(t, "Player 2 (2)")
	b.waitFor(t, "Room Code: "+code)

	// Step A off the shared column so its shots miss B, then empty the
	// magazine. The 26th shot is a no-op.
	for i := 0; i < 5; i++ {
		a.send(t, "a")
	}
	for i := 0; i < 26; i++ {
		a.send(t, " ")
	}

	a.waitFor(t, "Player 1 (1) Health: 10.0 Bullets: 0")
	assert.NotContains(t, a.output(), "Bullets: -1")
	assert.NotContains(t, a.output(), "GAME_OVER")
}

func TestEndToEndGameOver(t *testing.T) {
	s := startTestServer(t)

	a := dialTest(t, s)
	a.send(t, "CREATE\n")
	code := a.roomCode(t)

	b := dialTest(t, s)
	b.send(t, "JOIN "+code+"\n")
	b.waitFor(t, "JOIN_OK")
	a.waitFor(t, "Player 2 (2)")

	// B fires from the bottom row; each bullet climbs to A on row 1 and
	// costs 1.0 health. Ten hits end the match.
	for i := 0; i < 10; i++ {
		b.send(t, " ")
		time.Sleep(30 * time.Millisecond)
	}

	a.waitFor(t, "GAME_OVER Player 1 died - Player 2 wins")
	b.waitFor(t, "GAME_OVER Player 1 died - Player 2 wins")

	// All further commands are no-ops: no board changes follow the
	// final broadcast.
	b.send(t, " ")
	b.send(t, "a")
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, strings.Count(b.output(), "GAME_OVER"))
}

func TestJoinUnknownRoom(t *testing.T) {
	s := startTestServer(t)

	c := dialTest(t, s)
	c.send(t, "JOIN ZZZZ\n")
	c.waitFor(t, "JOIN_FAIL")
	assert.Equal(t, 0, s.Registry().Count())
}

func TestJoinFullRoom(t *testing.T) {
	s := startTestServer(t)

	a := dialTest(t, s)
	a.send(t, "CREATE\n")
	code := a.roomCode(t)

	b := dialTest(t, s)
	b.send(t, "JOIN "+code+"\n")
	b.waitFor(t, "JOIN_OK")

	c := dialTest(t, s)
	c.send(t, "JOIN "+code+"\n")
	c.waitFor(t, "JOIN_FAIL")
}

func TestMalformedHandshake(t *testing.T) {
	s := startTestServer(t)

	c := dialTest(t, s)
	c.send(t, "HELLO WORLD\n")
	c.waitFor(t, "JOIN_FAIL")
}

func TestStopUnblocksHandshakePhaseConnection(t *testing.T) {
	s := startTestServer(t)

	// Dial but never send the handshake line: the connection belongs to
	// no room, so Stop itself must close it.
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while a connection sat in the handshake")
	}

	// The silent client observes its socket being closed.
	one := make([]byte, 1)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = conn.Read(one)
	require.Error(t, err)
}

func TestRoomRemovedWhenAllDisconnect(t *testing.T) {
	s := startTestServer(t)

	a := dialTest(t, s)
	a.send(t, "CREATE\n")
	a.roomCode(t)

	require.Eventually(t, func() bool { return s.Registry().Count() == 1 },
		2*time.Second, 10*time.Millisecond)

	_ = a.conn.Close()
	require.Eventually(t, func() bool { return s.Registry().Count() == 0 },
		2*time.Second, 10*time.Millisecond, "room must be removed once its last member disconnects")
}
