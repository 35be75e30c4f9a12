package server

import (
	"sync"
	"time"

	"shootclub/internal/game"
	"shootclub/internal/network"
	"shootclub/pkg/logger"
)

// RoomState is the lifecycle phase of a room.
type RoomState int

const (
	// WaitingForPlayers accepts joins until both slots are filled.
	WaitingForPlayers RoomState = iota
	// InProgress means the simulation tick is running.
	InProgress
	// GameOver means the match ended; the final broadcast has been sent.
	GameOver
	// Closed means the room has been torn down.
	Closed
)

func (s RoomState) String() string {
	switch s {
	case WaitingForPlayers:
		return "waiting_for_players"
	case InProgress:
		return "in_progress"
	case GameOver:
		return "game_over"
	default:
		return "closed"
	}
}

type member struct {
	conn     *playerConn
	playerID int
}

// Room owns one match: its game state, simulation engine, member
// connections and tick goroutine. All state mutation happens under one
// mutex. Outbound frames are enqueued under the same mutex, in render
// order; per-connection write pumps drain the queues, so a slow socket
// never blocks the simulation or the other player's commands.
type Room struct {
	code         string
	tickInterval time.Duration
	onEmpty      func(code string)
	logger       *logger.Logger

	mu      sync.Mutex
	state   RoomState
	game    *game.State
	engine  *game.Engine
	members map[string]*member

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRoom creates a room in the waiting state. The seed drives power-up
// randomness; onEmpty is called (with no room lock held) once the last
// member disconnects.
func NewRoom(code string, tickInterval time.Duration, seed int64, onEmpty func(string)) *Room {
	st := game.NewState(code)
	return &Room{
		code:         code,
		tickInterval: tickInterval,
		onEmpty:      onEmpty,
		logger:       logger.Server,
		state:        WaitingForPlayers,
		game:         st,
		engine:       game.NewEngine(st, seed),
		members:      make(map[string]*member),
		stop:         make(chan struct{}),
	}
}

// Code returns the room's join code.
func (r *Room) Code() string { return r.code }

// State returns the current lifecycle phase.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot renders the current board under the room lock.
func (r *Room) Snapshot() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Render()
}

// AddConn seats a connection as the next player. The room takes
// ownership of the connection: it starts the write pump and closes the
// socket on teardown. The second join starts the simulation.
func (r *Room) AddConn(pc *playerConn) (int, error) {
	r.mu.Lock()
	switch r.state {
	case GameOver, Closed:
		r.mu.Unlock()
		return 0, ErrRoomClosed
	case InProgress:
		r.mu.Unlock()
		return 0, ErrRoomFull
	}
	p, err := r.game.AddPlayer()
	if err != nil {
		r.mu.Unlock()
		return 0, ErrRoomFull
	}
	r.members[pc.ID()] = &member{conn: pc, playerID: p.ID}
	start := r.game.PlayerCount() == game.MaxPlayers
	if start {
		r.state = InProgress
	}
	r.broadcastLocked(r.game.Render())
	r.mu.Unlock()

	go pc.writePump()
	if start {
		go r.tickLoop()
		r.logger.Info("Room %s full, match started", r.code)
	}
	r.logger.Info("Player %d joined room %s", p.ID, r.code)
	return p.ID, nil
}

// HandleInput applies one raw command byte from a member connection.
// Accepted commands trigger an immediate broadcast on top of the
// tick-driven ones. Unknown bytes and unknown connections are ignored.
func (r *Room) HandleInput(connID string, b byte) {
	cmd := game.CommandFromByte(b)
	if cmd == game.CommandNone {
		return
	}

	r.mu.Lock()
	m, ok := r.members[connID]
	if !ok || (r.state != WaitingForPlayers && r.state != InProgress) {
		r.mu.Unlock()
		return
	}
	if r.game.ApplyCommand(m.playerID, cmd) {
		r.broadcastLocked(r.game.Render())
	}
	r.mu.Unlock()
}

// RemoveConn deregisters a connection, freeing its player slot. A
// disconnect mid-match forfeits to the remaining player; the last
// member leaving closes the room.
func (r *Room) RemoveConn(connID string) {
	r.mu.Lock()
	m, ok := r.members[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.members, connID)
	r.game.RemovePlayer(m.playerID)

	forfeited := r.state == InProgress
	if forfeited {
		r.state = GameOver
		r.game.Forfeit(m.playerID)
		msg := network.GameOverMessage(r.game.LoserID(), r.game.WinnerID())
		r.broadcastLocked(msg + "\n")
	}
	empty := len(r.members) == 0
	if empty {
		r.state = Closed
	}
	r.mu.Unlock()

	m.conn.Close()
	r.logger.Info("Player %d left room %s", m.playerID, r.code)
	if forfeited {
		r.signalStop()
	}
	if empty {
		r.signalStop()
		if r.onEmpty != nil {
			r.onEmpty(r.code)
		}
	}
}

// Shutdown tears the room down: stops the tick goroutine and closes
// every member connection, which unblocks their readers. Idempotent.
func (r *Room) Shutdown() {
	r.mu.Lock()
	if r.state == Closed {
		r.mu.Unlock()
		return
	}
	r.state = Closed
	conns := make([]*playerConn, 0, len(r.members))
	for _, m := range r.members {
		conns = append(conns, m.conn)
	}
	r.members = make(map[string]*member)
	r.mu.Unlock()

	r.signalStop()
	for _, c := range conns {
		c.Close()
	}
	r.logger.Info("Room %s shut down", r.code)
}

func (r *Room) signalStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// tickLoop drives the simulation at a fixed rate until the match ends
// or the room stops.
func (r *Room) tickLoop() {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			if r.tick(now) {
				return
			}
		}
	}
}

// tick advances the engine once and broadcasts the result. Returns true
// when the loop should stop.
func (r *Room) tick(now time.Time) bool {
	r.mu.Lock()
	if r.state != InProgress {
		done := r.state == GameOver || r.state == Closed
		r.mu.Unlock()
		return done
	}
	over := r.engine.Tick(now)
	r.broadcastLocked(r.game.Render())
	var finalMsg string
	if over {
		r.state = GameOver
		finalMsg = network.GameOverMessage(r.game.LoserID(), r.game.WinnerID())
		r.broadcastLocked(finalMsg + "\n")
	}
	r.mu.Unlock()

	if over {
		r.logger.Info("Room %s game over: %s", r.code, finalMsg)
	}
	return over
}

// broadcastLocked enqueues a message to every member. Caller holds
// r.mu; Enqueue never blocks, so the lock is not held across I/O.
// Delivery is best-effort per connection.
func (r *Room) broadcastLocked(msg string) {
	payload := []byte(msg)
	for _, m := range r.members {
		m.conn.Enqueue(payload)
	}
}
