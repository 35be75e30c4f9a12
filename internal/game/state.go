// Package game implements the authoritative shooter state and simulation.
package game

import (
	"fmt"
	"sort"
	"strings"
)

// State is the authoritative model of one room's match. It is not safe
// for concurrent use; the owning room serializes all access through its
// lock.
type State struct {
	roomCode string
	players  []*Player // kept sorted by ascending ID
	bullets  []Bullet
	powerUps []PowerUp
	gameOver bool
	winnerID int
	loserID  int
}

// NewState creates an empty match state for the given room code.
func NewState(roomCode string) *State {
	return &State{roomCode: roomCode}
}

// RoomCode returns the code of the owning room.
func (s *State) RoomCode() string { return s.roomCode }

// GameOver reports whether the match has ended.
func (s *State) GameOver() bool { return s.gameOver }

// WinnerID returns the winning player's ID, or 0 before game over.
func (s *State) WinnerID() int { return s.winnerID }

// LoserID returns the losing player's ID, or 0 before game over.
func (s *State) LoserID() int { return s.loserID }

// PlayerCount returns the number of seated players.
func (s *State) PlayerCount() int { return len(s.players) }

// AddPlayer seats the next player. Player 1 starts at the top center,
// player 2 at the bottom center.
func (s *State) AddPlayer() (*Player, error) {
	if len(s.players) >= MaxPlayers {
		return nil, fmt.Errorf("room already has %d players", MaxPlayers)
	}

	p := &Player{
		Health:  StartingHealth,
		Bullets: StartingBullets,
	}
	if len(s.players) == 0 {
		p.ID = 1
		p.Symbol = SymbolOne
		p.Pos = Position{Row: 1, Col: BoardCols / 2}
	} else {
		p.ID = 2
		p.Symbol = SymbolTwo
		p.Pos = Position{Row: BoardRows - 2, Col: BoardCols / 2}
	}

	s.players = append(s.players, p)
	sort.Slice(s.players, func(i, j int) bool { return s.players[i].ID < s.players[j].ID })
	return p, nil
}

// RemovePlayer unseats a player and drops their in-flight bullets.
func (s *State) RemovePlayer(id int) {
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	kept := s.bullets[:0]
	for _, b := range s.bullets {
		if b.OwnerID != id {
			kept = append(kept, b)
		}
	}
	s.bullets = kept
}

// PlayerByID returns the seated player with the given ID, or nil.
func (s *State) PlayerByID(id int) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Players returns the seated players in ascending ID order.
func (s *State) Players() []*Player { return s.players }

// Bullets returns the in-flight bullets.
func (s *State) Bullets() []Bullet { return s.bullets }

// PowerUps returns the live power-ups.
func (s *State) PowerUps() []PowerUp { return s.powerUps }

// PlacePowerUp puts a power-up on the board directly, bypassing the
// spawn timer.
func (s *State) PlacePowerUp(pu PowerUp) { s.powerUps = append(s.powerUps, pu) }

// opponentOf returns the other seated player, or nil when playing alone.
func (s *State) opponentOf(id int) *Player {
	for _, p := range s.players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// ApplyCommand applies one player command and reports whether the state
// changed. Commands for unknown or dead players, moves that would leave
// the interior, and shots with no bullets left are all no-ops.
func (s *State) ApplyCommand(playerID int, cmd Command) bool {
	if s.gameOver {
		return false
	}
	p := s.PlayerByID(playerID)
	if p == nil || !p.Alive() {
		return false
	}

	switch cmd {
	case CommandMoveUp:
		return s.movePlayer(p, Position{Row: -1})
	case CommandMoveDown:
		return s.movePlayer(p, Position{Row: 1})
	case CommandMoveLeft:
		return s.movePlayer(p, Position{Col: -1})
	case CommandMoveRight:
		return s.movePlayer(p, Position{Col: 1})
	case CommandShoot:
		return s.shoot(p)
	default:
		return false
	}
}

func (s *State) movePlayer(p *Player, d Position) bool {
	next := p.Pos.Add(d)
	if !next.Inside() {
		return false
	}
	p.Pos = next
	return true
}

// shoot fires vertically toward the opponent's current row, or upward
// when no opponent is seated yet.
func (s *State) shoot(p *Player) bool {
	if p.Bullets <= 0 {
		return false
	}
	dir := Position{Row: -1}
	if opp := s.opponentOf(p.ID); opp != nil && opp.Pos.Row > p.Pos.Row {
		dir = Position{Row: 1}
	}
	p.Bullets--
	s.bullets = append(s.bullets, Bullet{OwnerID: p.ID, Pos: p.Pos, Dir: dir})
	return true
}

// setGameOver latches the terminal state. The first call wins.
func (s *State) setGameOver(loserID int) {
	if s.gameOver {
		return
	}
	s.gameOver = true
	s.loserID = loserID
	if opp := s.opponentOf(loserID); opp != nil {
		s.winnerID = opp.ID
	}
}

// Forfeit ends the match in favor of the remaining player, used when a
// player disconnects mid-match.
func (s *State) Forfeit(leaverID int) {
	s.setGameOver(leaverID)
}

// Render serializes the board and player stats for broadcast. Dead
// players are not drawn.
func (s *State) Render() string {
	grid := make([][]byte, BoardRows)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(string(CellEmpty), BoardCols))
		grid[r][0] = CellWall
		grid[r][BoardCols-1] = CellWall
	}
	for c := 0; c < BoardCols; c++ {
		grid[0][c] = CellWall
		grid[BoardRows-1][c] = CellWall
	}

	for _, p := range s.players {
		if p.Alive() {
			grid[p.Pos.Row][p.Pos.Col] = p.Symbol
		}
	}
	for _, b := range s.bullets {
		if b.Pos.Inside() {
			grid[b.Pos.Row][b.Pos.Col] = CellBullet
		}
	}
	for _, pu := range s.powerUps {
		if pu.Pos.Inside() {
			grid[pu.Pos.Row][pu.Pos.Col] = pu.Kind.Symbol()
		}
	}

	var sb strings.Builder
	for r := 0; r < BoardRows; r++ {
		sb.Write(grid[r])
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	for _, p := range s.players {
		health := p.Health
		if health < 0 {
			health = 0
		}
		if health > MaxHealth {
			health = MaxHealth
		}
		fmt.Fprintf(&sb, "Player %d (%c) Health: %.1f Bullets: %d\n", p.ID, p.Symbol, health, p.Bullets)
	}
	fmt.Fprintf(&sb, "Room Code: %s\n", s.roomCode)
	return sb.String()
}
