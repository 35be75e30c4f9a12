package game

import (
	"math/rand"
	"time"
)

// Engine advances a match state one tick at a time. Like State it is
// not safe for concurrent use; the owning room calls Tick under its
// lock.
type Engine struct {
	state     *State
	rng       *rand.Rand
	spawnGap  time.Duration
	lastSpawn time.Time
}

// NewEngine creates an engine over the given state. The seed drives
// power-up placement only; fixing it makes ticks fully deterministic.
func NewEngine(state *State, seed int64) *Engine {
	return &Engine{
		state:    state,
		rng:      rand.New(rand.NewSource(seed)),
		spawnGap: PowerUpSpawnSeconds * time.Second,
	}
}

// Tick advances the simulation one step and reports whether the match
// ended. Once the state is terminal further ticks are no-ops.
func (e *Engine) Tick(now time.Time) bool {
	s := e.state
	if s.gameOver {
		return true
	}

	e.moveBullets()
	e.resolveBulletHits()
	e.resolvePickups()
	e.spawnPowerUp(now)

	for _, p := range s.players {
		if p.Health <= 0 {
			s.setGameOver(p.ID)
			break
		}
	}
	return s.gameOver
}

// moveBullets advances every bullet one cell and culls those that reach
// the wall or beyond.
func (e *Engine) moveBullets() {
	s := e.state
	kept := s.bullets[:0]
	for _, b := range s.bullets {
		b.Pos = b.Pos.Add(b.Dir)
		if b.Pos.Inside() {
			kept = append(kept, b)
		}
	}
	s.bullets = kept
}

// resolveBulletHits applies at most one hit per bullet. Ties between
// players on the same cell break by ascending player ID.
func (e *Engine) resolveBulletHits() {
	s := e.state
	kept := s.bullets[:0]
	for _, b := range s.bullets {
		hit := false
		for _, p := range s.players {
			if p.ID == b.OwnerID || !p.Alive() {
				continue
			}
			if p.Pos == b.Pos {
				p.Health -= BulletDamage
				if p.Health < 0 {
					p.Health = 0
				}
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, b)
		}
	}
	s.bullets = kept
}

// resolvePickups lets players collect power-ups on their cell, ascending
// player ID first. A consumed power-up is gone before the next player is
// scanned, so it is never applied twice.
func (e *Engine) resolvePickups() {
	s := e.state
	for _, p := range s.players {
		if !p.Alive() {
			continue
		}
		kept := s.powerUps[:0]
		for _, pu := range s.powerUps {
			if pu.Pos != p.Pos {
				kept = append(kept, pu)
				continue
			}
			switch pu.Kind {
			case PowerUpBullet:
				p.Bullets++
			case PowerUpFood:
				p.Health += FoodHealAmount
				if p.Health > MaxHealth {
					p.Health = MaxHealth
				}
			}
		}
		s.powerUps = kept
	}
}

// spawnPowerUp drops a random power-up on a random interior cell every
// spawn interval while fewer than MaxPowerUps are live.
func (e *Engine) spawnPowerUp(now time.Time) {
	s := e.state
	if len(s.powerUps) >= MaxPowerUps {
		return
	}
	if e.lastSpawn.IsZero() {
		e.lastSpawn = now
		return
	}
	if now.Sub(e.lastSpawn) < e.spawnGap {
		return
	}
	e.lastSpawn = now

	pu := PowerUp{
		Pos: Position{
			Row: e.rng.Intn(BoardRows-2) + 1,
			Col: e.rng.Intn(BoardCols-2) + 1,
		},
	}
	if e.rng.Intn(2) == 0 {
		pu.Kind = PowerUpBullet
	} else {
		pu.Kind = PowerUpFood
	}
	s.powerUps = append(s.powerUps, pu)
}
