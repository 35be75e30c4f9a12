package game

// Board dimensions. The outermost cells are wall; entities live in the
// interior [1, BoardRows-2] x [1, BoardCols-2].
const (
	BoardRows = 20
	BoardCols = 40
)

// Position is a (row, col) cell on the board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the position offset by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Inside reports whether the position lies strictly inside the walls.
func (p Position) Inside() bool {
	return p.Row > 0 && p.Row < BoardRows-1 && p.Col > 0 && p.Col < BoardCols-1
}

// Player is one combatant's authoritative state.
type Player struct {
	ID      int      `json:"id"` // 1 or 2
	Symbol  byte     `json:"symbol"`
	Pos     Position `json:"pos"`
	Health  float64  `json:"health"`
	Bullets int      `json:"bullets"`
}

// Alive reports whether the player can still act and be drawn.
func (p *Player) Alive() bool { return p.Health > 0 }

// Bullet travels one cell per tick along a vertical unit vector.
type Bullet struct {
	OwnerID int      `json:"owner_id"`
	Pos     Position `json:"pos"`
	Dir     Position `json:"dir"`
}

// PowerUpKind identifies the effect of a power-up.
type PowerUpKind int

const (
	PowerUpBullet PowerUpKind = iota // +1 bullet
	PowerUpFood                      // +0.5 health, capped
)

// Symbol returns the board character for the kind.
func (k PowerUpKind) Symbol() byte {
	if k == PowerUpBullet {
		return 'B'
	}
	return 'F'
}

// PowerUp sits on a cell until a player walks over it.
type PowerUp struct {
	Kind PowerUpKind `json:"kind"`
	Pos  Position    `json:"pos"`
}

// Command is a single player action.
type Command int

const (
	CommandNone Command = iota
	CommandMoveUp
	CommandMoveDown
	CommandMoveLeft
	CommandMoveRight
	CommandShoot
)

// CommandFromByte maps a raw wire byte to a command. Unknown bytes map
// to CommandNone and are ignored by the room.
func CommandFromByte(b byte) Command {
	switch b {
	case 'w', 'W':
		return CommandMoveUp
	case 's', 'S':
		return CommandMoveDown
	case 'a', 'A':
		return CommandMoveLeft
	case 'd', 'D':
		return CommandMoveRight
	case ' ':
		return CommandShoot
	default:
		return CommandNone
	}
}

// Game tuning constants
const (
	MaxPlayers = 2

	StartingHealth  = 10.0
	MaxHealth       = 10.0
	StartingBullets = 25
	BulletDamage    = 1.0

	FoodHealAmount = 0.5

	MaxPowerUps         = 5
	PowerUpSpawnSeconds = 5

	DefaultTickMillis = 100
)

// Board characters
const (
	CellWall   = 'X'
	CellBullet = '|'
	CellEmpty  = ' '
	SymbolOne  = '1'
	SymbolTwo  = '2'
)
