// Package client handles client-side display and user interface
package client

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"shootclub/internal/game"
	"shootclub/internal/network"
)

// ansiHome repositions the cursor and clears the screen before a frame.
const ansiHome = "\033[H\033[2J"

// Display renders server broadcasts and client prompts.
type Display struct {
	wallColor    *color.Color
	playerColor  *color.Color
	bulletColor  *color.Color
	powerUpColor *color.Color
	statsColor   *color.Color
	winColor     *color.Color
	loseColor    *color.Color
	warningColor *color.Color
	errorColor   *color.Color
	infoColor    *color.Color
	gameColor    *color.Color
}

// NewDisplay creates a new display instance with configured colors
func NewDisplay() *Display {
	return &Display{
		wallColor:    color.New(color.FgCyan),
		playerColor:  color.New(color.FgGreen, color.Bold),
		bulletColor:  color.New(color.FgRed),
		powerUpColor: color.New(color.FgYellow, color.Bold),
		statsColor:   color.New(color.FgWhite),
		winColor:     color.New(color.FgGreen, color.Bold),
		loseColor:    color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed),
		infoColor:    color.New(color.FgCyan, color.Bold),
		gameColor:    color.New(color.FgYellow, color.Bold),
	}
}

// PrintBanner displays the game banner
func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║              SHOOTCLUB                ║
║        Terminal Arena Shooter         ║
╚═══════════════════════════════════════╝
`
	d.gameColor.Println(banner)
}

// PrintMenu displays the main menu.
func (d *Display) PrintMenu() {
	fmt.Println()
	fmt.Println("1. Host Game")
	fmt.Println("2. Join Game")
	fmt.Println("3. Exit")
}

// PrintRoomCode shows the code other players need to join.
func (d *Display) PrintRoomCode(code string) {
	d.infoColor.Printf("Room created. Share this code: %s\n", code)
	d.infoColor.Println("Waiting for an opponent to join...")
}

// PrintControls shows the in-game key bindings.
func (d *Display) PrintControls() {
	d.infoColor.Println("Controls: w/a/s/d move, space shoot, q quit")
}

// BeginFrame clears the terminal before a fresh board snapshot.
func (d *Display) BeginFrame() {
	fmt.Print(ansiHome)
}

// PrintBoardLine renders one line of a board snapshot with colors.
func (d *Display) PrintBoardLine(line string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case game.CellWall:
			d.wallColor.Print("X")
		case game.CellBullet:
			d.bulletColor.Print("|")
		case 'B', 'F':
			d.powerUpColor.Printf("%c", line[i])
		case game.SymbolOne, game.SymbolTwo:
			d.playerColor.Printf("%c", line[i])
		default:
			fmt.Printf("%c", line[i])
		}
	}
	fmt.Println()
}

// PrintStatsLine renders a player-stats or room-code line.
func (d *Display) PrintStatsLine(line string) {
	d.statsColor.Println(line)
}

// PrintGameOver renders the final result, colored by outcome for the
// local player.
func (d *Display) PrintGameOver(line string, myPlayerID int) {
	fmt.Println()
	won := myPlayerID != 0 && strings.Contains(line, fmt.Sprintf("Player %d wins", myPlayerID))
	if won {
		d.winColor.Println(line)
		d.winColor.Println("You win!")
	} else {
		d.loseColor.Println(line)
		if myPlayerID != 0 {
			d.loseColor.Println("You lose.")
		}
	}
	d.infoColor.Println("Press q to return.")
}

// PrintInfo displays general information
func (d *Display) PrintInfo(message string) {
	d.infoColor.Println(message)
}

// PrintWarning displays warning messages
func (d *Display) PrintWarning(message string) {
	d.warningColor.Printf("⚠ %s\n", message)
}

// PrintError displays error messages
func (d *Display) PrintError(message string) {
	d.errorColor.Printf("✗ %s\n", message)
}

// IsGameOverLine reports whether a broadcast line is the final result.
func IsGameOverLine(line string) bool {
	return strings.HasPrefix(line, network.ReplyGameOver)
}

// IsBorderLine reports whether a line is the board's top or bottom
// wall, used to detect the start of a new snapshot frame.
func IsBorderLine(line string) bool {
	if len(line) != game.BoardCols {
		return false
	}
	return strings.Count(line, string(game.CellWall)) == game.BoardCols
}
