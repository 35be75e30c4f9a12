// Package client handles user input validation and processing
package client

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// InputHandler manages user input for the menu and handshake prompts.
type InputHandler struct {
	scanner *bufio.Scanner
	display *Display
}

// NewInputHandler creates a new input handler
func NewInputHandler(display *Display) *InputHandler {
	return &InputHandler{
		scanner: bufio.NewScanner(os.Stdin),
		display: display,
	}
}

// GetMenuChoice gets and validates menu choices
func (ih *InputHandler) GetMenuChoice(min, max int) int {
	for {
		fmt.Printf("Enter your choice (%d-%d): ", min, max)

		if !ih.scanner.Scan() {
			ih.display.PrintError("Failed to read input")
			os.Exit(1)
		}

		input := strings.TrimSpace(ih.scanner.Text())
		choice, err := strconv.Atoi(input)

		if err != nil {
			ih.display.PrintWarning("Please enter a valid number")
			continue
		}

		if choice < min || choice > max {
			ih.display.PrintWarning(fmt.Sprintf("Please enter a number between %d and %d", min, max))
			continue
		}

		return choice
	}
}

// GetRoomCode prompts for and validates a room code.
func (ih *InputHandler) GetRoomCode() string {
	for {
		fmt.Print("Enter the room code: ")

		if !ih.scanner.Scan() {
			ih.display.PrintError("Failed to read input")
			os.Exit(1)
		}

		code := strings.ToUpper(strings.TrimSpace(ih.scanner.Text()))
		if !isValidRoomCode(code) {
			ih.display.PrintWarning("Room codes are 4 letters or digits (e.g. AB12)")
			continue
		}
		return code
	}
}

// isValidRoomCode accepts short uppercase alphanumeric codes.
func isValidRoomCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
