// Package network defines the wire protocol between client and server.
//
// The handshake is line-oriented: the client's first line is either
// CREATE or JOIN <code>, answered by ROOM <code>, JOIN_OK or JOIN_FAIL.
// After the handshake the client sends raw single-byte commands and the
// server streams textual board snapshots back.
package network

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultPort is the TCP port the server listens on.
const DefaultPort = 12345

// Client -> server handshake commands
const (
	CmdCreate = "CREATE"
	CmdJoin   = "JOIN"
)

// Server -> client replies
const (
	ReplyRoom     = "ROOM"
	ReplyJoinOK   = "JOIN_OK"
	ReplyJoinFail = "JOIN_FAIL"
	ReplyGameOver = "GAME_OVER"
)

// SendLine writes a newline-terminated line.
func SendLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\n")
	if err != nil {
		return fmt.Errorf("send line: %w", err)
	}
	return nil
}

// ReadLine reads one line, trimming the trailing newline and any
// carriage return.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseHandshake splits a handshake line into its command and argument.
func ParseHandshake(line string) (cmd, arg string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], fields[1]
}

// RoomReply formats the reply to a successful CREATE.
func RoomReply(code string) string {
	return ReplyRoom + " " + code
}

// GameOverMessage formats the terminal broadcast naming both the dead
// player and the winner. WinnerID 0 means nobody was left to win.
func GameOverMessage(loserID, winnerID int) string {
	if winnerID == 0 {
		return fmt.Sprintf("%s Player %d died", ReplyGameOver, loserID)
	}
	return fmt.Sprintf("%s Player %d died - Player %d wins", ReplyGameOver, loserID, winnerID)
}
