// Package client handles the TCP client and game interaction
package client

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"shootclub/internal/game"
	"shootclub/internal/network"
	"shootclub/pkg/logger"
)

// Client represents the game client: menu, handshake and the in-game
// send/receive loops.
type Client struct {
	serverAddr string
	conn       net.Conn
	reader     *bufio.Reader
	display    *Display
	input      *InputHandler
	logger     *logger.Logger
	playerID   int
}

// NewClient creates a new client instance
func NewClient(serverAddr string) *Client {
	display := NewDisplay()
	return &Client{
		serverAddr: serverAddr,
		display:    display,
		input:      NewInputHandler(display),
		logger:     logger.Client,
	}
}

// Start runs the main menu loop until the user exits.
func (c *Client) Start() error {
	c.display.PrintBanner()

	for {
		c.display.PrintMenu()
		switch c.input.GetMenuChoice(1, 3) {
		case 1:
			if err := c.hostGame(); err != nil {
				c.display.PrintError(fmt.Sprintf("Host failed: %v", err))
			}
		case 2:
			if err := c.joinGame(); err != nil {
				c.display.PrintError(fmt.Sprintf("Join failed: %v", err))
			}
		case 3:
			c.display.PrintInfo("Goodbye!")
			return nil
		}
	}
}

// connect establishes the TCP connection.
func (c *Client) connect() error {
	conn, err := net.DialTimeout("tcp", c.serverAddr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.serverAddr, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.logger.Info("Connected to %s", c.serverAddr)
	return nil
}

// hostGame creates a room and plays as player 1.
func (c *Client) hostGame() error {
	if err := c.connect(); err != nil {
		return err
	}
	defer c.closeConn()

	if err := network.SendLine(c.conn, network.CmdCreate); err != nil {
		return err
	}
	reply, err := network.ReadLine(c.reader)
	if err != nil {
		return fmt.Errorf("read create reply: %w", err)
	}
	cmd, code := network.ParseHandshake(reply)
	if cmd != network.ReplyRoom || code == "" {
		return fmt.Errorf("unexpected reply %q", reply)
	}

	c.playerID = 1
	c.display.PrintRoomCode(code)
	c.play()
	return nil
}

// joinGame joins an existing room as player 2.
func (c *Client) joinGame() error {
	code := c.input.GetRoomCode()

	if err := c.connect(); err != nil {
		return err
	}
	defer c.closeConn()

	if err := network.SendLine(c.conn, network.CmdJoin+" "+code); err != nil {
		return err
	}
	reply, err := network.ReadLine(c.reader)
	if err != nil {
		return fmt.Errorf("read join reply: %w", err)
	}
	if reply != network.ReplyJoinOK {
		return fmt.Errorf("room %s rejected the join (%s)", code, reply)
	}

	c.playerID = 2
	c.display.PrintInfo("Joined room " + code)
	c.play()
	return nil
}

// play runs the in-game loops: one goroutine renders the server's
// broadcast stream, the main goroutine forwards keystrokes.
func (c *Client) play() {
	c.display.PrintControls()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.receiveLoop()
	}()
	c.sendLoop(done)
	<-done
}

// receiveLoop renders board snapshots, stats and the game-over line
// until the connection drops.
func (c *Client) receiveLoop() {
	inBoard := false
	for {
		line, err := network.ReadLine(c.reader)
		if err != nil {
			c.logger.Info("Server stream closed: %v", err)
			return
		}

		switch {
		case IsGameOverLine(line):
			c.display.PrintGameOver(line, c.playerID)
		case IsBorderLine(line):
			if !inBoard {
				c.display.BeginFrame()
			}
			inBoard = !inBoard
			c.display.PrintBoardLine(line)
		case inBoard:
			c.display.PrintBoardLine(line)
		case line == "":
			fmt.Println()
		default:
			c.display.PrintStatsLine(line)
		}
	}
}

// sendLoop forwards command keys to the server. Returns on q, stdin
// close, server disconnect or a write error.
func (c *Client) sendLoop(done <-chan struct{}) {
	stdin := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		default:
		}

		b, err := stdin.ReadByte()
		if err != nil {
			return
		}
		if b == 'q' || b == 'Q' {
			return
		}
		if game.CommandFromByte(b) == game.CommandNone {
			continue
		}
		if _, err := c.conn.Write([]byte{b}); err != nil {
			return
		}
	}
}

func (c *Client) closeConn() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Address normalizes a user-supplied server address, defaulting the
// port when only a host is given.
func Address(s string) string {
	if strings.Contains(s, ":") {
		return s
	}
	return fmt.Sprintf("%s:%d", s, network.DefaultPort)
}
