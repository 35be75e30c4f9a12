// Package server implements the TCP server for the ShootClub arena:
// room registry, per-room simulation and the connection dispatcher.
package server

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"shootclub/internal/game"
	"shootclub/internal/network"
	"shootclub/pkg/logger"
)

// Server accepts TCP connections, runs the create/join handshake and
// then forwards each connection's raw command bytes into its room.
type Server struct {
	address  string
	listener net.Listener
	registry *Registry
	logger   *logger.Logger

	mu        sync.Mutex
	isRunning bool
	pending   map[net.Conn]struct{}
	wg        sync.WaitGroup
}

// NewServer creates a server that will listen on address.
func NewServer(address string) *Server {
	return &Server{
		address:  address,
		registry: NewRegistry(game.DefaultTickMillis * time.Millisecond),
		logger:   logger.Server,
		pending:  make(map[net.Conn]struct{}),
	}
}

// Registry exposes the room table, mainly for tests.
func (s *Server) Registry() *Registry { return s.registry }

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start begins listening and blocks in the accept loop until Stop is
// called or the listener fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info("Server started and listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running() {
				return nil
			}
			s.logger.Error("Failed to accept connection: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Stop shuts down the accept loop, all rooms and their connections.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	ln := s.listener
	pending := make([]net.Conn, 0, len(s.pending))
	for c := range s.pending {
		pending = append(pending, c)
	}
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	// Connections still in the handshake belong to no room yet; close
	// them here so their readers unblock and wg.Wait can return.
	for _, c := range pending {
		_ = c.Close()
	}
	s.registry.Shutdown()
	s.wg.Wait()
	s.logger.Info("Server stopped")
}

func (s *Server) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// trackPending registers a connection that has not completed its
// handshake yet. Returns false if the server is already stopping.
func (s *Server) trackPending(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return false
	}
	s.pending[conn] = struct{}{}
	return true
}

func (s *Server) untrackPending(conn net.Conn) {
	s.mu.Lock()
	delete(s.pending, conn)
	s.mu.Unlock()
}

// handleConn runs the handshake and, on success, the per-connection
// ingestion loop. Errors here are fatal for this connection only.
func (s *Server) handleConn(conn net.Conn) {
	s.logger.Info("New connection from %s", conn.RemoteAddr())

	if !s.trackPending(conn) {
		_ = conn.Close()
		return
	}
	reader := bufio.NewReader(conn)
	room, pc, err := s.handshake(conn, reader)
	s.untrackPending(conn)
	if err != nil {
		s.logger.Info("Handshake failed for %s: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}

	// Ownership of the socket now sits with the room; this goroutine
	// only feeds bytes in until the read side dies.
	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		room.HandleInput(pc.ID(), b)
	}
	room.RemoveConn(pc.ID())
	s.logger.Info("Connection %s closed", conn.RemoteAddr())
}

// handshake reads the first line and binds the connection to a room:
// CREATE makes a new room and replies ROOM <code>; JOIN <code> seats
// the client in an existing one. Failures get a JOIN_FAIL reply.
func (s *Server) handshake(conn net.Conn, reader *bufio.Reader) (*Room, *playerConn, error) {
	line, err := network.ReadLine(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("read handshake: %w", err)
	}

	cmd, arg := network.ParseHandshake(line)
	switch cmd {
	case network.CmdCreate:
		room := s.registry.CreateRoom()
		if err := network.SendLine(conn, network.RoomReply(room.Code())); err != nil {
			s.registry.Remove(room.Code())
			room.Shutdown()
			return nil, nil, err
		}
		pc := newPlayerConn(conn)
		if _, err := room.AddConn(pc); err != nil {
			return nil, nil, err
		}
		return room, pc, nil

	case network.CmdJoin:
		room, err := s.registry.Get(arg)
		if err != nil {
			_ = network.SendLine(conn, network.ReplyJoinFail)
			return nil, nil, fmt.Errorf("join %q: %w", arg, err)
		}
		// Enqueue the reply before seating: the write pump starts
		// inside AddConn, so JOIN_OK is guaranteed to go out ahead of
		// the first board snapshot.
		pc := newPlayerConn(conn)
		pc.Enqueue([]byte(network.ReplyJoinOK + "\n"))
		if _, err := room.AddConn(pc); err != nil {
			_ = network.SendLine(conn, network.ReplyJoinFail)
			return nil, nil, fmt.Errorf("join %q: %w", arg, err)
		}
		return room, pc, nil

	default:
		_ = network.SendLine(conn, network.ReplyJoinFail)
		return nil, nil, fmt.Errorf("unknown handshake command %q", cmd)
	}
}
