package socket

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	socketPrefix = "panel-"
	socketSuffix = ".sock"
	replyTimeout = 10 * time.Second
)

// Server accepts commands for a running panel on a Unix socket. Every
// connection carries one JSON message and receives one JSON response.
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// DefaultDir returns the socket directory, under XDG_RUNTIME_DIR when set
func DefaultDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "surfer-panel")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "surfer-panel")
}

// NewServer listens on <dir>/panel-<pid>.sock. An empty dir uses DefaultDir.
func NewServer(dir string, pid int) (*Server, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("%s%d%s", socketPrefix, pid, socketSuffix))
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	log.Printf("control socket listening on %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("error accepting connection: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	encoder := json.NewEncoder(conn)

	var msg Message
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		if err != io.EOF {
			log.Printf("error decoding message: %v", err)
		}
		encoder.Encode(Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}
	if msg.Command == "" {
		encoder.Encode(Response{Message: "Missing command field"})
		return
	}
	if !slices.Contains(Commands, msg.Command) {
		encoder.Encode(Response{Message: "Unknown command: " + msg.Command})
		return
	}

	msg.reply = make(chan Response, 1)
	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		encoder.Encode(Response{Message: "Server is shutting down"})
		return
	}

	select {
	case resp := <-msg.reply:
		encoder.Encode(resp)
	case <-time.After(replyTimeout):
		encoder.Encode(Response{Message: "Command timed out"})
	case <-s.stopChan:
		select {
		case resp := <-msg.reply:
			encoder.Encode(resp)
		default:
			encoder.Encode(Response{Message: "Server is shutting down"})
		}
	}
}

// Messages returns the channel of received commands. Each must be answered
// with Message.Reply.
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop closes the listener and removes the socket file
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.listener.Close()
		os.Remove(s.socketPath)
		log.Printf("control socket stopped")
	})
}
