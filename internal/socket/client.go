package socket

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrNoInstance is returned when no running panel has a socket
var ErrNoInstance = errors.New("no running panel found")

// Client sends commands to a running panel
type Client struct {
	socketPath string
}

// FindRunningInstance returns the most recent socket in dir (DefaultDir when
// empty) and the PID encoded in its name, 0 when it cannot be parsed
func FindRunningInstance(dir string) (string, int, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	var newest string
	var newestTime time.Time
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), socketPrefix) || !strings.HasSuffix(d.Name(), socketSuffix) {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}
	if newest == "" {
		return "", 0, ErrNoInstance
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newest), socketPrefix), socketSuffix)
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0
	}
	return newest, pid, nil
}

// NewClient creates a client for the socket at socketPath
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath}, nil
}

// Send sends a message and waits for the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(replyTimeout + 5*time.Second))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// AddItems asks the panel to add items written as "[kind] name"
func (c *Client) AddItems(texts ...string) (*Response, error) {
	return c.Send(Message{Command: CommandAddItems, Names: texts})
}
