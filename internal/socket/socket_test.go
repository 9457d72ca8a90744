package socket

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	server, err := NewServer(dir, os.Getpid())
	require.NoError(t, err)
	t.Cleanup(server.Stop)
	server.Start()
	return server, dir
}

// answer replies to the next message with resp and returns the message
func answer(t *testing.T, server *Server, resp Response) <-chan Message {
	t.Helper()
	got := make(chan Message, 1)
	go func() {
		select {
		case msg := <-server.Messages():
			msg.Reply(resp)
			got <- msg
		case <-time.After(5 * time.Second):
			close(got)
		}
	}()
	return got
}

func TestServerClient(t *testing.T) {
	server, _ := startServer(t)
	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	got := answer(t, server, Response{Success: true, IDs: []uint64{7}})
	response, err := client.AddItems("group io", "clk")
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, []uint64{7}, response.IDs)

	msg, ok := <-got
	require.True(t, ok, "no message received")
	assert.Equal(t, CommandAddItems, msg.Command)
	assert.Equal(t, []string{"group io", "clk"}, msg.Names)
}

func TestServerRejectsUnknownCommand(t *testing.T) {
	server, _ := startServer(t)
	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	response, err := client.Send(Message{Command: "zoom_to_fit"})
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, "Unknown command: zoom_to_fit", response.Message)

	response, err = client.Send(Message{})
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, "Missing command field", response.Message)
}

func TestServerInvalidJSON(t *testing.T) {
	server, _ := startServer(t)
	conn, err := net.Dial("unix", server.SocketPath())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 256)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "Invalid message format")
}

func TestReplyOnlyOnce(t *testing.T) {
	msg := Message{reply: make(chan Response, 1)}
	msg.Reply(Response{Message: "first"})
	msg.Reply(Response{Message: "second"})
	assert.Equal(t, "first", (<-msg.reply).Message)

	// messages built by hand have no reply channel
	Message{}.Reply(Response{})
}

func TestFindRunningInstance(t *testing.T) {
	server, dir := startServer(t)

	socketPath, pid, err := FindRunningInstance(dir)
	require.NoError(t, err)
	assert.Equal(t, server.SocketPath(), socketPath)
	assert.Equal(t, os.Getpid(), pid)
}

func TestFindRunningInstanceNone(t *testing.T) {
	_, _, err := FindRunningInstance(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoInstance))

	_, _, err = FindRunningInstance(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, ErrNoInstance))
}

func TestStopRemovesSocket(t *testing.T) {
	dir := t.TempDir()
	server, err := NewServer(dir, 4242)
	require.NoError(t, err)
	server.Start()

	server.Stop()
	server.Stop()
	_, err = os.Stat(server.SocketPath())
	assert.True(t, os.IsNotExist(err))

	_, err = NewClient(server.SocketPath())
	assert.Error(t, err)
}
