package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripopov/surfer-sub000/internal/socket"
	"github.com/ripopov/surfer-sub000/internal/tree"
)

func TestControlItemQueries(t *testing.T) {
	a := newTestApp(t)

	resp := a.handleControl(socket.Message{Command: socket.CommandGetItemList})
	require.True(t, resp.Success)
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5}, resp.IDs)

	resp = a.handleControl(socket.Message{Command: socket.CommandGetItemInfo, IDs: []uint64{0, 5}})
	require.True(t, resp.Success)
	assert.Equal(t, []socket.ItemInfo{
		{ID: 0, Name: "top", Type: "group"},
		{ID: 5, Name: "A", Type: "marker"},
	}, resp.Items)

	resp = a.handleControl(socket.Message{Command: socket.CommandGetItemInfo, IDs: []uint64{42}})
	assert.False(t, resp.Success)
	assert.Equal(t, "No item with id 42", resp.Message)
}

func TestControlEdits(t *testing.T) {
	a := newTestApp(t)

	resp := a.handleControl(socket.Message{Command: socket.CommandAddVariables, Names: []string{"group"}})
	require.True(t, resp.Success)
	require.Len(t, resp.IDs, 1)
	assert.Equal(t, "variable", a.Panel().Items.Get(6).Kind.String())

	resp = a.handleControl(socket.Message{Command: socket.CommandAddItems, Names: []string{"divider ---"}})
	require.True(t, resp.Success)
	assert.Equal(t, "divider", a.Panel().Items.Get(7).Kind.String())

	resp = a.handleControl(socket.Message{Command: socket.CommandSetItemColor, IDs: []uint64{1}, Color: "#ff0000"})
	require.True(t, resp.Success)
	assert.Equal(t, "#ff0000", a.Panel().Items.Get(1).Color)

	resp = a.handleControl(socket.Message{Command: socket.CommandSetItemColor, IDs: []uint64{1}, Color: "nosuchcolor"})
	assert.False(t, resp.Success)

	resp = a.handleControl(socket.Message{Command: socket.CommandFocusItem, IDs: []uint64{4}})
	require.True(t, resp.Success)
	assert.Equal(t, "bus", a.Panel().FocusedItem().Name)

	resp = a.handleControl(socket.Message{Command: socket.CommandRemoveItems, IDs: []uint64{3}})
	require.True(t, resp.Success)
	assert.Equal(t, "Removed 2 items", resp.Message)
	assert.Nil(t, a.Panel().Items.Get(4))

	resp = a.handleControl(socket.Message{Command: socket.CommandClear})
	require.True(t, resp.Success)
	assert.True(t, a.Panel().Tree.IsEmpty())
	assert.Equal(t, tree.VisibleItemIndex(-1), a.Panel().Focus())

	a.keys("u")
	assert.False(t, a.Panel().Tree.IsEmpty())

	a.handleControl(socket.Message{Command: socket.CommandShutdown})
	assert.True(t, a.quit)
}

func TestControlThroughRun(t *testing.T) {
	a := newTestApp(t)
	server, err := socket.NewServer(t.TempDir(), os.Getpid())
	require.NoError(t, err)
	server.Start()
	a.control = server

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	client, err := socket.NewClient(server.SocketPath())
	require.NoError(t, err)
	resp, err := client.AddItems("marker B")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []uint64{6}, resp.IDs)

	resp, err = client.Send(socket.Message{Command: socket.CommandShutdown})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	_, err = os.Stat(server.SocketPath())
	assert.True(t, os.IsNotExist(err))
}
