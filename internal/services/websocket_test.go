package services

import (
	"context"
	"path/filepath"
	"testing"

	"fsgraph/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_HandleMessage(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "docs/a.txt", "b.txt")
	nav, metrics := newTestNavigation(t, home)
	hub := NewWebSocketHub(nav, metrics, quietLogger())
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: MessagePing, ID: "1"})
		assert.Equal(t, MessagePong, reply.Type)
		assert.Equal(t, "1", reply.ID)
		assert.Nil(t, reply.Data)
	})

	t.Run("load", func(t *testing.T) {
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: MessageLoad, ID: "2", Depth: intPtr(1)})
		require.Equal(t, MessageGraph, reply.Type, reply.Error)
		assert.Equal(t, "2", reply.ID)
		assert.Equal(t, models.OpLoadRoot, reply.Operation)
		assert.Equal(t, home, reply.Path)
		require.NotNil(t, reply.Data)
		assert.Len(t, reply.Data.Nodes, 3)
	})

	t.Run("expand", func(t *testing.T) {
		docs := filepath.Join(home, "docs")
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: MessageExpand, Path: docs})
		require.Equal(t, MessageGraph, reply.Type, reply.Error)
		assert.Equal(t, models.OpExpand, reply.Operation)
		assert.Equal(t, []string{docs, filepath.Join(docs, "a.txt")}, nodeIDs(*reply.Data))
	})

	t.Run("parent", func(t *testing.T) {
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: MessageParent, Path: filepath.Join(home, "docs")})
		require.Equal(t, MessageGraph, reply.Type, reply.Error)
		assert.Equal(t, home, reply.Path)
	})

	t.Run("error", func(t *testing.T) {
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: MessageExpand, ID: "5"})
		assert.Equal(t, MessageError, reply.Type)
		assert.Equal(t, "5", reply.ID)
		assert.Equal(t, ErrMissingPath.Error(), reply.Error)
	})

	t.Run("unknown", func(t *testing.T) {
		reply := hub.HandleMessage(ctx, WebSocketMessage{Type: "subscribe"})
		assert.Equal(t, MessageError, reply.Type)
		assert.Contains(t, reply.Error, "subscribe")
	})
}

func TestHub_RegisterUnregister(t *testing.T) {
	nav, metrics := newTestNavigation(t, tempRoot(t))
	hub := NewWebSocketHub(nav, metrics, quietLogger())

	a := NewClientConnection("a", nil)
	b := NewClientConnection("b", nil)
	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActiveConnections))

	hub.Unregister("a")
	hub.Unregister("a")
	assert.Equal(t, 1, hub.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveConnections))

	select {
	case <-a.Close:
	default:
		t.Fatal("unregistered client was not shut down")
	}

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())
	_, open := <-b.Close
	assert.False(t, open)
}
