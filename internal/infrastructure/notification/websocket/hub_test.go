package websocket

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type received struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return startHubContext(t, ctx)
}

func startHubContext(t *testing.T, ctx context.Context) (*Hub, *httptest.Server) {
	t.Helper()
	log := logger.NewWithOptions("error", "text", io.Discard)
	hub := NewHub(log)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, log)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastsSnapshotAndTransition(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	waitClients(t, hub, 1)

	hub.BroadcastHealth(&dto.HealthSnapshotDTO{
		Timestamp:     time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		Total:         3,
		Counts:        map[string]int{"good": 2, "danger": 1},
		OverallStatus: "danger",
	})
	msg := readMessage(t, conn)
	assert.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, "danger", msg.Data["overall_status"])
	assert.EqualValues(t, 3, msg.Data["total"])

	hub.BroadcastTransition(&dto.HealthTransitionDTO{ProjectID: "p1", From: "good", To: "warning"})
	msg = readMessage(t, conn)
	assert.Equal(t, MessageTransition, msg.Type)
	assert.Equal(t, "p1", msg.Data["project_id"])
	assert.Equal(t, "warning", msg.Data["to"])
}

func TestHub_NewClientReceivesLastSnapshot(t *testing.T) {
	hub, server := startHub(t)
	first := dial(t, server)
	waitClients(t, hub, 1)

	hub.BroadcastHealth(&dto.HealthSnapshotDTO{Total: 5, OverallStatus: "warning"})
	readMessage(t, first)

	second := dial(t, server)
	msg := readMessage(t, second)
	assert.Equal(t, MessageSnapshot, msg.Type)
	assert.EqualValues(t, 5, msg.Data["total"])
	waitClients(t, hub, 2)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server)
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub, server := startHubContext(t, ctx)
	conn := dial(t, server)
	waitClients(t, hub, 1)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	waitClients(t, hub, 0)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	log := logger.NewWithOptions("error", "text", io.Discard)
	hub := NewHub(log)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := &Client{hub: hub, send: make(chan Message, 1), logger: log}
	finished := make(chan struct{})
	go func() {
		hub.Register(client)
		hub.Unregister(client)
		hub.Unregister(client)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Register/Unregister blocked after hub stopped")
	}

	_, open := <-client.send
	assert.False(t, open, "late client is closed")
}
