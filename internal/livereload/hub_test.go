package livereload

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func contextWithTestDeadline(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(context.Background(), deadline)
	}
	return context.WithCancel(context.Background())
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := contextWithTestDeadline(t)
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(NewHandler(hub, testLogger()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for registration before broadcasting.
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(Message{Type: "reload", Path: "index.html"})

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var got Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != "reload" || got.Path != "index.html" {
		t.Errorf("message = %+v", got)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := contextWithTestDeadline(t)
	defer cancel()
	go hub.Run(ctx)

	// A client with no WritePump and a full channel simulates a stalled page.
	stalled := &Client{send: make(chan Message), logger: testLogger()}
	hub.Register(stalled)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(Message{Type: "reload"})

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHubUnregisterAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{send: make(chan Message, 1), logger: testLogger()}
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop after cancellation")
	}

	// A client tearing down its pumps during shutdown must not hang.
	finished := make(chan struct{})
	go func() {
		hub.Unregister(client)
		hub.Register(client)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after hub shutdown")
	}
}

func TestHubNonBlockingBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	// Hub is not running: broadcasts must still return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast(Message{Type: "reload"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no hub goroutine running")
	}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
