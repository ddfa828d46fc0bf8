package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func dialTestClient(t *testing.T, hub *Hub, userID primitive.ObjectID) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.register <- &Client{UserID: userID, Conn: conn}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		_, registered := hub.clients[userID]
		hub.mu.RUnlock()
		if registered {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub()
	if err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: NotificationTypeRequestStatus}); err == nil {
		t.Fatal("sending to an unconnected user should fail")
	}
}

func TestConcurrentSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := primitive.NewObjectID()
	conn := dialTestClient(t, hub, userID)

	const messages = 20
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.SendToUser(userID, Notification{
				Type:    NotificationTypeRequestStatus,
				Message: "Your service request status has been updated",
			})
		}()
	}
	wg.Wait()

	for i := 0; i < messages; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got Notification
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got.Type != NotificationTypeRequestStatus {
			t.Errorf("message %d type = %q, want %q", i, got.Type, NotificationTypeRequestStatus)
		}
	}
}
