package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

func TestFeedPublishWithoutClients(t *testing.T) {
	feed := NewFeed()

	if feed.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", feed.ClientCount())
	}

	// Must be a silent no-op
	feed.PublishEnforcement(watchdog.Event{GuildID: "g1", UserID: "u1"})
}

func TestFeedBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	feed := NewFeed()
	router := gin.New()
	router.GET("/feed", feed.Handler())

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client
	deadline := time.Now().Add(2 * time.Second)
	for feed.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if feed.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", feed.ClientCount())
	}

	sent := watchdog.Event{
		GuildID:    "g1",
		UserID:     "u1",
		Username:   "user-u1",
		Punishment: models.PunishmentBan,
		Category:   models.CategoryGeneral,
		Reason:     "Blacklisted under General",
		Trigger:    watchdog.TriggerJoin,
		At:         time.Now(),
	}
	feed.PublishEnforcement(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast failed: %v", err)
	}

	var got watchdog.Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.GuildID != sent.GuildID || got.UserID != sent.UserID || got.Punishment != sent.Punishment {
		t.Errorf("broadcast event = %+v, want fields from %+v", got, sent)
	}
}

func TestFeedDisconnectCleansUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	feed := NewFeed()
	router := gin.New()
	router.GET("/feed", feed.Handler())

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for feed.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for feed.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if feed.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after disconnect, want 0", feed.ClientCount())
	}
}
