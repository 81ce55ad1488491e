// Package web provides the live enforcement feed over websockets.
package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Host filtering already happens in the logs middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed broadcasts watchdog enforcement events to connected websocket
// clients. It implements watchdog.EventSink; a slow or dead client is
// dropped instead of blocking the executor.
type Feed struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.RWMutex
}

// NewFeed creates an empty feed hub
func NewFeed() *Feed {
	return &Feed{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

var _ watchdog.EventSink = (*Feed)(nil)

// PublishEnforcement fans the event out to every connected client
func (f *Feed) PublishEnforcement(ev watchdog.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for conn, ch := range f.clients {
		select {
		case ch <- data:
		default:
			// Client cannot keep up; closing triggers cleanup in its writer
			_ = conn.Close()
		}
	}
}

// Handler upgrades the connection and streams events until the client
// disconnects.
func (f *Feed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn(fmt.Sprintf("Fallo al actualizar conexión websocket: %v", err), "WebServer")
			return
		}

		ch := make(chan []byte, 16)
		f.mu.Lock()
		f.clients[conn] = ch
		f.mu.Unlock()

		logger.Debug("Cliente conectado al feed de watchdog", "WebServer")

		go f.writer(conn, ch)
		go f.reader(conn)
	}
}

// writer pushes queued events and pings to one client
func (f *Feed) writer(conn *websocket.Conn, ch chan []byte) {
	ping := time.NewTicker(30 * time.Second)
	defer func() {
		ping.Stop()
		f.remove(conn)
	}()

	for {
		select {
		case data, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reader drains client frames so pong handling works and closes fire
func (f *Feed) reader(conn *websocket.Conn) {
	defer f.remove(conn)
	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// remove detaches a client; safe to call twice
func (f *Feed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		close(ch)
		_ = conn.Close()
	}
}

// ClientCount returns how many feed clients are connected
func (f *Feed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}
