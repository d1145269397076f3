package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"node-cache-api/internal/middleware"
	"node-cache-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 1024
)

// wsClient implements realtime.Client over a websocket connection.
// gorilla/websocket allows one writer at a time, so every write (events
// from concurrent handlers and keep-alive pings alike) goes through writeMu.
// A failed write closes the connection, which ends the read loop and
// unregisters the client.
type wsClient struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn}
}

func (c *wsClient) write(messageType int, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	if err := c.write(websocket.TextMessage, message); err != nil {
		c.Close()
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c == nil || c.conn == nil {
		return
	}
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// keepAlive pings the peer every wsPingPeriod until done is closed or a ping fails.
func (c *wsClient) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readUntilClosed drains inbound frames so pong handling keeps working.
// It returns once the peer goes away or the connection is closed locally.
func (c *wsClient) readUntilClosed() {
	c.conn.SetReadLimit(wsReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled at the gin level
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler handles GET /ws: it upgrades the connection and streams
// the user's entry events until the peer goes away.
func WebSocketHandler(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := newWSClient(conn)
	hub := realtime.GetHub()
	hub.Register(userID, client)
	log.Printf("websocket: user %s connected (%d open)", userID, hub.Clients(userID))

	done := make(chan struct{})
	go client.keepAlive(done)
	defer func() {
		close(done)
		hub.Unregister(userID, client)
		client.Close()
		log.Printf("websocket: user %s disconnected (%d open)", userID, hub.Clients(userID))
	}()

	client.readUntilClosed()
}
