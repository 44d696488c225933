// internal/web/websocket.go
package web

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        return true // Allow all origins in development
    },
}

// WSMessage is one entry of the change feed.
type WSMessage struct {
    Type      string      `json:"type"`
    Data      interface{} `json:"data"`
    Timestamp time.Time   `json:"timestamp"`
}

type WSClient struct {
    id     string
    userID string
    conn   *websocket.Conn
    send   chan WSMessage
    server *Server
}

// handleWebSocket subscribes the caller to changes made under their identity.
func (s *Server) handleWebSocket(c *gin.Context) {
    user := s.gateway.CurrentUser(c.Request.Context())

    conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
    if err != nil {
        logrus.WithError(err).Error("Failed to upgrade websocket")
        return
    }

    client := &WSClient{
        id:     uuid.New().String(),
        userID: user.ID,
        conn:   conn,
        send:   make(chan WSMessage, 256),
        server: s,
    }
    s.register(client)

    go client.writePump()
    go client.readPump()
}

func (s *Server) register(client *WSClient) {
    s.clientsMu.Lock()
    s.wsClients[client] = true
    s.clientsMu.Unlock()

    if s.metrics != nil {
        s.metrics.RecordWebSocketConnection(1)
    }
    logrus.WithFields(logrus.Fields{"client": client.id, "user": client.userID}).Debug("WebSocket client connected")
}

// unregister closes the client's queue once; it reports whether the client
// was still registered.
func (s *Server) unregister(client *WSClient) bool {
    s.clientsMu.Lock()
    defer s.clientsMu.Unlock()
    return s.unregisterLocked(client)
}

func (s *Server) unregisterLocked(client *WSClient) bool {
    if !s.wsClients[client] {
        return false
    }
    delete(s.wsClients, client)
    close(client.send)
    if s.metrics != nil {
        s.metrics.RecordWebSocketConnection(-1)
    }
    return true
}

func (s *Server) closeClients() {
    s.clientsMu.Lock()
    defer s.clientsMu.Unlock()
    for client := range s.wsClients {
        s.unregisterLocked(client)
    }
}

func (c *WSClient) writePump() {
    ticker := time.NewTicker(54 * time.Second)
    defer func() {
        ticker.Stop()
        c.conn.Close()
        c.server.unregister(c)
    }()

    for {
        select {
        case message, ok := <-c.send:
            c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
            if !ok {
                c.conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }

            if err := c.conn.WriteJSON(message); err != nil {
                return
            }

        case <-ticker.C:
            c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
            if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

func (c *WSClient) readPump() {
    defer func() {
        c.server.unregister(c)
        c.conn.Close()
    }()

    c.conn.SetReadLimit(512)
    c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
    c.conn.SetPongHandler(func(string) error {
        c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
        return nil
    })

    for {
        _, _, err := c.conn.ReadMessage()
        if err != nil {
            break
        }
    }
}

// broadcast queues message for every client of userID. Clients that cannot
// keep up are dropped.
func (s *Server) broadcast(userID string, message WSMessage) {
    s.clientsMu.Lock()
    defer s.clientsMu.Unlock()

    for client := range s.wsClients {
        if client.userID != userID {
            continue
        }
        select {
        case client.send <- message:
        default:
            s.unregisterLocked(client)
        }
    }
}

// notify publishes a change made by the current request's caller.
func (s *Server) notify(c *gin.Context, kind string, data interface{}) {
    user := s.gateway.CurrentUser(c.Request.Context())
    s.broadcast(user.ID, WSMessage{Type: kind, Data: data, Timestamp: time.Now()})
}
