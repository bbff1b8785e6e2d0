package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fsgraph/internal/middleware"
	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 8192
)

// HandleWebSocket upgrades the request to a navigation session
func HandleWebSocket(hub *services.WebSocketHub, allowedOrigins []string, security *middleware.SecurityLogger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Non-browser clients send no Origin
			return origin == "" || middleware.SameOrigin(r, origin) || middleware.OriginAllowed(allowedOrigins, origin)
		},
	}

	return func(c *gin.Context) {
		clientName := "anonymous"
		if claims, ok := c.Get(middleware.ClaimsKey); ok {
			clientName = claims.(*services.CustomClaims).ClientName
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "ip", c.ClientIP(), "error", err)
			return
		}
		security.LogWebSocketConnected(c.ClientIP(), clientName)

		client := services.NewClientConnection(clientName+"-"+uuid.NewString(), ws)
		hub.Register(client)

		go writePump(client)
		go readPump(client, hub)
	}
}

// readPump reads requests from the client and queues the replies
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(wsMaxMessageSize)
	_ = client.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "client", client.ID, "error", err)
			}
			return
		}

		reply := hub.HandleMessage(ctx, msg)
		select {
		case client.Send <- reply:
		case <-client.Close:
			return
		}
	}
}

// writePump writes replies and keepalive pings to the client
func writePump(client *services.ClientConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.Conn.WriteJSON(msg); err != nil {
				slog.Warn("websocket write error", "client", client.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.Close:
			_ = client.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}
