package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// LAN-only deployment; origins are not known in advance.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the request and keeps the connection registered until
// the client goes away. Clients only listen; inbound messages are drained
// to detect disconnects.
func Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("events: upgrade failed: %v", err)
		return
	}
	RegisterClient(conn)

	go func() {
		defer UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
