package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/mentorship-backend/utils"
)

type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// NewUpgrader accepts any origin when allowed is empty.
func NewUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, o := range allowed {
				if o == origin {
					return true
				}
			}
			return false
		},
	}
}

// HandleDashboardWebSocket streams reload signals to the caller's dashboard.
// The session token is passed as ?token= since browsers cannot set headers
// on websocket requests.
func HandleDashboardWebSocket(hub *Hub, verifier TokenVerifier, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := verifier.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		client := hub.Register(claims.UserID, conn)
		go hub.writePump(client)
		defer hub.Unregister(claims.UserID, client)

		hub.logger.Debug("dashboard websocket connected", "user_id", claims.UserID)
		client.Send <- []byte(`{"type":"connected"}`)

		hub.readPump(client)
		hub.logger.Debug("dashboard websocket disconnected", "user_id", claims.UserID)
	}
}
