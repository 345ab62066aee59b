package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/realtime"
	"github.com/yukikurage/civicconnect-api/internal/token"
)

// WSHandler upgrades /ws requests and registers them with the hub.
type WSHandler struct {
	hub      *realtime.Hub
	tokens   *token.Manager
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WSHandler accepting connections from allowedOrigin.
// An empty allowedOrigin or "*" accepts any origin.
func NewWSHandler(hub *realtime.Hub, tokens *token.Manager, allowedOrigin string) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

// Connect authenticates the optional credential, then upgrades. Anonymous
// connections only join the broadcast room; a bad credential is refused.
func (h *WSHandler) Connect(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		if header := c.GetHeader("Authorization"); header != "" {
			credential, err := token.FromHeader(header)
			if err != nil {
				apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid authorization header"))
				return
			}
			raw = credential
		}
	}

	var userID uint64
	if raw != "" {
		claims, err := h.tokens.Parse(raw)
		if err != nil {
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidToken, "Invalid or expired token"))
			return
		}
		userID = claims.UserID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	rooms := []string{realtime.RoomAllUsers}
	if userID != 0 {
		rooms = append(rooms, realtime.UserRoom(userID))
	}

	client := realtime.NewWebSocketClient(h.hub, conn, userID)
	if !h.hub.Register(client, rooms...) {
		conn.Close()
		return
	}
	client.Run()
}
