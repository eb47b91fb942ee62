package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chat-relay/internal/config"
	ws "chat-relay/internal/websocket"
	"chat-relay/pkg/logger"
)

type WebSocketHandlers struct {
	hub        *ws.Hub
	actions    ws.Actions
	sendBuffer int
	upgrader   websocket.Upgrader
}

func NewWebSocketHandlers(hub *ws.Hub, actions ws.Actions, cfg config.ServerConfig) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:        hub,
		actions:    actions,
		sendBuffer: cfg.SendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}
}

// HandleWebSocket upgrades the connection, mints its connection id, and
// starts the client pumps. All further interaction happens over the socket.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, h.actions, h.sendBuffer)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleRoot is a plain liveness endpoint.
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Write([]byte("chat-relay server is running"))
}
