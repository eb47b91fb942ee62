package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Actions is what the transport needs from the coordinator: one method per
// client action, each tagged with the acting connection's id.
type Actions interface {
	JoinWithUsername(connID, username string)
	CreateRoom(connID, roomName string)
	JoinRoom(connID, roomID string)
	LeaveRoom(connID string)
	SendMessage(connID, body string)
	Disconnect(connID string)
}

// Client is one live WebSocket connection. Its id is minted at upgrade
// time, never reused, and is the handle all chat state is keyed by.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	actions Actions
}

func NewClient(hub *Hub, conn *websocket.Conn, actions Actions, sendBuffer int) *Client {
	return &Client{
		id:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		actions: actions,
	}
}

func (c *Client) ID() string {
	return c.id
}

// ReadPump decodes inbound frames and dispatches them to the coordinator.
// When the connection drops, it fires the single Disconnect for this
// connection id before unregistering from the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.actions.Disconnect(c.id)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame []byte) {
	var envelope models.Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		logger.Error("Client %s sent malformed frame: %v", c.id, err)
		return
	}

	switch envelope.Type {
	case models.ActionJoinWithUsername:
		var req models.JoinWithUsernameRequest
		if c.decode(envelope.Data, &req) {
			c.actions.JoinWithUsername(c.id, req.Username)
		}
	case models.ActionCreateRoom:
		var req models.CreateRoomRequest
		if c.decode(envelope.Data, &req) {
			c.actions.CreateRoom(c.id, req.RoomName)
		}
	case models.ActionJoinRoom:
		var req models.JoinRoomRequest
		if c.decode(envelope.Data, &req) {
			c.actions.JoinRoom(c.id, req.RoomID)
		}
	case models.ActionLeaveRoom:
		c.actions.LeaveRoom(c.id)
	case models.ActionSendMessage:
		var req models.SendMessageRequest
		if c.decode(envelope.Data, &req) {
			c.actions.SendMessage(c.id, req.Message)
		}
	default:
		logger.Debug("Client %s sent unknown action %q", c.id, envelope.Type)
	}
}

func (c *Client) decode(data json.RawMessage, dst interface{}) bool {
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Error("Client %s sent bad payload: %v", c.id, err)
		return false
	}
	return true
}

// WritePump drains the send buffer onto the wire and keeps the connection
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
