// Package chat contains the session/room coordination engine: the action
// state machine that decides, for each inbound client action, which state
// changes to apply and which events go to which connections.
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/models"
	"chat-relay/internal/store"
	"chat-relay/pkg/logger"
)

// Notifier is the delivery port the coordinator pushes events through. The
// transport adapter implements fan-out; delivery is fire-and-forget.
type Notifier interface {
	// Direct delivers to a single connection.
	Direct(connID string, evt models.Event)
	// Room delivers to every current participant of a room except the
	// excluded connection ids.
	Room(roomID string, exclude []string, evt models.Event)
	// Broadcast delivers to every connection except the excluded ids.
	Broadcast(evt models.Event, exclude ...string)
}

const (
	msgUserNotFound  = "User not found. Please refresh and try again."
	msgRoomNotFound  = "Room not found."
	msgNotInRoom     = "You must be in a room to send messages."
	msgEmptyUsername = "Username cannot be empty."
	msgEmptyMessage  = "Message cannot be empty."
	msgInternal      = "Something went wrong. Please try again."
)

// Coordinator owns all mutable chat state. Every action runs start to
// finish under one mutex, so the remove-participant / delete-empty-room
// sequence is a single atomic unit and no action ever observes a half
// applied state.
type Coordinator struct {
	mu       sync.Mutex
	users    *store.Directory
	rooms    *store.RoomStore
	notifier Notifier
}

func NewCoordinator(users *store.Directory, rooms *store.RoomStore, notifier Notifier) *Coordinator {
	return &Coordinator{
		users:    users,
		rooms:    rooms,
		notifier: notifier,
	}
}

// JoinWithUsername registers a display name for a connection. Re-joining
// with the same connection id overwrites the previous record.
func (c *Coordinator) JoinWithUsername(connID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.users.Register(connID, username)
	if err != nil {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgEmptyUsername})
		return
	}

	c.notifier.Direct(connID, models.UserJoinedEvent{
		UserID:   connID,
		Username: user.Username,
		Rooms:    c.rooms.Summaries(),
	})
	logger.Info("User %s (%s) joined", user.Username, connID)
}

// CreateRoom creates a room with the actor as its sole participant. The
// creator learns about the room through roomCreated; everyone else gets the
// refreshed room list.
func (c *Coordinator) CreateRoom(connID, roomName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.Lookup(connID)
	if !ok {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgUserNotFound})
		return
	}

	room := c.rooms.Create(roomName, connID)
	c.rooms.AddParticipant(room.ID, connID)
	c.users.SetCurrentRoom(connID, room.ID)

	room, _ = c.rooms.Get(room.ID)
	c.notifier.Direct(connID, models.RoomCreatedEvent{Room: room})
	c.notifier.Broadcast(models.RoomListUpdatedEvent{Rooms: c.rooms.Summaries()}, connID)
	logger.Info("Room %q created by %s", roomName, user.Username)
}

// JoinRoom moves the actor into a room, leaving its current room first if
// it has one.
func (c *Coordinator) JoinRoom(connID, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.Lookup(connID)
	if !ok {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgUserNotFound})
		return
	}
	if _, ok := c.rooms.Get(roomID); !ok {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgRoomNotFound})
		return
	}

	if user.CurrentRoom != "" {
		c.leaveCurrentRoom(user)
	}

	// Leaving the old room can have deleted the target when both were the
	// same room and the actor was its last participant.
	if !c.rooms.AddParticipant(roomID, connID) {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgRoomNotFound})
		return
	}
	c.users.SetCurrentRoom(connID, roomID)

	room, _ := c.rooms.Get(roomID)
	c.notifier.Direct(connID, models.JoinedRoomEvent{
		Room:         room,
		Messages:     c.rooms.Messages(roomID),
		Participants: c.participantInfos(roomID),
	})
	c.notifier.Room(roomID, []string{connID}, models.UserJoinedRoomEvent{
		UserID:           connID,
		Username:         user.Username,
		ParticipantCount: len(room.Participants),
	})
	c.notifier.Broadcast(models.RoomListUpdatedEvent{Rooms: c.rooms.Summaries()})
	logger.Info("User %s joined room %q", user.Username, room.Name)
}

// LeaveRoom removes the actor from its current room. A silent no-op when
// the actor is unknown or not in a room.
func (c *Coordinator) LeaveRoom(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.Lookup(connID)
	if !ok || user.CurrentRoom == "" {
		return
	}

	c.leaveCurrentRoom(user)
	c.notifier.Direct(connID, models.LeftRoomEvent{})
	logger.Info("User %s left room", user.Username)
}

// SendMessage appends a message to the actor's current room and fans it out
// to every participant, the sender included.
func (c *Coordinator) SendMessage(connID, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.Lookup(connID)
	if !ok || user.CurrentRoom == "" {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgNotInRoom})
		return
	}
	if strings.TrimSpace(body) == "" {
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgEmptyMessage})
		return
	}

	msg := models.Message{
		ID:         uuid.NewString(),
		Body:       body,
		SenderID:   connID,
		SenderName: user.Username,
		RoomID:     user.CurrentRoom,
		SentAt:     time.Now(),
	}
	if err := c.rooms.Append(msg); err != nil {
		logger.Error("Dropping message from %s: %v", connID, err)
		c.notifier.Direct(connID, models.ErrorEvent{Message: msgInternal})
		return
	}

	c.notifier.Room(user.CurrentRoom, nil, models.ReceiveMessageEvent{Message: msg})
	logger.Debug("Message from %s in room %s", user.Username, user.CurrentRoom)
}

// Disconnect tears down a connection's state: the leave-room effect first
// when it was in a room, then the directory entry. Called exactly once per
// closed connection by the transport; a repeat call is a no-op.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.users.Lookup(connID)
	if !ok {
		return
	}

	if user.CurrentRoom != "" {
		c.leaveCurrentRoom(user)
	}
	c.users.Unregister(connID)
	logger.Info("User %s (%s) disconnected", user.Username, connID)
}

// leaveCurrentRoom applies the full leave effect for user's current room:
// remove the participant, delete the room if that emptied it, notify the
// remaining members, and refresh everyone's room list. Callers hold c.mu.
func (c *Coordinator) leaveCurrentRoom(user models.User) {
	roomID := user.CurrentRoom
	room, ok := c.rooms.Get(roomID)
	if !ok {
		// The directory said the user was here; the room store disagrees.
		logger.Error("User %s references missing room %s", user.ID, roomID)
		c.users.SetCurrentRoom(user.ID, "")
		c.notifier.Direct(user.ID, models.ErrorEvent{Message: msgInternal})
		return
	}

	c.rooms.RemoveParticipant(roomID, user.ID)
	c.users.SetCurrentRoom(user.ID, "")

	remaining := c.rooms.Participants(roomID)
	if len(remaining) > 0 {
		c.notifier.Room(roomID, []string{user.ID}, models.UserLeftRoomEvent{
			UserID:           user.ID,
			Username:         user.Username,
			ParticipantCount: len(remaining),
		})
	} else {
		logger.Info("Room %q deleted (empty)", room.Name)
	}
	c.notifier.Broadcast(models.RoomListUpdatedEvent{Rooms: c.rooms.Summaries()})
}

// participantInfos resolves participant ids to display names, falling back
// to "Unknown" for an id with no directory entry.
func (c *Coordinator) participantInfos(roomID string) []models.ParticipantInfo {
	ids := c.rooms.Participants(roomID)
	infos := make([]models.ParticipantInfo, 0, len(ids))
	for _, id := range ids {
		username := "Unknown"
		if u, ok := c.users.Lookup(id); ok {
			username = u.Username
		}
		infos = append(infos, models.ParticipantInfo{ID: id, Username: username})
	}
	return infos
}
