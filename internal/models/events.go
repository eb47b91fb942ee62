package models

import "encoding/json"

type EventType string

const (
	EventUserJoined      EventType = "userJoined"
	EventRoomCreated     EventType = "roomCreated"
	EventJoinedRoom      EventType = "joinedRoom"
	EventLeftRoom        EventType = "leftRoom"
	EventReceiveMessage  EventType = "receiveMessage"
	EventUserJoinedRoom  EventType = "userJoinedRoom"
	EventUserLeftRoom    EventType = "userLeftRoom"
	EventRoomListUpdated EventType = "roomListUpdated"
	EventError           EventType = "error"
)

// Event is the closed set of payloads the server pushes to clients. Each
// variant carries a fixed field set and reports its own wire type.
type Event interface {
	EventType() EventType
}

type UserJoinedEvent struct {
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Rooms    []RoomSummary `json:"rooms"`
}

type RoomCreatedEvent struct {
	Room Room `json:"room"`
}

type JoinedRoomEvent struct {
	Room         Room              `json:"room"`
	Messages     []Message         `json:"messages"`
	Participants []ParticipantInfo `json:"participants"`
}

type LeftRoomEvent struct{}

type ReceiveMessageEvent struct {
	Message
}

type UserJoinedRoomEvent struct {
	UserID           string `json:"userId"`
	Username         string `json:"username"`
	ParticipantCount int    `json:"participantCount"`
}

type UserLeftRoomEvent struct {
	UserID           string `json:"userId"`
	Username         string `json:"username"`
	ParticipantCount int    `json:"participantCount"`
}

type RoomListUpdatedEvent struct {
	Rooms []RoomSummary `json:"rooms"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

func (UserJoinedEvent) EventType() EventType      { return EventUserJoined }
func (RoomCreatedEvent) EventType() EventType     { return EventRoomCreated }
func (JoinedRoomEvent) EventType() EventType      { return EventJoinedRoom }
func (LeftRoomEvent) EventType() EventType        { return EventLeftRoom }
func (ReceiveMessageEvent) EventType() EventType  { return EventReceiveMessage }
func (UserJoinedRoomEvent) EventType() EventType  { return EventUserJoinedRoom }
func (UserLeftRoomEvent) EventType() EventType    { return EventUserLeftRoom }
func (RoomListUpdatedEvent) EventType() EventType { return EventRoomListUpdated }
func (ErrorEvent) EventType() EventType           { return EventError }

// Client-to-server action names.
const (
	ActionJoinWithUsername = "joinWithUsername"
	ActionCreateRoom       = "createRoom"
	ActionJoinRoom         = "joinRoom"
	ActionLeaveRoom        = "leaveRoom"
	ActionSendMessage      = "sendMessage"
)

// Envelope is the wire frame used in both directions: a type tag plus the
// payload for that type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent wraps an event in an Envelope and marshals it for the wire.
func EncodeEvent(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: string(evt.EventType()), Data: data})
}
