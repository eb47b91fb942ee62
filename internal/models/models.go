package models

import "time"

// User is a connected client that has announced a display name. The
// connection id doubles as the user key for the life of the connection.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	CurrentRoom string `json:"currentRoom,omitempty"`
}

// Room holds an ordered participant set. Rooms live only while they have at
// least one participant; the store deletes a room the moment it empties.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	Participants []string  `json:"participants"`
}

type Message struct {
	ID         string    `json:"id"`
	Body       string    `json:"message"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	RoomID     string    `json:"roomId"`
	SentAt     time.Time `json:"timestamp"`
}

type RoomSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParticipantCount int    `json:"participantCount"`
}

type ParticipantInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Inbound action payloads.
type JoinWithUsernameRequest struct {
	Username string `json:"username"`
}

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}
