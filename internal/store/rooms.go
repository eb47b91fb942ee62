package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/models"
)

// RoomStore is the in-memory registry of rooms and their message logs. A
// room exists only while it has participants: RemoveParticipant deletes the
// room and its log in the same call that empties it, so no caller can ever
// observe a live room with zero participants.
type RoomStore struct {
	mu       sync.RWMutex
	rooms    map[string]*models.Room
	messages map[string][]models.Message
	order    []string
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:    make(map[string]*models.Room),
		messages: make(map[string][]models.Message),
	}
}

// Create inserts a new room with a fresh id and an empty participant set.
// The caller is responsible for adding the creator through AddParticipant.
func (s *RoomStore) Create(name, creatorID string) models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := &models.Room{
		ID:           uuid.NewString(),
		Name:         name,
		CreatedBy:    creatorID,
		CreatedAt:    time.Now(),
		Participants: []string{},
	}
	s.rooms[room.ID] = room
	s.messages[room.ID] = []models.Message{}
	s.order = append(s.order, room.ID)
	return snapshotRoom(room)
}

// Get returns a snapshot of a room.
func (s *RoomStore) Get(roomID string) (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return models.Room{}, false
	}
	return snapshotRoom(room), true
}

// Summaries lists all rooms in insertion order.
func (s *RoomStore) Summaries() []models.RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.RoomSummary, 0, len(s.order))
	for _, id := range s.order {
		room := s.rooms[id]
		summaries = append(summaries, models.RoomSummary{
			ID:               room.ID,
			Name:             room.Name,
			ParticipantCount: len(room.Participants),
		})
	}
	return summaries
}

// AddParticipant adds a connection to a room, ignoring duplicates. Returns
// false when the room does not exist.
func (s *RoomStore) AddParticipant(roomID, connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	for _, id := range room.Participants {
		if id == connID {
			return true
		}
	}
	room.Participants = append(room.Participants, connID)
	return true
}

// RemoveParticipant removes a connection from a room. When the removal
// leaves the room empty, the room and its message log are deleted before
// the call returns. Returns false when the room does not exist.
func (s *RoomStore) RemoveParticipant(roomID, connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}

	kept := room.Participants[:0]
	for _, id := range room.Participants {
		if id != connID {
			kept = append(kept, id)
		}
	}
	room.Participants = kept

	if len(room.Participants) == 0 {
		s.deleteRoomLocked(roomID)
	}
	return true
}

// Participants returns the current participant ids of a room, or an empty
// slice when the room does not exist.
func (s *RoomStore) Participants(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return []string{}
	}
	out := make([]string, len(room.Participants))
	copy(out, room.Participants)
	return out
}

// Append adds a message to its room's log. A missing log means the room
// vanished while someone still referenced it.
func (s *RoomStore) Append(msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.messages[msg.RoomID]
	if !ok {
		return fmt.Errorf("%w: no message log for room %s", ErrInternalInconsistency, msg.RoomID)
	}
	s.messages[msg.RoomID] = append(log, msg)
	return nil
}

// Messages returns a room's log in send order, empty when the room is gone
// or has no messages.
func (s *RoomStore) Messages(roomID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.messages[roomID]
	if !ok {
		return []models.Message{}
	}
	out := make([]models.Message, len(log))
	copy(out, log)
	return out
}

func (s *RoomStore) deleteRoomLocked(roomID string) {
	delete(s.rooms, roomID)
	delete(s.messages, roomID)
	for i, id := range s.order {
		if id == roomID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func snapshotRoom(room *models.Room) models.Room {
	out := *room
	out.Participants = make([]string, len(room.Participants))
	copy(out.Participants, room.Participants)
	return out
}
