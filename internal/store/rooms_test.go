package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/internal/models"
)

func TestCreateRoom(t *testing.T) {
	s := NewRoomStore()

	room := s.Create("general", "c1")
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "general", room.Name)
	assert.Equal(t, "c1", room.CreatedBy)
	assert.WithinDuration(t, time.Now(), room.CreatedAt, time.Second)
	assert.Empty(t, room.Participants, "creator joins through AddParticipant, not at creation")

	got, ok := s.Get(room.ID)
	require.True(t, ok)
	assert.Equal(t, room.ID, got.ID)

	other := s.Create("general", "c1")
	assert.NotEqual(t, room.ID, other.ID, "ids must be unique even for equal names")
}

func TestSummariesFollowInsertionOrder(t *testing.T) {
	s := NewRoomStore()

	var want []string
	for i := 0; i < 5; i++ {
		room := s.Create(fmt.Sprintf("room-%d", i), "c1")
		want = append(want, room.ID)
	}

	summaries := s.Summaries()
	require.Len(t, summaries, 5)
	for i, summary := range summaries {
		assert.Equal(t, want[i], summary.ID)
		assert.Equal(t, fmt.Sprintf("room-%d", i), summary.Name)
		assert.Zero(t, summary.ParticipantCount)
	}
}

func TestAddParticipantDeduplicates(t *testing.T) {
	s := NewRoomStore()
	room := s.Create("general", "c1")

	require.True(t, s.AddParticipant(room.ID, "c1"))
	require.True(t, s.AddParticipant(room.ID, "c1"))
	require.True(t, s.AddParticipant(room.ID, "c2"))

	assert.Equal(t, []string{"c1", "c2"}, s.Participants(room.ID))
}

func TestAddParticipantMissingRoom(t *testing.T) {
	s := NewRoomStore()
	assert.False(t, s.AddParticipant("nope", "c1"))
}

func TestRemoveParticipantKeepsPopulatedRoom(t *testing.T) {
	s := NewRoomStore()
	room := s.Create("general", "c1")
	s.AddParticipant(room.ID, "c1")
	s.AddParticipant(room.ID, "c2")

	require.True(t, s.RemoveParticipant(room.ID, "c2"))

	got, ok := s.Get(room.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"c1"}, got.Participants)
}

func TestRemoveLastParticipantDeletesRoomAndLog(t *testing.T) {
	s := NewRoomStore()
	room := s.Create("general", "c1")
	s.AddParticipant(room.ID, "c1")
	require.NoError(t, s.Append(models.Message{ID: "m1", RoomID: room.ID, Body: "hi"}))

	require.True(t, s.RemoveParticipant(room.ID, "c1"))

	_, ok := s.Get(room.ID)
	assert.False(t, ok, "emptied room must be gone in the same call")
	assert.Empty(t, s.Messages(room.ID))
	assert.Empty(t, s.Summaries())
	assert.False(t, s.AddParticipant(room.ID, "c2"), "deleted room cannot be rejoined")
}

func TestRemoveParticipantMissingRoom(t *testing.T) {
	s := NewRoomStore()
	assert.False(t, s.RemoveParticipant("nope", "c1"))
}

func TestAppendToMissingLog(t *testing.T) {
	s := NewRoomStore()
	err := s.Append(models.Message{ID: "m1", RoomID: "nope"})
	require.ErrorIs(t, err, ErrInternalInconsistency)
}

func TestMessagesKeepSendOrder(t *testing.T) {
	s := NewRoomStore()
	room := s.Create("general", "c1")
	s.AddParticipant(room.ID, "c1")

	for i := 0; i < 10; i++ {
		msg := models.Message{ID: fmt.Sprintf("m%d", i), RoomID: room.ID, Body: fmt.Sprintf("body %d", i)}
		require.NoError(t, s.Append(msg))
	}

	got := s.Messages(room.ID)
	require.Len(t, got, 10)
	for i, msg := range got {
		assert.Equal(t, fmt.Sprintf("m%d", i), msg.ID)
	}
}

func TestMessagesMissingRoomIsEmpty(t *testing.T) {
	s := NewRoomStore()
	assert.Empty(t, s.Messages("nope"))
}
