package store

import (
	"fmt"
	"strings"
	"sync"

	"chat-relay/internal/models"
)

// Directory is the in-memory registry of connected users, keyed by
// connection id. A user holds at most one current room at a time.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]*models.User),
	}
}

// Register creates the user record for a connection. The display name must
// be non-empty after trimming. Registering an id that already exists
// overwrites the previous record.
func (d *Directory) Register(connID, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user := &models.User{ID: connID, Username: username}
	d.users[connID] = user
	return *user, nil
}

// Lookup returns a snapshot of the user record for a connection.
func (d *Directory) Lookup(connID string) (models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[connID]
	if !ok {
		return models.User{}, false
	}
	return *user, true
}

// SetCurrentRoom records the room a user is in; an empty roomID clears it.
// Returns false if the user is not registered.
func (d *Directory) SetCurrentRoom(connID, roomID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[connID]
	if !ok {
		return false
	}
	user.CurrentRoom = roomID
	return true
}

// Unregister removes the user record; a no-op when the id is unknown.
func (d *Directory) Unregister(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, connID)
}
