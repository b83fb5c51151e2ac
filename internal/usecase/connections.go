package usecase

import (
	"sync"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

// Binding locates a connection's seat.
type Binding struct {
	RoomID string
	Slot   entity.Slot
}

// ConnectionMapper keeps exactly one binding per live connection. Bindings
// are weak: removing one never removes the room it points at.
type ConnectionMapper struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

func NewConnectionMapper() *ConnectionMapper {
	return &ConnectionMapper{
		bindings: make(map[string]Binding),
	}
}

// Bind overwrites any previous binding of connID and returns it.
func (that *ConnectionMapper) Bind(connID, roomID string, slot entity.Slot) (Binding, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	prev, replaced := that.bindings[connID]
	that.bindings[connID] = Binding{RoomID: roomID, Slot: slot}

	return prev, replaced
}

func (that *ConnectionMapper) Resolve(connID string) (Binding, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	binding, ok := that.bindings[connID]

	return binding, ok
}

func (that *ConnectionMapper) Unbind(connID string) (Binding, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	binding, ok := that.bindings[connID]
	if ok {
		delete(that.bindings, connID)
	}

	return binding, ok
}

// UnbindRoom drops every binding that points at roomID.
func (that *ConnectionMapper) UnbindRoom(roomID string) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var removed []string
	for connID, binding := range that.bindings {
		if binding.RoomID == roomID {
			delete(that.bindings, connID)
			removed = append(removed, connID)
		}
	}

	return removed
}

func (that *ConnectionMapper) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.bindings)
}
