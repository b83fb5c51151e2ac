package usecase

import (
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/pkg"
	"github.com/rocketscienceinc/rps-backend/internal/repository"
)

const maxRoomIDAttempts = 16

type roomStore interface {
	Insert(id string, s *session) bool
	Get(id string) (*session, bool)
	Delete(id string) (*session, bool)
	Values() []*session
	Len() int
}

// RoomRegistry is the set of live rooms keyed by room id.
type RoomRegistry struct {
	logger    *slog.Logger
	store     roomStore
	clock     clock.Clock
	maxRounds int

	generateID func() (string, error)
}

func NewRoomRegistry(logger *slog.Logger, store roomStore, clk clock.Clock, maxRounds int) *RoomRegistry {
	if store == nil {
		store = repository.NewMemoryStore[*session]()
	}

	if clk == nil {
		clk = clock.New()
	}

	return &RoomRegistry{
		logger:     logger.With("component", "room-registry"),
		store:      store,
		clock:      clk,
		maxRounds:  maxRounds,
		generateID: pkg.GenerateRoomID,
	}
}

// CreateRoom registers an empty room under a fresh id and starts its worker.
func (that *RoomRegistry) CreateRoom() (*session, error) {
	log := that.logger.With("method", "CreateRoom")

	for attempt := 1; attempt <= maxRoomIDAttempts; attempt++ {
		id, err := that.generateID()
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		room := entity.NewRoom(id, that.maxRounds, that.clock.Now())
		s := newSession(room)
		if !that.store.Insert(id, s) {
			log.Debug("room id collision", "roomID", id, "attempt", attempt)
			continue
		}

		s.start()

		log.Info("room created", "roomID", id)

		return s, nil
	}

	return nil, apperror.ErrRoomIDExhausted
}

func (that *RoomRegistry) Lookup(id string) (*session, bool) {
	return that.store.Get(pkg.NormalizeRoomID(id))
}

// Remove unregisters the room and stops its worker.
func (that *RoomRegistry) Remove(id string) (*session, bool) {
	s, ok := that.store.Delete(id)
	if !ok {
		return nil, false
	}

	s.close()

	return s, true
}

func (that *RoomRegistry) Sessions() []*session {
	return that.store.Values()
}

func (that *RoomRegistry) Len() int {
	return that.store.Len()
}
