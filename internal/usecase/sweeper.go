package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/scheduler"
)

// graceTimers tracks the pending grace callbacks of every room so they can be
// cancelled when the room goes away.
type graceTimers struct {
	mu      sync.Mutex
	next    uint64
	handles map[string]map[uint64]scheduler.Handle
	fired   map[uint64]struct{}
}

func newGraceTimers() *graceTimers {
	return &graceTimers{
		handles: make(map[string]map[uint64]scheduler.Handle),
		fired:   make(map[uint64]struct{}),
	}
}

// arm creates the timer outside mu; its callback may run before it is recorded.
func (that *graceTimers) arm(sched *scheduler.Scheduler, d time.Duration, roomID string, fn func()) {
	that.mu.Lock()
	that.next++
	id := that.next
	that.mu.Unlock()

	handle := sched.After(d, func() {
		that.release(roomID, id)
		fn()
	})

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.fired[id]; ok {
		delete(that.fired, id)
		return
	}

	if that.handles[roomID] == nil {
		that.handles[roomID] = make(map[uint64]scheduler.Handle)
	}
	that.handles[roomID][id] = handle
}

func (that *graceTimers) release(roomID string, id uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.handles[roomID][id]; !ok {
		that.fired[id] = struct{}{}
		return
	}

	delete(that.handles[roomID], id)
	if len(that.handles[roomID]) == 0 {
		delete(that.handles, roomID)
	}
}

func (that *graceTimers) cancelAll(roomID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	cancelled := 0
	for _, handle := range that.handles[roomID] {
		if handle.Cancel() {
			cancelled++
		}
	}
	delete(that.handles, roomID)

	return cancelled
}

func (that *graceTimers) pending(roomID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.handles[roomID])
}

func (that *GameManager) armGrace(roomID string) {
	that.grace.arm(that.scheduler, that.opts.GracePeriod, roomID, func() {
		that.evictIfAbandoned(context.Background(), roomID)
	})
}

// evictIfAbandoned deletes the room when no human participant is connected.
// The check runs on the room goroutine, so a join queued before it wins.
func (that *GameManager) evictIfAbandoned(ctx context.Context, roomID string) bool {
	s, ok := that.rooms.Lookup(roomID)
	if !ok {
		return false
	}

	abandoned := false

	err := s.do(ctx, func(s *session) error {
		if s.room.AnyConnected() {
			return nil
		}

		that.shutdownSession(s, ReasonAbandoned)
		abandoned = true

		return nil
	})
	if err != nil || !abandoned {
		return false
	}

	that.removeRoom(s)

	that.logger.Info("room evicted", "roomID", roomID, "reason", ReasonAbandoned)

	return true
}

// SweepExpired deletes every room older than the room TTL, connected or not.
func (that *GameManager) SweepExpired(ctx context.Context) int {
	now := that.scheduler.Now()
	removed := 0

	for _, s := range that.rooms.Sessions() {
		expired := false

		err := s.do(ctx, func(s *session) error {
			if now.Sub(s.room.CreatedAt) <= that.opts.RoomTTL {
				return nil
			}

			that.shutdownSession(s, ReasonExpired)
			expired = true

			return nil
		})
		if err != nil || !expired {
			continue
		}

		that.removeRoom(s)
		removed++

		that.logger.Info("room evicted", "roomID", s.id(), "reason", ReasonExpired)
	}

	return removed
}

// RunSweeper runs the TTL sweep on every tick until ctx is done.
func (that *GameManager) RunSweeper(ctx context.Context) {
	log := that.logger.With("method", "RunSweeper")

	ticker := that.scheduler.Ticker(that.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := that.SweepExpired(ctx); removed > 0 {
				log.Info("expired rooms removed", "count", removed, "activeRooms", that.rooms.Len())
			}
		}
	}
}

// Shutdown closes every room and tells connected participants why.
func (that *GameManager) Shutdown(ctx context.Context) {
	for _, s := range that.rooms.Sessions() {
		err := s.do(ctx, func(s *session) error {
			that.shutdownSession(s, ReasonShutdown)
			return nil
		})
		if err != nil {
			continue
		}

		that.removeRoom(s)
	}
}

// shutdownSession runs on the room goroutine; every later command is rejected.
func (that *GameManager) shutdownSession(s *session, reason string) {
	s.closing = true

	if s.advance != nil {
		s.advance.Cancel()
		s.advance = nil
	}

	that.broadcast(s.room, EventRoomClosed, RoomClosedPayload{RoomID: s.room.ID, Reason: reason})
}

func (that *GameManager) removeRoom(s *session) {
	id := s.id()

	that.rooms.Remove(id)
	that.grace.cancelAll(id)
	that.conns.UnbindRoom(id)
	that.forget(id)
}
