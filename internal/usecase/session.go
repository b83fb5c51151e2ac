package usecase

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/scheduler"
)

const sessionQueueSize = 64

// session owns a room and applies every mutation of it on a single goroutine,
// one queued command at a time.
type session struct {
	room *entity.Room

	commands chan func()
	stop     chan struct{}
	stopOnce sync.Once
	exited   chan struct{}

	// Only touched by the worker goroutine.
	closing bool
	advance scheduler.Handle
}

func newSession(room *entity.Room) *session {
	return &session{
		room:     room,
		commands: make(chan func(), sessionQueueSize),
		stop:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

func (that *session) start() {
	go that.run()
}

func (that *session) id() string {
	return that.room.ID
}

func (that *session) run() {
	defer close(that.exited)

	for {
		select {
		case cmd := <-that.commands:
			cmd()
		case <-that.stop:
			that.closing = true
			that.drain()
			return
		}
	}
}

func (that *session) drain() {
	for {
		select {
		case cmd := <-that.commands:
			cmd()
		default:
			return
		}
	}
}

func (that *session) enqueue(cmd func()) bool {
	select {
	case <-that.stop:
		return false
	default:
	}

	select {
	case that.commands <- cmd:
		return true
	case <-that.stop:
		return false
	}
}

// do runs fn on the room goroutine and waits for its result.
func (that *session) do(ctx context.Context, fn func(s *session) error) error {
	done := make(chan error, 1)

	ok := that.enqueue(func() {
		if that.closing {
			done <- apperror.ErrRoomClosed
			return
		}
		done <- fn(that)
	})
	if !ok {
		return apperror.ErrRoomClosed
	}

	select {
	case err := <-done:
		return err
	case <-that.exited:
		select {
		case err := <-done:
			return err
		default:
			return apperror.ErrRoomClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (that *session) close() {
	that.stopOnce.Do(func() {
		close(that.stop)
	})
}
