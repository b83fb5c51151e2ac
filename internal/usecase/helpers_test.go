package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/service"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type sentEvent struct {
	Name    string
	Payload any
}

type fakeConn struct {
	id string

	mu     sync.Mutex
	events []sentEvent
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (that *fakeConn) ID() string {
	return that.id
}

func (that *fakeConn) Send(event string, payload any) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, sentEvent{Name: event, Payload: payload})

	return nil
}

func (that *fakeConn) Names() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	names := make([]string, 0, len(that.events))
	for _, e := range that.events {
		names = append(names, e.Name)
	}

	return names
}

func (that *fakeConn) Count(name string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	count := 0
	for _, e := range that.events {
		if e.Name == name {
			count++
		}
	}

	return count
}

func (that *fakeConn) Last(name string) (any, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := len(that.events) - 1; i >= 0; i-- {
		if that.events[i].Name == name {
			return that.events[i].Payload, true
		}
	}

	return nil, false
}

func (that *fakeConn) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = nil
}

type mockSnapshots struct {
	mock.Mock
}

func (that *mockSnapshots) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	return that.Called(ctx, room).Error(0)
}

func (that *mockSnapshots) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

type mockLedger struct {
	mock.Mock
}

func (that *mockLedger) Save(ctx context.Context, match *entity.MatchResult) error {
	return that.Called(ctx, match).Error(0)
}

type mockFeed struct {
	mock.Mock
}

func (that *mockFeed) Publish(roomID, event string, payload any) error {
	return that.Called(roomID, event, payload).Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	return Options{
		MaxRounds:      3,
		NextRoundDelay: 3 * time.Second,
		GracePeriod:    5 * time.Minute,
		RoomTTL:        2 * time.Hour,
		SweepInterval:  time.Hour,
	}
}

func newTestManager(t *testing.T, deps Deps) (*GameManager, *clock.Mock) {
	t.Helper()

	mockClock := clock.NewMock()
	deps.Clock = mockClock

	if deps.Bot == nil {
		deps.Bot = service.NewSequenceBot(entity.Scissors)
	}

	gm := NewGameManager(testLogger(), testOptions(), deps)
	t.Cleanup(func() {
		gm.Shutdown(context.Background())
	})

	return gm, mockClock
}

// startGame seats alice and bob in the same room and returns its id.
func startGame(t *testing.T, gm *GameManager, alice, bob *fakeConn) string {
	t.Helper()

	ctx := context.Background()

	joined, err := gm.JoinRoom(ctx, alice, JoinRequest{PlayerName: "Alice"})
	require.NoError(t, err)

	_, err = gm.JoinRoom(ctx, bob, JoinRequest{RoomID: joined.RoomID, PlayerName: "Bob"})
	require.NoError(t, err)

	return joined.RoomID
}

func play(t *testing.T, gm *GameManager, alice, bob *fakeConn, aliceMove, bobMove entity.Move) {
	t.Helper()

	ctx := context.Background()

	require.NoError(t, gm.MakeChoice(ctx, alice, string(aliceMove)))
	require.NoError(t, gm.MakeChoice(ctx, bob, string(bobMove)))
}
