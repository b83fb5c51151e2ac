package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/pkg"
	"github.com/rocketscienceinc/rps-backend/internal/rps"
	"github.com/rocketscienceinc/rps-backend/internal/scheduler"
	"github.com/rocketscienceinc/rps-backend/internal/service"
)

const sinkTimeout = 2 * time.Second

type roomSnapshots interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	DeleteByID(ctx context.Context, id string) error
}

type matchLedger interface {
	Save(ctx context.Context, match *entity.MatchResult) error
}

type eventFeed interface {
	Publish(roomID, event string, payload any) error
}

type Options struct {
	MaxRounds      int
	NextRoundDelay time.Duration
	GracePeriod    time.Duration
	RoomTTL        time.Duration
	SweepInterval  time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxRounds:      entity.DefaultMaxRounds,
		NextRoundDelay: 3 * time.Second,
		GracePeriod:    5 * time.Minute,
		RoomTTL:        2 * time.Hour,
		SweepInterval:  time.Hour,
	}
}

func (that Options) withDefaults() Options {
	defaults := DefaultOptions()

	if that.MaxRounds <= 0 {
		that.MaxRounds = defaults.MaxRounds
	}
	if that.NextRoundDelay <= 0 {
		that.NextRoundDelay = defaults.NextRoundDelay
	}
	if that.GracePeriod <= 0 {
		that.GracePeriod = defaults.GracePeriod
	}
	if that.RoomTTL <= 0 {
		that.RoomTTL = defaults.RoomTTL
	}
	if that.SweepInterval <= 0 {
		that.SweepInterval = defaults.SweepInterval
	}

	return that
}

// Deps are the collaborators of a GameManager. Every sink is optional.
type Deps struct {
	Clock     clock.Clock
	Bot       service.MoveProvider
	Snapshots roomSnapshots
	Matches   matchLedger
	Events    eventFeed
}

type JoinRequest struct {
	RoomID     string
	PlayerName string
	VsComputer bool
}

type JoinResult struct {
	RoomID string
	Slot   entity.Slot
	Room   entity.RoomView
}

type RoomStatus struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	GameStarted bool   `json:"gameStarted"`
	GameOver    bool   `json:"gameOver"`
}

type Stats struct {
	ActiveRooms   int `json:"activeRooms"`
	ActivePlayers int `json:"activePlayers"`
}

type GameManager struct {
	logger    *slog.Logger
	opts      Options
	scheduler *scheduler.Scheduler
	rooms     *RoomRegistry
	conns     *ConnectionMapper
	grace     *graceTimers
	bot       service.MoveProvider

	snapshots roomSnapshots
	matches   matchLedger
	events    eventFeed
}

func NewGameManager(logger *slog.Logger, opts Options, deps Deps) *GameManager {
	return newGameManager(logger, opts, deps, nil)
}

func newGameManager(logger *slog.Logger, opts Options, deps Deps, store roomStore) *GameManager {
	opts = opts.withDefaults()

	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}

	bot := deps.Bot
	if bot == nil {
		bot = service.NewRandomBot(rand.NewSource(clk.Now().UnixNano()))
	}

	return &GameManager{
		logger:    logger.With("component", "game-manager"),
		opts:      opts,
		scheduler: scheduler.New(clk),
		rooms:     NewRoomRegistry(logger, store, clk, opts.MaxRounds),
		conns:     NewConnectionMapper(),
		grace:     newGraceTimers(),
		bot:       bot,

		snapshots: deps.Snapshots,
		matches:   deps.Matches,
		events:    deps.Events,
	}
}

// JoinRoom seats conn in the requested room, or in a new one when the id is
// empty or unknown.
func (that *GameManager) JoinRoom(ctx context.Context, conn entity.Conn, req JoinRequest) (*JoinResult, error) {
	log := that.logger.With("method", "JoinRoom", "connID", conn.ID())

	roomID := pkg.NormalizeRoomID(req.RoomID)
	if req.VsComputer {
		roomID = ""
	}

	prev, seated := that.conns.Resolve(conn.ID())
	if seated && prev.RoomID == roomID {
		result, err := that.rejoin(ctx, conn, prev)
		if !errors.Is(err, apperror.ErrRoomNotFound) && !errors.Is(err, apperror.ErrRoomClosed) {
			return result, err
		}

		that.conns.Unbind(conn.ID())
		seated = false
	}

	// The previous seat is only given up once the new one is taken.
	for {
		s, err := that.findOrCreate(roomID)
		if err != nil {
			return nil, fmt.Errorf("failed to find room: %w", err)
		}

		result, err := that.seat(ctx, s, conn, req)
		if errors.Is(err, apperror.ErrRoomClosed) && roomID != "" {
			log.Debug("room closed while joining, creating a new one", "roomID", roomID)
			roomID = ""
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to join room: %w", err)
		}

		if seated && prev.RoomID != result.RoomID {
			that.leaveRoom(ctx, conn, prev)
		}

		log.Info("player joined room", "roomID", result.RoomID, "slot", result.Slot)

		return result, nil
	}
}

func (that *GameManager) findOrCreate(roomID string) (*session, error) {
	if roomID != "" {
		if s, ok := that.rooms.Lookup(roomID); ok {
			return s, nil
		}
	}

	return that.rooms.CreateRoom()
}

func (that *GameManager) seat(ctx context.Context, s *session, conn entity.Conn, req JoinRequest) (*JoinResult, error) {
	var result *JoinResult

	err := s.do(ctx, func(s *session) error {
		room := s.room

		if req.VsComputer && room.ParticipantCount() != 0 {
			return apperror.ErrRoomFull
		}

		slot, err := room.AddParticipant(entity.NewParticipant(req.PlayerName, conn))
		if err != nil {
			return err
		}

		if req.VsComputer {
			if _, err = room.AddParticipant(entity.NewBotParticipant()); err != nil {
				return fmt.Errorf("failed to seat bot: %w", err)
			}
		}

		that.conns.Bind(conn.ID(), room.ID, slot)

		result = &JoinResult{RoomID: room.ID, Slot: slot, Room: room.View()}

		that.send(conn, EventRoomJoined, RoomJoinedPayload{RoomID: room.ID, PlayerID: slot, Room: result.Room})
		that.broadcast(room, EventPlayerJoined, PlayerJoinedPayload{Players: room.Players(), GameState: room.State()})

		if room.StartIfReady() {
			that.broadcast(room, EventGameStart, GameStartPayload{Message: messageGameStarted, GameState: room.State()})
		}

		that.mirror(room)

		return nil
	})

	return result, err
}

func (that *GameManager) rejoin(ctx context.Context, conn entity.Conn, binding Binding) (*JoinResult, error) {
	s, ok := that.rooms.Lookup(binding.RoomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	var result *JoinResult

	err := s.do(ctx, func(s *session) error {
		room := s.room
		result = &JoinResult{RoomID: room.ID, Slot: binding.Slot, Room: room.View()}
		that.send(conn, EventRoomJoined, RoomJoinedPayload{RoomID: room.ID, PlayerID: binding.Slot, Room: result.Room})

		return nil
	})

	return result, err
}

// MakeChoice records a move for the caller's seat and resolves the round once
// both seats have chosen.
func (that *GameManager) MakeChoice(ctx context.Context, conn entity.Conn, choice string) error {
	binding, ok := that.conns.Resolve(conn.ID())
	if !ok {
		return apperror.ErrUnboundConnection
	}

	move, err := entity.ParseMove(choice)
	if err != nil {
		return err
	}

	s, ok := that.rooms.Lookup(binding.RoomID)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	return s.do(ctx, func(s *session) error {
		return that.submitChoice(s, binding.Slot, move)
	})
}

func (that *GameManager) submitChoice(s *session, slot entity.Slot, move entity.Move) error {
	room := s.room

	if err := rps.RecordChoice(room, slot, move); err != nil {
		return err
	}

	that.notifyOthers(room, slot, EventChoiceMade, ChoiceMadePayload{PlayerID: slot})

	if botSlot, ok := room.BotSlot(); ok && botSlot != slot {
		if err := rps.RecordChoice(room, botSlot, that.bot.NextMove(room.History)); err != nil {
			return fmt.Errorf("failed to record bot move: %w", err)
		}
	}

	if !rps.ReadyToResolve(room) {
		that.mirror(room)
		return nil
	}

	return that.resolveRound(s)
}

func (that *GameManager) resolveRound(s *session) error {
	room := s.room

	result, err := rps.ResolveRound(room)
	if err != nil {
		return fmt.Errorf("failed to resolve round: %w", err)
	}

	that.broadcast(room, EventRoundResult, result)

	if room.Over {
		that.finishGame(room)
		return nil
	}

	that.scheduleAdvance(s)
	that.mirror(room)

	return nil
}

func (that *GameManager) scheduleAdvance(s *session) {
	generation := s.room.Generation

	s.advance = that.scheduler.After(that.opts.NextRoundDelay, func() {
		err := s.do(context.Background(), func(s *session) error {
			that.advanceRound(s, generation)
			return nil
		})
		if err != nil {
			that.logger.Debug("next round skipped", "roomID", s.id(), "error", err)
		}
	})
}

func (that *GameManager) advanceRound(s *session, generation int) {
	room := s.room

	if !rps.AdvanceRound(room, generation) {
		return
	}

	s.advance = nil

	that.broadcast(room, EventNextRound, NextRoundPayload{Round: room.Round, GameState: room.State()})
	that.mirror(room)
}

func (that *GameManager) finishGame(room *entity.Room) {
	that.broadcast(room, EventGameOver, GameOverPayload{
		Winner:      rps.GameWinner(room),
		FinalScores: entity.CopyScores(room.Scores),
		GameStats:   rps.Stats(room),
	})

	match := rps.Match(room)
	match.FinishedAt = that.scheduler.Now()

	that.record(match)
	that.mirror(room)

	that.logger.Info("game finished", "roomID", room.ID, "winner", match.Winner)
}

// NewGame restarts the caller's room with the same participants.
func (that *GameManager) NewGame(ctx context.Context, conn entity.Conn) error {
	binding, ok := that.conns.Resolve(conn.ID())
	if !ok {
		return apperror.ErrUnboundConnection
	}

	s, ok := that.rooms.Lookup(binding.RoomID)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	return s.do(ctx, func(s *session) error {
		room := s.room

		if s.advance != nil {
			s.advance.Cancel()
			s.advance = nil
		}

		rps.Reset(room)

		if room.Started {
			that.broadcast(room, EventGameStart, GameStartPayload{Message: messageNewGame, GameState: room.State()})
		} else {
			that.broadcast(room, EventPlayerJoined, PlayerJoinedPayload{Players: room.Players(), GameState: room.State()})
		}

		that.mirror(room)

		return nil
	})
}

// Disconnect drops the connection's binding and marks its seat inactive.
// The room itself is only reclaimed by the grace timer.
func (that *GameManager) Disconnect(ctx context.Context, conn entity.Conn) {
	binding, ok := that.conns.Unbind(conn.ID())
	if !ok {
		return
	}

	that.leaveRoom(ctx, conn, binding)
}

func (that *GameManager) leaveRoom(ctx context.Context, conn entity.Conn, binding Binding) {
	log := that.logger.With("method", "leaveRoom", "roomID", binding.RoomID, "slot", binding.Slot)

	s, ok := that.rooms.Lookup(binding.RoomID)
	if !ok {
		return
	}

	err := s.do(ctx, func(s *session) error {
		room := s.room

		p, ok := room.Participant(binding.Slot)
		if !ok || p.Conn == nil || p.Conn.ID() != conn.ID() {
			return nil
		}

		p.Connected = false
		p.Conn = nil

		payload := PlayerDisconnectedPayload{PlayerID: binding.Slot, PlayerName: p.Name}
		that.notifyOthers(room, binding.Slot, EventPlayerDisconnected, payload)
		that.publish(room.ID, EventPlayerDisconnected, payload)
		that.mirror(room)

		return nil
	})
	if err != nil {
		log.Debug("could not mark participant disconnected", "error", err)
		return
	}

	log.Info("player disconnected")

	that.armGrace(binding.RoomID)
}

func (that *GameManager) RoomStatus(ctx context.Context, roomID string) (*RoomStatus, error) {
	s, ok := that.rooms.Lookup(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	var status *RoomStatus

	err := s.do(ctx, func(s *session) error {
		status = &RoomStatus{
			RoomID:      s.room.ID,
			PlayerCount: s.room.ParticipantCount(),
			GameStarted: s.room.Started,
			GameOver:    s.room.Over,
		}

		return nil
	})
	if errors.Is(err, apperror.ErrRoomClosed) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read room status: %w", err)
	}

	return status, nil
}

func (that *GameManager) Stats() Stats {
	return Stats{
		ActiveRooms:   that.rooms.Len(),
		ActivePlayers: that.conns.Len(),
	}
}

func (that *GameManager) send(conn entity.Conn, event string, payload any) {
	if err := conn.Send(event, payload); err != nil {
		that.logger.Warn("failed to send event", "event", event, "connID", conn.ID(), "error", err)
	}
}

func (that *GameManager) notifyOthers(room *entity.Room, except entity.Slot, event string, payload any) {
	for _, slot := range entity.Slots {
		if slot == except {
			continue
		}

		if p, ok := room.Participant(slot); ok && p.IsReachable() {
			that.send(p.Conn, event, payload)
		}
	}
}

func (that *GameManager) broadcast(room *entity.Room, event string, payload any) {
	for _, slot := range entity.Slots {
		if p, ok := room.Participant(slot); ok && p.IsReachable() {
			that.send(p.Conn, event, payload)
		}
	}

	that.publish(room.ID, event, payload)
}

func (that *GameManager) publish(roomID, event string, payload any) {
	if that.events == nil {
		return
	}

	if err := that.events.Publish(roomID, event, payload); err != nil {
		that.logger.Warn("failed to publish event", "roomID", roomID, "event", event, "error", err)
	}
}

func (that *GameManager) mirror(room *entity.Room) {
	if that.snapshots == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := that.snapshots.CreateOrUpdate(ctx, room); err != nil {
		that.logger.Warn("failed to mirror room", "roomID", room.ID, "error", err)
	}
}

func (that *GameManager) forget(roomID string) {
	if that.snapshots == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := that.snapshots.DeleteByID(ctx, roomID); err != nil {
		that.logger.Warn("failed to delete room mirror", "roomID", roomID, "error", err)
	}
}

func (that *GameManager) record(match *entity.MatchResult) {
	if that.matches == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := that.matches.Save(ctx, match); err != nil {
		that.logger.Warn("failed to record match", "roomID", match.RoomID, "error", err)
	}
}
