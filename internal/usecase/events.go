package usecase

import "github.com/rocketscienceinc/rps-backend/internal/entity"

const (
	EventRoomJoined         = "room-joined"
	EventRoomError          = "room-error"
	EventPlayerJoined       = "player-joined"
	EventGameStart          = "game-start"
	EventChoiceMade         = "choice-made"
	EventRoundResult        = "round-result"
	EventNextRound          = "next-round"
	EventGameOver           = "game-over"
	EventPlayerDisconnected = "player-disconnected"
	EventRoomClosed         = "room-closed"
)

const (
	ReasonAbandoned = "abandoned"
	ReasonExpired   = "expired"
	ReasonShutdown  = "shutdown"
)

const (
	messageGameStarted = "Game started! Make your choice."
	messageNewGame     = "New game started!"
)

type RoomJoinedPayload struct {
	RoomID   string          `json:"roomId"`
	PlayerID entity.Slot     `json:"playerId"`
	Room     entity.RoomView `json:"room"`
}

type RoomErrorPayload struct {
	Message string `json:"message"`
}

type PlayerJoinedPayload struct {
	Players   map[entity.Slot]entity.PlayerView `json:"players"`
	GameState entity.GameState                  `json:"gameState"`
}

type GameStartPayload struct {
	Message   string           `json:"message"`
	GameState entity.GameState `json:"gameState"`
}

type ChoiceMadePayload struct {
	PlayerID entity.Slot `json:"playerId"`
}

type NextRoundPayload struct {
	Round     int              `json:"round"`
	GameState entity.GameState `json:"gameState"`
}

type GameOverPayload struct {
	Winner      entity.Outcome      `json:"winner"`
	FinalScores map[entity.Slot]int `json:"finalScores"`
	GameStats   entity.GameStats    `json:"gameStats"`
}

type PlayerDisconnectedPayload struct {
	PlayerID   entity.Slot `json:"playerId"`
	PlayerName string      `json:"playerName"`
}

type RoomClosedPayload struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}
