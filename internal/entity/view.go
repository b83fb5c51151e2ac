package entity

import "time"

type GameState struct {
	CurrentRound int          `json:"currentRound"`
	MaxRounds    int          `json:"maxRounds"`
	Scores       map[Slot]int `json:"scores"`
	Started      bool         `json:"gameStarted"`
	Over         bool         `json:"gameOver"`
	Phase        string       `json:"phase"`
}

type PlayerView struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsBot     bool   `json:"isBot,omitempty"`
}

type RoomView struct {
	RoomID    string              `json:"roomId"`
	Players   map[Slot]PlayerView `json:"players"`
	GameState GameState           `json:"gameState"`
}

type GameStats struct {
	RoundsPlayed int          `json:"roundsPlayed"`
	Ties         int          `json:"ties"`
	Wins         map[Slot]int `json:"wins"`
}

// MatchResult is the record of one finished game.
type MatchResult struct {
	RoomID     string          `json:"roomId"`
	Players    map[Slot]string `json:"players"`
	Scores     map[Slot]int    `json:"scores"`
	Winner     Outcome         `json:"winner"`
	Rounds     int             `json:"rounds"`
	Ties       int             `json:"ties"`
	FinishedAt time.Time       `json:"finishedAt"`
}
