package entity

import (
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
)

type Slot string

const (
	SlotPlayer1 Slot = "player1"
	SlotPlayer2 Slot = "player2"
)

// Slots lists the seats of a room in join order.
var Slots = []Slot{SlotPlayer1, SlotPlayer2}

type Outcome string

const (
	OutcomePlayer1 Outcome = "player1"
	OutcomePlayer2 Outcome = "player2"
	OutcomeTie     Outcome = "tie"
)

func SlotOutcome(slot Slot) Outcome {
	return Outcome(slot)
}

const (
	PhaseWaiting      = "waiting"
	PhaseAwaiting     = "awaiting-choices"
	PhaseIntermission = "next-round-scheduled"
	PhaseOver         = "game-over"
)

const DefaultMaxRounds = 5

type RoundResult struct {
	Round   int           `json:"round"`
	Choices map[Slot]Move `json:"choices"`
	Winner  Outcome       `json:"winner"`
	Scores  map[Slot]int  `json:"scores"`
}

type Room struct {
	ID             string                `json:"id"`
	Slots          map[Slot]*Participant `json:"slots"`
	Round          int                   `json:"round"`
	MaxRounds      int                   `json:"maxRounds"`
	Scores         map[Slot]int          `json:"scores"`
	PendingChoices map[Slot]Move         `json:"-"`
	History        []RoundResult         `json:"history"`
	Started        bool                  `json:"started"`
	Over           bool                  `json:"over"`
	Intermission   bool                  `json:"intermission"`
	Generation     int                   `json:"generation"`
	CreatedAt      time.Time             `json:"createdAt"`
}

func NewRoom(id string, maxRounds int, createdAt time.Time) *Room {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	return &Room{
		ID:             id,
		Slots:          make(map[Slot]*Participant, len(Slots)),
		Round:          1,
		MaxRounds:      maxRounds,
		Scores:         make(map[Slot]int, len(Slots)),
		PendingChoices: make(map[Slot]Move, len(Slots)),
		CreatedAt:      createdAt,
	}
}

func (that *Room) ParticipantCount() int {
	return len(that.Slots)
}

func (that *Room) IsFull() bool {
	return len(that.Slots) >= len(Slots)
}

func (that *Room) NextFreeSlot() (Slot, bool) {
	for _, slot := range Slots {
		if _, ok := that.Slots[slot]; !ok {
			return slot, true
		}
	}

	return "", false
}

// AddParticipant seats p in the next free slot and zeroes its score.
func (that *Room) AddParticipant(p *Participant) (Slot, error) {
	slot, ok := that.NextFreeSlot()
	if !ok {
		return "", apperror.ErrRoomFull
	}

	that.Slots[slot] = p
	that.Scores[slot] = 0

	return slot, nil
}

func (that *Room) Participant(slot Slot) (*Participant, bool) {
	p, ok := that.Slots[slot]
	return p, ok
}

func (that *Room) BotSlot() (Slot, bool) {
	for _, slot := range Slots {
		if p, ok := that.Slots[slot]; ok && p.Bot {
			return slot, true
		}
	}

	return "", false
}

func (that *Room) AnyConnected() bool {
	for _, p := range that.Slots {
		if p.IsActiveHuman() {
			return true
		}
	}

	return false
}

// StartIfReady flips Started once both slots are occupied.
func (that *Room) StartIfReady() bool {
	if that.Started || !that.IsFull() {
		return false
	}

	that.Started = true

	return true
}

func (that *Room) Phase() string {
	switch {
	case that.Over:
		return PhaseOver
	case !that.Started:
		return PhaseWaiting
	case that.Intermission:
		return PhaseIntermission
	default:
		return PhaseAwaiting
	}
}

// ConfirmAcceptingChoices returns nil only while the current round is open.
func (that *Room) ConfirmAcceptingChoices() error {
	switch that.Phase() {
	case PhaseOver:
		return apperror.ErrGameFinished
	case PhaseWaiting:
		return apperror.ErrGameIsNotStarted
	case PhaseIntermission:
		return apperror.ErrRoundNotOpen
	default:
		return nil
	}
}

func (that *Room) State() GameState {
	return GameState{
		CurrentRound: that.Round,
		MaxRounds:    that.MaxRounds,
		Scores:       CopyScores(that.Scores),
		Started:      that.Started,
		Over:         that.Over,
		Phase:        that.Phase(),
	}
}

func (that *Room) Players() map[Slot]PlayerView {
	players := make(map[Slot]PlayerView, len(that.Slots))
	for slot, p := range that.Slots {
		players[slot] = PlayerView{
			Name:      p.Name,
			Connected: p.Connected,
			IsBot:     p.Bot,
		}
	}

	return players
}

func (that *Room) View() RoomView {
	return RoomView{
		RoomID:    that.ID,
		Players:   that.Players(),
		GameState: that.State(),
	}
}

func CopyScores(scores map[Slot]int) map[Slot]int {
	out := make(map[Slot]int, len(scores))
	for slot, score := range scores {
		out[slot] = score
	}

	return out
}
