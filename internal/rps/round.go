package rps

import (
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

// RecordChoice stores a move for slot in the current round. A repeated
// submission overwrites the previous one.
func RecordChoice(room *entity.Room, slot entity.Slot, move entity.Move) error {
	if err := room.ConfirmAcceptingChoices(); err != nil {
		return err
	}

	if _, ok := room.Participant(slot); !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSlotNotFound, slot)
	}

	if !move.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMove, move)
	}

	room.PendingChoices[slot] = move

	return nil
}

func ReadyToResolve(room *entity.Room) bool {
	for _, slot := range entity.Slots {
		if _, ok := room.PendingChoices[slot]; !ok {
			return false
		}
	}

	return true
}

// ResolveRound scores the current round, appends it to the history and moves
// the room either into the intermission or to game over.
func ResolveRound(room *entity.Room) (entity.RoundResult, error) {
	if !ReadyToResolve(room) {
		return entity.RoundResult{}, apperror.ErrRoundIncomplete
	}

	first := room.PendingChoices[entity.SlotPlayer1]
	second := room.PendingChoices[entity.SlotPlayer2]

	winner := Resolve(first, second).Outcome(entity.SlotPlayer1, entity.SlotPlayer2)
	if winner != entity.OutcomeTie {
		room.Scores[entity.Slot(winner)]++
	}

	result := entity.RoundResult{
		Round: room.Round,
		Choices: map[entity.Slot]entity.Move{
			entity.SlotPlayer1: first,
			entity.SlotPlayer2: second,
		},
		Winner: winner,
		Scores: entity.CopyScores(room.Scores),
	}

	room.History = append(room.History, result)
	room.PendingChoices = make(map[entity.Slot]entity.Move, len(entity.Slots))

	if room.Round >= room.MaxRounds {
		room.Over = true
	} else {
		room.Intermission = true
	}

	return result, nil
}

// AdvanceRound opens the next round if the room is still in the intermission
// that generation scheduled.
func AdvanceRound(room *entity.Room, generation int) bool {
	if room.Generation != generation || !room.Intermission || room.Over {
		return false
	}

	room.Round++
	room.Intermission = false
	room.PendingChoices = make(map[entity.Slot]entity.Move, len(entity.Slots))

	return true
}

// Reset starts a new game in the same room with the same participants.
func Reset(room *entity.Room) {
	room.Round = 1
	room.Over = false
	room.Intermission = false
	room.History = nil
	room.PendingChoices = make(map[entity.Slot]entity.Move, len(entity.Slots))
	room.Scores = make(map[entity.Slot]int, len(entity.Slots))
	for slot := range room.Slots {
		room.Scores[slot] = 0
	}
	// A lone participant waits for an opponent instead of starting a one-sided
	// game; the next join starts it through StartIfReady.
	room.Started = room.IsFull()
	room.Generation++
}

func GameWinner(room *entity.Room) entity.Outcome {
	first, second := room.Scores[entity.SlotPlayer1], room.Scores[entity.SlotPlayer2]

	switch {
	case first > second:
		return entity.OutcomePlayer1
	case second > first:
		return entity.OutcomePlayer2
	default:
		return entity.OutcomeTie
	}
}

func Stats(room *entity.Room) entity.GameStats {
	stats := entity.GameStats{
		RoundsPlayed: len(room.History),
		Wins:         make(map[entity.Slot]int, len(entity.Slots)),
	}

	for _, slot := range entity.Slots {
		stats.Wins[slot] = 0
	}

	for _, result := range room.History {
		if result.Winner == entity.OutcomeTie {
			stats.Ties++
			continue
		}
		stats.Wins[entity.Slot(result.Winner)]++
	}

	return stats
}

func Match(room *entity.Room) *entity.MatchResult {
	stats := Stats(room)

	players := make(map[entity.Slot]string, len(room.Slots))
	for slot, p := range room.Slots {
		players[slot] = p.Name
	}

	return &entity.MatchResult{
		RoomID:  room.ID,
		Players: players,
		Scores:  entity.CopyScores(room.Scores),
		Winner:  GameWinner(room),
		Rounds:  stats.RoundsPlayed,
		Ties:    stats.Ties,
	}
}
