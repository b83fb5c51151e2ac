package rps

import "github.com/rocketscienceinc/rps-backend/internal/entity"

type Verdict int

const (
	Tie Verdict = iota
	FirstWins
	SecondWins
)

// Resolve decides a single exchange between two valid moves.
func Resolve(first, second entity.Move) Verdict {
	switch {
	case first == second:
		return Tie
	case first.Beats(second):
		return FirstWins
	default:
		return SecondWins
	}
}

func (that Verdict) Outcome(first, second entity.Slot) entity.Outcome {
	switch that {
	case FirstWins:
		return entity.SlotOutcome(first)
	case SecondWins:
		return entity.SlotOutcome(second)
	default:
		return entity.OutcomeTie
	}
}
