package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
)

type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Moves lists every legal move in a stable order.
var Moves = []Move{Rock, Paper, Scissors}

// beats maps a move to the move it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

func ParseMove(raw string) (Move, error) {
	move := Move(strings.ToLower(strings.TrimSpace(raw)))
	if !move.IsValid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMove, raw)
	}

	return move, nil
}

func (that Move) IsValid() bool {
	_, ok := beats[that]
	return ok
}

func (that Move) Beats(other Move) bool {
	return beats[that] == other
}

// CounterOf returns the move that defeats m.
func CounterOf(m Move) Move {
	for winner, loser := range beats {
		if loser == m {
			return winner
		}
	}

	return ""
}
