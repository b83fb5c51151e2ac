package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

const (
	StrategyRandom   = "random"
	StrategyCounter  = "counter"
	StrategySequence = "sequence"
)

var ErrUnknownStrategy = errors.New("unknown bot strategy")

// MoveProvider picks the computer opponent's move for the current round.
type MoveProvider interface {
	NextMove(history []entity.RoundResult) entity.Move
}

// NewMoveProvider builds the provider named by strategy.
func NewMoveProvider(strategy string, seed int64) (MoveProvider, error) {
	switch strategy {
	case "", StrategyRandom:
		return NewRandomBot(rand.NewSource(seed)), nil
	case StrategyCounter:
		return NewCounterBot(rand.NewSource(seed), entity.SlotPlayer1), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (that *lockedRand) intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Intn(n)
}

func (that *lockedRand) float64() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64()
}

type randomBot struct {
	rnd *lockedRand
}

func NewRandomBot(src rand.Source) MoveProvider {
	return &randomBot{rnd: &lockedRand{rnd: rand.New(src)}} //nolint: gosec // it's ok
}

func (that *randomBot) NextMove(_ []entity.RoundResult) entity.Move {
	return entity.Moves[that.rnd.intn(len(entity.Moves))]
}

// counterPrior is the assumed opponent distribution before any history exists.
var counterPrior = []struct {
	move   entity.Move
	weight float64
}{
	{entity.Rock, 0.4},
	{entity.Paper, 0.3},
	{entity.Scissors, 0.3},
}

type counterBot struct {
	rnd      *lockedRand
	opponent entity.Slot
}

// NewCounterBot mixes uniform picks with counters to the opponent's habits:
// one round in three it plays the counter of the opponent's most frequent move.
func NewCounterBot(src rand.Source, opponent entity.Slot) MoveProvider {
	return &counterBot{
		rnd:      &lockedRand{rnd: rand.New(src)}, //nolint: gosec // it's ok
		opponent: opponent,
	}
}

func (that *counterBot) NextMove(history []entity.RoundResult) entity.Move {
	if that.rnd.intn(3) != 0 {
		return entity.Moves[that.rnd.intn(len(entity.Moves))]
	}

	return entity.CounterOf(that.predict(history))
}

func (that *counterBot) predict(history []entity.RoundResult) entity.Move {
	if len(history) == 0 {
		return that.fromPrior()
	}

	counts := make(map[entity.Move]int, len(entity.Moves))
	for _, result := range history {
		if move, ok := result.Choices[that.opponent]; ok {
			counts[move]++
		}
	}

	best, bestCount := entity.Rock, -1
	for _, move := range entity.Moves {
		if counts[move] > bestCount {
			best, bestCount = move, counts[move]
		}
	}

	return best
}

func (that *counterBot) fromPrior() entity.Move {
	roll := that.rnd.float64()
	for _, p := range counterPrior {
		if roll < p.weight {
			return p.move
		}
		roll -= p.weight
	}

	return counterPrior[len(counterPrior)-1].move
}

type sequenceBot struct {
	mu    sync.Mutex
	moves []entity.Move
	next  int
}

// NewSequenceBot replays moves in order and wraps around.
func NewSequenceBot(moves ...entity.Move) MoveProvider {
	if len(moves) == 0 {
		moves = []entity.Move{entity.Rock}
	}

	return &sequenceBot{moves: moves}
}

func (that *sequenceBot) NextMove(_ []entity.RoundResult) entity.Move {
	that.mu.Lock()
	defer that.mu.Unlock()

	move := that.moves[that.next%len(that.moves)]
	that.next++

	return move
}
