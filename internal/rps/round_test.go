package rps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

func newStartedRoom(t *testing.T, maxRounds int) *entity.Room {
	t.Helper()

	room := entity.NewRoom("ABC123", maxRounds, time.Now())
	_, err := room.AddParticipant(entity.NewParticipant("Alice", nil))
	require.NoError(t, err)
	_, err = room.AddParticipant(entity.NewParticipant("Bob", nil))
	require.NoError(t, err)
	require.True(t, room.StartIfReady())

	return room
}

func playRound(t *testing.T, room *entity.Room, first, second entity.Move) entity.RoundResult {
	t.Helper()

	require.NoError(t, RecordChoice(room, entity.SlotPlayer1, first))
	require.NoError(t, RecordChoice(room, entity.SlotPlayer2, second))

	result, err := ResolveRound(room)
	require.NoError(t, err)

	return result
}

func TestRecordChoice(t *testing.T) {
	t.Run("Last write wins within a round", func(t *testing.T) {
		// Given: a started room
		room := newStartedRoom(t, 5)

		// When: player1 changes their mind
		require.NoError(t, RecordChoice(room, entity.SlotPlayer1, entity.Rock))
		require.NoError(t, RecordChoice(room, entity.SlotPlayer1, entity.Paper))

		// Then: only the latest move is pending and the round is not resolvable
		assert.Equal(t, entity.Paper, room.PendingChoices[entity.SlotPlayer1])
		assert.False(t, ReadyToResolve(room))
	})

	t.Run("Rejected before the game starts", func(t *testing.T) {
		room := entity.NewRoom("ABC123", 5, time.Now())
		_, _ = room.AddParticipant(entity.NewParticipant("Alice", nil))

		err := RecordChoice(room, entity.SlotPlayer1, entity.Rock)

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
		assert.Empty(t, room.PendingChoices)
	})

	t.Run("Rejected during the intermission", func(t *testing.T) {
		room := newStartedRoom(t, 5)
		playRound(t, room, entity.Rock, entity.Paper)

		err := RecordChoice(room, entity.SlotPlayer1, entity.Rock)

		require.ErrorIs(t, err, apperror.ErrRoundNotOpen)
	})

	t.Run("Rejected for an invalid move", func(t *testing.T) {
		room := newStartedRoom(t, 5)

		err := RecordChoice(room, entity.SlotPlayer1, entity.Move("lizard"))

		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})
}

func TestResolveRound(t *testing.T) {
	t.Run("No resolution with a single choice", func(t *testing.T) {
		// Given: only one pending choice
		room := newStartedRoom(t, 5)
		require.NoError(t, RecordChoice(room, entity.SlotPlayer1, entity.Rock))

		// When: resolution is attempted
		_, err := ResolveRound(room)

		// Then: nothing changes
		require.ErrorIs(t, err, apperror.ErrRoundIncomplete)
		assert.Empty(t, room.History)
		assert.Equal(t, 1, room.Round)
	})

	t.Run("Winner scores and round result is recorded", func(t *testing.T) {
		room := newStartedRoom(t, 5)

		result := playRound(t, room, entity.Rock, entity.Scissors)

		assert.Equal(t, 1, result.Round)
		assert.Equal(t, entity.OutcomePlayer1, result.Winner)
		assert.Equal(t, map[entity.Slot]int{entity.SlotPlayer1: 1, entity.SlotPlayer2: 0}, result.Scores)
		assert.Len(t, room.History, 1)
		assert.Empty(t, room.PendingChoices)
		assert.True(t, room.Intermission)
		assert.Equal(t, 1, room.Round)
	})

	t.Run("Score sum equals rounds minus ties", func(t *testing.T) {
		room := newStartedRoom(t, 5)
		rounds := [][2]entity.Move{
			{entity.Rock, entity.Rock},
			{entity.Paper, entity.Rock},
			{entity.Scissors, entity.Rock},
			{entity.Paper, entity.Paper},
		}

		for _, moves := range rounds {
			playRound(t, room, moves[0], moves[1])
			require.True(t, AdvanceRound(room, room.Generation))
		}

		stats := Stats(room)
		assert.Equal(t, 4, stats.RoundsPlayed)
		assert.Equal(t, 2, stats.Ties)
		assert.Equal(t, stats.RoundsPlayed-stats.Ties, room.Scores[entity.SlotPlayer1]+room.Scores[entity.SlotPlayer2])
	})
}

func TestGameOver(t *testing.T) {
	// Given: a three-round game
	room := newStartedRoom(t, 3)

	// When: player1 wins two rounds and one is tied
	playRound(t, room, entity.Rock, entity.Scissors)
	require.True(t, AdvanceRound(room, room.Generation))
	playRound(t, room, entity.Paper, entity.Paper)
	require.True(t, AdvanceRound(room, room.Generation))
	playRound(t, room, entity.Scissors, entity.Paper)

	// Then: the game is over on the last round with player1 as winner
	assert.True(t, room.Over)
	assert.False(t, room.Intermission)
	assert.Equal(t, 3, room.Round)
	assert.Equal(t, entity.OutcomePlayer1, GameWinner(room))
	assert.False(t, AdvanceRound(room, room.Generation))

	err := RecordChoice(room, entity.SlotPlayer1, entity.Rock)
	require.ErrorIs(t, err, apperror.ErrGameFinished)

	match := Match(room)
	assert.Equal(t, "ABC123", match.RoomID)
	assert.Equal(t, 3, match.Rounds)
	assert.Equal(t, 1, match.Ties)
	assert.Equal(t, "Alice", match.Players[entity.SlotPlayer1])
}

func TestAdvanceRound_StaleGeneration(t *testing.T) {
	// Given: a room waiting for the next round
	room := newStartedRoom(t, 5)
	playRound(t, room, entity.Rock, entity.Paper)
	generation := room.Generation

	// When: a new game starts before the delayed advance fires
	Reset(room)

	// Then: the stale advance is a no-op
	assert.False(t, AdvanceRound(room, generation))
	assert.Equal(t, 1, room.Round)
}

func TestReset(t *testing.T) {
	// Given: a finished game
	room := newStartedRoom(t, 1)
	playRound(t, room, entity.Rock, entity.Paper)
	require.True(t, room.Over)

	// When: it is reset
	Reset(room)

	// Then: the same participants start from scratch
	assert.Equal(t, 1, room.Round)
	assert.False(t, room.Over)
	assert.True(t, room.Started)
	assert.Empty(t, room.History)
	assert.Equal(t, map[entity.Slot]int{entity.SlotPlayer1: 0, entity.SlotPlayer2: 0}, room.Scores)
	assert.Equal(t, "Alice", room.Slots[entity.SlotPlayer1].Name)
	assert.Equal(t, 1, room.Generation)
}

func TestReset_HalfFullRoomWaitsForOpponent(t *testing.T) {
	// Given: a room with a single participant
	room := entity.NewRoom("ABC123", 3, time.Now())
	_, err := room.AddParticipant(entity.NewParticipant("Alice", nil))
	require.NoError(t, err)

	// When: a new game is requested
	Reset(room)

	// Then: the game only starts once the second seat is taken
	assert.False(t, room.Started)
	require.ErrorIs(t, RecordChoice(room, entity.SlotPlayer1, entity.Rock), apperror.ErrGameIsNotStarted)

	_, err = room.AddParticipant(entity.NewParticipant("Bob", nil))
	require.NoError(t, err)
	assert.True(t, room.StartIfReady())
}

func TestGameWinner_Tie(t *testing.T) {
	room := newStartedRoom(t, 1)

	playRound(t, room, entity.Rock, entity.Rock)

	assert.Equal(t, entity.OutcomeTie, GameWinner(room))
}
