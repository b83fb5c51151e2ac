package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/repository/storage"
	"github.com/rocketscienceinc/rps-backend/testing/suite"
)

func TestMatchRepository(t *testing.T) {
	ctx, st := suite.NewPostgres(t)

	pg := &storage.PostgresStorage{Pool: st.Postgres}
	require.NoError(t, pg.Init(ctx))
	// Init is idempotent
	require.NoError(t, pg.Init(ctx))

	matchRepo := NewMatchRepository(st.Postgres)

	finishedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// Given: two finished matches in the same room
	first := &entity.MatchResult{
		RoomID:     "ABC123",
		Players:    map[entity.Slot]string{entity.SlotPlayer1: "Alice", entity.SlotPlayer2: "Bob"},
		Scores:     map[entity.Slot]int{entity.SlotPlayer1: 3, entity.SlotPlayer2: 1},
		Winner:     entity.OutcomePlayer1,
		Rounds:     5,
		Ties:       1,
		FinishedAt: finishedAt,
	}
	second := &entity.MatchResult{
		RoomID:     "ABC123",
		Players:    map[entity.Slot]string{entity.SlotPlayer1: "Alice", entity.SlotPlayer2: "Bob"},
		Scores:     map[entity.Slot]int{entity.SlotPlayer1: 2, entity.SlotPlayer2: 2},
		Winner:     entity.OutcomeTie,
		Rounds:     5,
		Ties:       1,
		FinishedAt: finishedAt.Add(time.Minute),
	}

	// When: they are saved
	require.NoError(t, matchRepo.Save(ctx, first))
	require.NoError(t, matchRepo.Save(ctx, second))

	// Then: they are listed in the order they finished
	matches, err := matchRepo.ListByRoom(ctx, "ABC123")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, first.Players, matches[0].Players)
	assert.Equal(t, first.Scores, matches[0].Scores)
	assert.Equal(t, entity.OutcomePlayer1, matches[0].Winner)
	assert.True(t, finishedAt.Equal(matches[0].FinishedAt))
	assert.Equal(t, entity.OutcomeTie, matches[1].Winner)

	// And: other rooms are empty
	empty, err := matchRepo.ListByRoom(ctx, "ZZZ999")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
