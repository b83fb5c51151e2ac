package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

// MatchRepository is the ledger of finished games.
type MatchRepository interface {
	Save(ctx context.Context, match *entity.MatchResult) error
	ListByRoom(ctx context.Context, roomID string) ([]*entity.MatchResult, error)
}

type dbMatch struct {
	pool *pgxpool.Pool
}

func NewMatchRepository(pool *pgxpool.Pool) MatchRepository {
	return &dbMatch{
		pool: pool,
	}
}

func (that *dbMatch) Save(ctx context.Context, match *entity.MatchResult) error {
	const query = `
		INSERT INTO matches (room_id, player1_name, player2_name, player1_score, player2_score, winner, rounds, ties, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := that.pool.Exec(ctx, query,
		match.RoomID,
		match.Players[entity.SlotPlayer1],
		match.Players[entity.SlotPlayer2],
		match.Scores[entity.SlotPlayer1],
		match.Scores[entity.SlotPlayer2],
		string(match.Winner),
		match.Rounds,
		match.Ties,
		match.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

func (that *dbMatch) ListByRoom(ctx context.Context, roomID string) ([]*entity.MatchResult, error) {
	const query = `
		SELECT room_id, player1_name, player2_name, player1_score, player2_score, winner, rounds, ties, finished_at
		FROM matches
		WHERE room_id = $1
		ORDER BY finished_at, id`

	rows, err := that.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*entity.MatchResult
	for rows.Next() {
		var (
			match        entity.MatchResult
			player1Name  string
			player2Name  string
			player1Score int
			player2Score int
			winner       string
		)

		if err = rows.Scan(
			&match.RoomID,
			&player1Name,
			&player2Name,
			&player1Score,
			&player2Score,
			&winner,
			&match.Rounds,
			&match.Ties,
			&match.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		match.Players = map[entity.Slot]string{entity.SlotPlayer1: player1Name, entity.SlotPlayer2: player2Name}
		match.Scores = map[entity.Slot]int{entity.SlotPlayer1: player1Score, entity.SlotPlayer2: player2Score}
		match.Winner = entity.Outcome(winner)

		matches = append(matches, &match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}

	return matches, nil
}
