package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository mirrors live room state for observers. It is never read
// back to restore rooms.
type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbRoom struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomRepository(client *redis.Client, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		ttl:    ttl,
	}
}

func roomKey(id string) string {
	return "room:" + id
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Set(ctx, roomKey(room.ID), roomJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var room entity.Room
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, roomKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}
