package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
)

const messageJoinFailed = "Unable to join room"

func (that *Server) handleJoinRoom(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleJoinRoom", "connID", c.ID())

	var payload JoinRoomPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	req := usecase.JoinRequest{
		PlayerName: payload.PlayerName,
		VsComputer: payload.VsComputer,
	}
	if payload.RoomID != nil {
		req.RoomID = *payload.RoomID
	}

	result, err := that.manager.JoinRoom(ctx, c, req)
	switch {
	case errors.Is(err, apperror.ErrRoomFull):
		log.Info("room is full", "roomID", req.RoomID)
		return that.sendErrorResponse(c, apperror.ErrRoomFull.Error())
	case err != nil && apperror.IsSilent(err):
		log.Debug("join ignored", "error", err)
		return nil
	case err != nil:
		if sendErr := that.sendErrorResponse(c, messageJoinFailed); sendErr != nil {
			log.Warn("failed to send error response", "error", sendErr)
		}
		return fmt.Errorf("failed to join room: %w", err)
	}

	log.Debug("joined room", "roomID", result.RoomID, "slot", result.Slot)

	return nil
}

func (that *Server) handleMakeChoice(ctx context.Context, msg *Message, c *client) error {
	var payload MakeChoicePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	err := that.manager.MakeChoice(ctx, c, payload.Choice)
	if err != nil && apperror.IsSilent(err) {
		that.logger.Debug("choice ignored", "connID", c.ID(), "choice", payload.Choice, "error", err)
		return nil
	}

	return err
}

func (that *Server) handleNewGame(ctx context.Context, _ *Message, c *client) error {
	err := that.manager.NewGame(ctx, c)
	if err != nil && apperror.IsSilent(err) {
		that.logger.Debug("new game ignored", "connID", c.ID(), "error", err)
		return nil
	}

	return err
}

func (that *Server) sendErrorResponse(c *client, message string) error {
	return c.Send(usecase.EventRoomError, usecase.RoomErrorPayload{Message: message})
}
