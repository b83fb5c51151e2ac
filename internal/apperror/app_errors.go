package apperror

import "errors"

var (
	ErrRoomFull          = errors.New("Room is full!") //nolint:stylecheck // shown to players as is
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomClosed        = errors.New("room is closed")
	ErrRoomIDExhausted   = errors.New("could not generate a unique room id")
	ErrInvalidMove       = errors.New("invalid move")
	ErrUnboundConnection = errors.New("connection is not bound to a room")
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrRoundNotOpen      = errors.New("round is not accepting choices")
	ErrRoundIncomplete   = errors.New("round is missing a choice")
	ErrSlotNotFound      = errors.New("slot is not occupied")
)

// IsSilent reports whether err is dropped without telling the sender.
func IsSilent(err error) bool {
	return errors.Is(err, ErrInvalidMove) ||
		errors.Is(err, ErrUnboundConnection) ||
		errors.Is(err, ErrGameFinished) ||
		errors.Is(err, ErrGameIsNotStarted) ||
		errors.Is(err, ErrRoundNotOpen) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRoomClosed)
}
