package websocket

import "encoding/json"

const (
	actionJoinRoom   = "join-room"
	actionMakeChoice = "make-choice"
	actionNewGame    = "new-game"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID     *string `json:"roomId"`
	PlayerName string  `json:"playerName"`
	VsComputer bool    `json:"vsComputer,omitempty"`
}

type MakeChoicePayload struct {
	Choice string `json:"choice"`
}

func encodeMessage(action string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: body})
}
