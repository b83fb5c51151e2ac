package entity

import "strings"

const (
	DefaultPlayerName = "Anonymous"
	BotPlayerName     = "Computer"

	maxPlayerNameLength = 20
)

// Conn is the outbound side of a client connection.
type Conn interface {
	ID() string
	Send(event string, payload any) error
}

type Participant struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	Bot       bool   `json:"isBot,omitempty"`

	Conn Conn `json:"-"`
}

func NewParticipant(name string, conn Conn) *Participant {
	return &Participant{
		Name:      NormalizePlayerName(name),
		Connected: true,
		Conn:      conn,
	}
}

func NewBotParticipant() *Participant {
	return &Participant{
		Name:      BotPlayerName,
		Connected: true,
		Bot:       true,
	}
}

// IsActiveHuman reports whether the participant keeps its room alive.
func (that *Participant) IsActiveHuman() bool {
	return that != nil && !that.Bot && that.Connected
}

// IsReachable reports whether events can be delivered to the participant.
func (that *Participant) IsReachable() bool {
	return that.IsActiveHuman() && that.Conn != nil
}

func NormalizePlayerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayerName
	}

	runes := []rune(name)
	if len(runes) > maxPlayerNameLength {
		name = string(runes[:maxPlayerNameLength])
	}

	return name
}
