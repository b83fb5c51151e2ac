package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "rps.rooms"

// Envelope is the message body published for every room event.
type Envelope struct {
	RoomID    string          `json:"roomId"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher fans room events out to NATS subscribers on
// <prefix>.<roomId>.<event>.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	now    func() time.Time
}

func New(url, prefix string) (*Publisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("rps-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return NewWithConn(conn, prefix), nil
}

func NewWithConn(conn *nats.Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &Publisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
		now:    time.Now,
	}
}

func (that *Publisher) Subject(roomID, event string) string {
	return that.prefix + "." + roomID + "." + event
}

func (that *Publisher) Publish(roomID, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Envelope{
		RoomID:    roomID,
		Event:     event,
		Payload:   body,
		Timestamp: that.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err = that.conn.Publish(that.Subject(roomID, event), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	return nil
}

// Close flushes pending messages and closes the connection.
func (that *Publisher) Close() error {
	if err := that.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}
