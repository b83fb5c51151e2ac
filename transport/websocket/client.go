package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/rps-backend/internal/pkg"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var (
	ErrSendBufferFull = errors.New("send buffer is full")
	ErrClientClosed   = errors.New("client is closed")
)

// client is one upgraded connection. Writes go through send and are flushed
// by writePump, so Send never blocks the caller.
type client struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	id := pkg.GenerateConnectionID()

	return &client{
		id:     id,
		conn:   conn,
		logger: logger.With("connID", id),
		send:   make(chan []byte, sendBufferSize),
	}
}

func (that *client) ID() string {
	return that.id
}

func (that *client) Send(event string, payload any) error {
	data, err := encodeMessage(event, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrClientClosed
	}

	select {
	case that.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
