package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
)

type gameManager interface {
	JoinRoom(ctx context.Context, conn entity.Conn, req usecase.JoinRequest) (*usecase.JoinResult, error)
	MakeChoice(ctx context.Context, conn entity.Conn, choice string) error
	NewGame(ctx context.Context, conn entity.Conn) error
	Disconnect(ctx context.Context, conn entity.Conn)
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, message *Message, client *client) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers[actionJoinRoom] = server.handleJoinRoom
	server.handlers[actionMakeChoice] = server.handleMakeChoice
	server.handlers[actionNewGame] = server.handleNewGame

	return server
}

// HandleUpgrade upgrades the request and serves the connection until the peer
// goes away or ctx is done.
func (that *Server) HandleUpgrade(ctx context.Context) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		log := that.logger.With("method", "HandleUpgrade")

		conn, err := that.upgrader.Upgrade(writer, req, nil)
		if err != nil {
			log.Error("failed to upgrade connection", "error", err)
			return
		}

		c := newClient(conn, that.logger)

		log.Info("WebSocket connection established", "connID", c.ID())

		go c.writePump()

		that.handleMessages(ctx, c)
	}
}

// handleMessages processes messages from the client until the read side fails.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages", "connID", c.ID())

	defer func() {
		that.manager.Disconnect(context.WithoutCancel(ctx), c)
		c.close()

		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.Close()
	})
	defer stop()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, &message, c); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
