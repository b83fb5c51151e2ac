package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/pkg"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
)

const statusOK = "OK"

type roomService interface {
	RoomStatus(ctx context.Context, roomID string) (*usecase.RoomStatus, error)
	Stats() usecase.Stats
}

type matchHistory interface {
	ListByRoom(ctx context.Context, roomID string) ([]*entity.MatchResult, error)
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	HealthHandler(w http.ResponseWriter, _ *http.Request)
	RoomStatusHandler(w http.ResponseWriter, r *http.Request)
	MatchHistoryHandler(w http.ResponseWriter, r *http.Request)
}

type healthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	ActiveRooms   int       `json:"activeRooms"`
	ActivePlayers int       `json:"activePlayers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger  *slog.Logger
	clock   clock.Clock
	service roomService
	history matchHistory
}

// NewHandlers builds the HTTP handlers. history may be nil when no match
// ledger is configured.
func NewHandlers(logger *slog.Logger, clk clock.Clock, service roomService, history matchHistory) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		clock:   clk,
		service: service,
		history: history,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	stats := that.service.Stats()

	that.writeJSON(w, http.StatusOK, healthResponse{
		Status:        statusOK,
		Timestamp:     that.clock.Now().UTC(),
		ActiveRooms:   stats.ActiveRooms,
		ActivePlayers: stats.ActivePlayers,
	})
}

func (that *handlers) RoomStatusHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomIDFromPath(r)
	if !ok {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Room not found"})
		return
	}

	status, err := that.service.RoomStatus(r.Context(), roomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Room not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to get room status", "roomID", roomID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, status)
}

func (that *handlers) MatchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if that.history == nil {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Match history is disabled"})
		return
	}

	roomID, ok := roomIDFromPath(r)
	if !ok {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Room not found"})
		return
	}

	matches, err := that.history.ListByRoom(r.Context(), roomID)
	if err != nil {
		that.logger.Error("failed to list matches", "roomID", roomID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	if matches == nil {
		matches = []*entity.MatchResult{}
	}

	that.writeJSON(w, http.StatusOK, matches)
}

func roomIDFromPath(r *http.Request) (string, bool) {
	roomID := pkg.NormalizeRoomID(mux.Vars(r)["roomId"])

	return roomID, pkg.IsValidRoomID(roomID)
}

func (that *handlers) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Warn("failed to write response", "error", err)
	}
}
