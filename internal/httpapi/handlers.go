// Package httpapi is the thin transport layer over the application
// façade: it decodes requests, calls the façade, and encodes results,
// translating AppError into the response package's status-code mapping.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lostandfound/server/internal/application"
	"github.com/lostandfound/server/internal/ids"
	apperrors "github.com/lostandfound/server/internal/shared/errors"
	"github.com/lostandfound/server/internal/shared/response"
)

// Handlers bundles the façade the HTTP layer dispatches onto.
type Handlers struct {
	app    *application.Application
	logger *slog.Logger
}

// NewHandlers wires the HTTP layer to an application façade.
func NewHandlers(app *application.Application, logger *slog.Logger) *Handlers {
	return &Handlers{app: app, logger: logger.With("component", "httpapi")}
}

type joinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

type joinResponse struct {
	Token    string `json:"authToken"`
	PlayerID string `json:"playerId"`
}

// Join handles POST /api/join.
func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "join")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	var req joinRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.WrapValidation("invalid JSON in request body", err))
		return
	}

	token, playerID, err := h.app.JoinGame(req.UserName, ids.MapID(req.MapID))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, joinResponse{Token: token, PlayerID: playerID.String()})
}

// GameState handles GET /api/game/state — the same list the original
// source exposes under two names (GetPlayers and GetGameState).
func (h *Handlers) GameState(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "game_state")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	token := bearerToken(r)
	views, err := h.app.PlayersOnSameMap(token)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, views)
}

type actionRequest struct {
	Move string `json:"move"`
}

// Action handles POST /api/action.
func (h *Handlers) Action(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "action")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	token := bearerToken(r)

	var req actionRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, apperrors.WrapValidation("invalid JSON in request body", err))
		return
	}

	ok, err := h.app.SetPlayerAction(token, req.Move)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if !ok {
		response.Error(w, r, logger, apperrors.Validation("unrecognized move code"))
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"ok": true})
}

// Records handles GET /api/records?start=&max=.
func (h *Handlers) Records(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "records")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, apperrors.MethodNotAllowed(r.Method))
		return
	}

	start, max := pagination(r)

	records, err := h.app.GetRecords(r.Context(), start, max)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, records)
}

func pagination(r *http.Request) (start, max int) {
	start, _ = strconv.Atoi(r.URL.Query().Get("start"))
	max, err := strconv.Atoi(r.URL.Query().Get("max"))
	if err != nil || max <= 0 {
		max = 100
	}
	return start, max
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
