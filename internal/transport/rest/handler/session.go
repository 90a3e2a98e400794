package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"truthordare/internal/model"
	"truthordare/internal/service"
	"truthordare/internal/transport/callback"
	"truthordare/internal/transport/rest/middleware"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	game *service.GameService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(game *service.GameService) *SessionHandler {
	return &SessionHandler{game: game}
}

// CallbackRequest carries raw button data from a chat client
type CallbackRequest struct {
	Data string `json:"data"`
}

// MessageRequest correlates a displayed prompt message with the session
type MessageRequest struct {
	MessageID string `json:"messageId"`
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.game.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Act handles POST /v1/sessions/{id}/actions
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	var act model.Action
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.apply(w, r, act)
}

// Callback handles POST /v1/sessions/{id}/callback
func (h *SessionHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	act, err := callback.Parse(req.Data, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.apply(w, r, act)
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, act model.Action) {
	out, err := h.game.Act(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()), act)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Message handles POST /v1/sessions/{id}/messages
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.game.RecordMessage(r.Context(), mux.Vars(r)["id"], req.MessageID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /v1/sessions/{id}/turns
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit <= 0 {
		limit = 20
	}
	records, err := h.game.History(r.Context(), mux.Vars(r)["id"], limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []*model.TurnRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Leaderboard handles GET /v1/leaderboard
func (h *SessionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	top, _ := strconv.Atoi(r.URL.Query().Get("top"))
	entries, err := h.game.Leaderboard(r.Context(), top)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
