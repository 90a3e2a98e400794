package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"truthordare/internal/engine"
	"truthordare/internal/model"
	"truthordare/internal/render"
	"truthordare/internal/service"
	"truthordare/internal/transport/rest/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// PlayerToken handles POST /v1/auth/player
func (h *AuthHandler) PlayerToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authSvc.IssuePlayerToken()
	if errors.Is(err, service.ErrReservedUserID) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MeResponse{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetRole(r.Context()),
	})
}

// Help handles GET /v1/help
func (h *AuthHandler) Help(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"text": render.Help(render.ResolveTag(r))})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeEngineError maps an engine error kind to an HTTP status
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch engine.KindOf(err) {
	case engine.KindAuthorization:
		status = http.StatusForbidden
	case engine.KindTurnMismatch, engine.KindConflict:
		status = http.StatusConflict
	case engine.KindCapacity:
		status = http.StatusUnprocessableEntity
	case engine.KindValidation:
		status = http.StatusBadRequest
	case engine.KindPersistence:
		status = http.StatusServiceUnavailable
	}
	if errors.Is(err, engine.ErrSessionNotFound) {
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     render.Error(render.ResolveTag(r), err),
		"kind":      engine.KindOf(err).String(),
		"retryable": engine.IsRetryable(err),
	})
}
