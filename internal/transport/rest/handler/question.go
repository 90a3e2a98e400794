package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"truthordare/internal/service"
)

// QuestionHandler edits the question bank
type QuestionHandler struct {
	questionSvc *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// PromptRequest is the body of add and remove requests
type PromptRequest struct {
	Text string `json:"text"`
}

// List handles GET /v1/questions/{category}
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.questionSvc.List(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

// Add handles POST /v1/questions/{category}
func (h *QuestionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.questionSvc.Add(r.Context(), mux.Vars(r)["category"], req.Text); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE /v1/questions/{category}
func (h *QuestionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.questionSvc.Remove(r.Context(), mux.Vars(r)["category"], req.Text); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuestionHandler) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPromptNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
