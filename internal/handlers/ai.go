package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"loom-backend/internal/ai"
	"loom-backend/internal/models"
)

type aiResponder interface {
	Respond(ctx context.Context, messages []models.ChatMessage) (models.AIResponse, error)
}

// AIHandler serves the chat generation endpoint. Provider outages never reach
// the client as errors; the responder degrades to its static apology instead.
type AIHandler struct {
	responder aiResponder
}

func NewAIHandler(responder aiResponder) *AIHandler {
	return &AIHandler{responder: responder}
}

func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.responder.Respond(r.Context(), req.Messages)
	if err != nil {
		if errors.Is(err, ai.ErrEmptyMessages) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"messages": "at least one message is required"}, r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to generate response", r))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
