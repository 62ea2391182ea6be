package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"deenTrackAPI/middleware"
	"deenTrackAPI/services"
)

type AssistantHandler struct {
	assistantService *services.AssistantService
}

func NewAssistantHandler(assistantService *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	// Upstream completion calls can be slow; give them more room than the
	// usual 5 seconds.
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	if _, ok := middleware.GetClerkID(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.assistantService.Ask(ctx, req.Question)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
