package handlers

import (
	"aichat-backend/internal/models"
	"aichat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// ChatService defines the interface expected from the chat service.
// This promotes loose coupling and testability.
type ChatService interface {
	Respond(ctx context.Context, req models.CompletionRequest) (models.MessageResponse, error)
}

// ChatHandlers handles the completion endpoint.
type ChatHandlers struct {
	chatService ChatService
}

func NewChatHandlers(chatService ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatService,
	}
}

// HandleChat handles POST /api/chat.
//
// The request moves through parse, validate, complete, persist, respond. A
// validation failure stops the request before any side effect; a degraded
// completion is still a 200. Only persistence faults reach the 500 path, and
// they are reported without internal detail.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	if errs := req.Validate(); len(errs) > 0 {
		httputil.RespondValidationError(w, errs)
		return
	}

	msg, err := h.chatService.Respond(r.Context(), req)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] Chat request for %q failed: %v", req.Username, err)
		httputil.RespondError(w, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.CompletionResponse{Message: msg})
}
