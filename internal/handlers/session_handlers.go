package handlers

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/services"
	"aichat-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionHandlers handles HTTP requests related to chat sessions.
type SessionHandlers struct {
	sessionService *services.SessionService
}

func NewSessionHandlers(sessionService *services.SessionService) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
	}
}

// HandleCreateSession handles POST /api/sessions.
func (h *SessionHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	if req.Username == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	session, err := h.sessionService.CreateSession(r.Context(), req.Username, req.Title)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.NewChatSessionResponse(session))
}

// HandleListSessions handles GET /api/users/{username}/sessions.
// Sessions come back ordered by last activity, most recent first.
func (h *SessionHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	sessions, err := h.sessionService.ListSessionsByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	resp := models.ListSessionsResponse{Sessions: make([]models.ChatSessionResponse, 0, len(sessions))}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, models.NewChatSessionResponse(&sessions[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetSession handles GET /api/sessions/{sessionID}.
func (h *SessionHandlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.NewChatSessionResponse(session))
}

// HandleRenameSession handles PATCH /api/sessions/{sessionID}.
func (h *SessionHandlers) HandleRenameSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateSessionTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	session, err := h.sessionService.RenameSession(r.Context(), sessionID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to rename session")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.NewChatSessionResponse(session))
}

// HandleDeleteSession handles DELETE /api/sessions/{sessionID}.
// Deleting a session cascades to all of its messages.
func (h *SessionHandlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListMessages handles GET /api/sessions/{sessionID}/messages.
// Messages come back in chronological replay order.
func (h *SessionHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	messages, err := h.sessionService.GetMessages(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	resp := models.ListMessagesResponse{Messages: make([]models.MessageResponse, 0, len(messages))}
	for i := range messages {
		resp.Messages = append(resp.Messages, models.NewMessageResponse(&messages[i]))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

func (h *SessionHandlers) sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionIDStr := chi.URLParam(r, "sessionID")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
