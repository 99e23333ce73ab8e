package handlers

import (
	"aichat-backend/internal/models"
	"aichat-backend/internal/services"
	"aichat-backend/pkg/httputil"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UserHandlers handles HTTP requests related to users.
type UserHandlers struct {
	userService *services.UserService
}

func NewUserHandlers(userService *services.UserService) *UserHandlers {
	return &UserHandlers{
		userService: userService,
	}
}

// HandleCreateUser handles POST /api/users.
func (h *UserHandlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	user, err := h.userService.CreateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("Create user handler failed for %q: %v", req.Username, err)
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// HandleGetUser handles GET /api/users/{username}.
func (h *UserHandlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}
