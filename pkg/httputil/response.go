package httputil

import (
	api_models "aichat-backend/internal/models"
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		log.Printf("Error encoding JSON response: %v", err)
		// Can't write header again here, just log the error
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	resp := api_models.ErrorResponse{Message: message}
	RespondJSON(w, statusCode, resp)
}

// RespondValidationError writes a 400 response echoing the field-level errors.
func RespondValidationError(w http.ResponseWriter, errs []api_models.FieldError) {
	resp := api_models.ValidationErrorResponse{
		Message: "Invalid request",
		Errors:  errs,
	}
	RespondJSON(w, http.StatusBadRequest, resp)
}
