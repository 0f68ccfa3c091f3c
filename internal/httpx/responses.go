package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries either a single message or a list of validation
// messages, plus the HTTP status repeated for clients that only see the body.
type ErrorBody struct {
	Message any `json:"message"`
	Status  int `json:"status"`
}

// MessageResponse is used for replies that carry no resource, like deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorResponse{
		Error: ErrorBody{Message: message, Status: statusCode},
	})
}

// JSONValidationError writes a 400 whose message is the full list of
// validation failures.
func JSONValidationError(w http.ResponseWriter, messages []string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{Message: messages, Status: http.StatusBadRequest},
	})
}

func JSONMessage(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, MessageResponse{Message: message})
}
