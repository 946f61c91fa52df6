package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-studio-booking/internal/middleware"
	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError renders err as the API error envelope. APIErrors carry their own
// status; bare store sentinels are classified here and anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrSessionNotFound):
		status, body.Code, body.Message = http.StatusNotFound, "NOT_FOUND", "Session not found"
	case errors.Is(err, model.ErrUserNotFound):
		status, body.Code, body.Message = http.StatusNotFound, "NOT_FOUND", "User not found"
	case errors.Is(err, model.ErrTeacherNotFound):
		status, body.Code, body.Message = http.StatusNotFound, "NOT_FOUND", "Teacher not found"
	case errors.Is(err, model.ErrAlreadyParticipating), errors.Is(err, model.ErrVersionConflict):
		status, body.Code, body.Message = http.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, model.ErrEmailTaken):
		status, body.Code, body.Message = http.StatusConflict, "CONFLICT", "Error: Email is already taken!"
	case errors.Is(err, model.ErrNotParticipating), errors.Is(err, model.ErrInvalidInput):
		status, body.Code, body.Message = http.StatusBadRequest, "BAD_REQUEST", err.Error()
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidToken):
		status, body.Code, body.Message = http.StatusUnauthorized, "UNAUTHORIZED", "full authentication is required"
	default:
		slog.Error("unhandled error",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
