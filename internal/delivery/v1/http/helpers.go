package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidUUID):
		return http.StatusBadRequest, e.ErrInvalidUUID.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrSessionNotFound):
		return http.StatusNotFound, e.ErrSessionNotFound.Error()
	case errors.Is(err, e.ErrImportInProgress):
		return http.StatusConflict, e.ErrImportInProgress.Error()
	case errors.Is(err, e.ErrInvalidStateTransition):
		return http.StatusConflict, e.ErrInvalidStateTransition.Error()
	case errors.Is(err, e.ErrNothingToRollback):
		return http.StatusConflict, e.ErrNothingToRollback.Error()
	case errors.Is(err, e.ErrImportCooldown):
		return http.StatusTooManyRequests, e.ErrImportCooldown.Error()
	case errors.Is(err, context.Canceled):
		// сервис останавливается и новые импорты не принимает
		return http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg)

	var ce *e.CooldownError
	if errors.As(err, &ce) {
		secs := retryAfterSeconds(ce.Remaining.Seconds())
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		resp.RetryAfterSeconds = secs
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// uuidParam читает UUID из параметра пути chi.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, e.Wrap(name, e.ErrInvalidUUID)
	}

	return id, nil
}

// retryAfterSeconds округляет вверх: клиент не должен прийти раньше окончания паузы.
func retryAfterSeconds(secs float64) int64 {
	whole := int64(secs)
	if float64(whole) < secs {
		whole++
	}

	return whole
}
