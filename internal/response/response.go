package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "rayon/internal/errors"
)

type traceKey struct{}

// WithTraceID stores the request trace id in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns the trace id set by the tracing middleware, or a fresh one.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps typed application errors to HTTP responses. Anything it does
// not recognise is logged and reported as a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	traceID := TraceID(r.Context())
	logger = logger.With(zap.String("traceId", traceID))

	if ve, ok := apperrors.IsValidationError(err); ok {
		write(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details, logger)
		return
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		write(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", ue.Message, nil, logger)
		return
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		write(w, traceID, http.StatusForbidden, "FORBIDDEN", fe.Message, nil, logger)
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		write(w, traceID, http.StatusNotFound, "NOT_FOUND", nfe.Message, nil, logger)
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		write(w, traceID, http.StatusConflict, "CONFLICT", ce.Message, nil, logger)
		return
	}
	if _, ok := apperrors.IsGenerationError(err); ok {
		logger.Error("order number generation exhausted", zap.Error(err))
		write(w, traceID, http.StatusServiceUnavailable, "ORDER_NUMBER_UNAVAILABLE", "could not place the order, please retry", nil, logger)
		return
	}

	logger.Error("unexpected error", zap.Error(err), zap.String("path", r.URL.Path))
	write(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

// WriteValidationError reports a request that failed before reaching a use case.
func WriteValidationError(w http.ResponseWriter, r *http.Request, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	write(w, TraceID(r.Context()), http.StatusBadRequest, "VALIDATION_ERROR", message, details, logger)
}

func write(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	WriteJSON(w, status, ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}
