package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "rayon/internal/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("validation failed"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", apperrors.NewUnauthorizedError("invalid token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperrors.NewForbiddenError("admin only"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", fmt.Errorf("loading: %w", apperrors.NewNotFoundError("order not found")), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.NewConflictError("transition not allowed"), http.StatusConflict, "CONFLICT"},
		{"generation", apperrors.NewGenerationError("no number", 5), http.StatusServiceUnavailable, "ORDER_NUMBER_UNAVAILABLE"},
		{"persistence", apperrors.NewPersistenceError("insert failed", errors.New("secret dsn")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			WriteError(rec, req, tt.err, zap.NewNop())

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.NotEmpty(t, body.Message)
			assert.NotContains(t, body.Message, "secret dsn")
		})
	}
}

func TestWriteValidationError_IncludesDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	WriteValidationError(rec, req, "invalid JSON body", zap.NewNop(), apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Details, 1)
	assert.Equal(t, "body", body.Details[0].Field)
	assert.NotEmpty(t, body.TraceID)
}
