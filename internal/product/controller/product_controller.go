package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/dto"
	apperrors "rayon/internal/errors"
	"rayon/internal/response"
)

const maxBodyBytes = 1 << 20

type SearchUseCase interface {
	SearchProducts(ctx context.Context, ids []uuid.UUID) (*dto.SearchProductsResponse, error)
}

type RequestValidator interface {
	Struct(s any) error
}

type Controller struct {
	useCase   SearchUseCase
	validator RequestValidator
	logger    *zap.Logger
}

func NewController(useCase SearchUseCase, validator RequestValidator, logger *zap.Logger) *Controller {
	return &Controller{
		useCase:   useCase,
		validator: validator,
		logger:    logger,
	}
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req dto.SearchProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("invalid JSON body", zap.String("traceId", response.TraceID(r.Context())), zap.Error(err))
		response.WriteValidationError(w, r, "invalid JSON body", c.logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.validator.Struct(req); err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	// Validation guarantees every entry parses.
	ids := make([]uuid.UUID, len(req.ProductIDs))
	for i, raw := range req.ProductIDs {
		ids[i] = uuid.MustParse(raw)
	}

	resp, err := c.useCase.SearchProducts(r.Context(), ids)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, resp, c.logger)
}
