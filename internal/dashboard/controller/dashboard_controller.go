package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	"rayon/internal/dto"
	"rayon/internal/response"
)

type DashboardUseCase interface {
	Stats(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error)
}

type Controller struct {
	useCase DashboardUseCase
	logger  *zap.Logger
}

func NewController(useCase DashboardUseCase, logger *zap.Logger) *Controller {
	return &Controller{useCase: useCase, logger: logger}
}

func (c *Controller) HandleStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	stats, err := c.useCase.Stats(r.Context(), caller)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewDashboardStatsResponse(*stats), c.logger)
}
