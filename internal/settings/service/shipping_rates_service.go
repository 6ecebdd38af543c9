package service

import (
	"context"

	"go.uber.org/zap"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type Repository interface {
	FindShippingRates(ctx context.Context) (*domain.ShippingRates, error)
}

// ShippingRatesService serves the rates stored by the back office and falls
// back to the configured defaults until a row exists.
type ShippingRatesService struct {
	repo     Repository
	defaults domain.ShippingRates
	logger   *zap.Logger
}

func NewShippingRatesService(repo Repository, defaults domain.ShippingRates, logger *zap.Logger) *ShippingRatesService {
	return &ShippingRatesService{repo: repo, defaults: defaults, logger: logger}
}

func (s *ShippingRatesService) Rates(ctx context.Context) (domain.ShippingRates, error) {
	rates, err := s.repo.FindShippingRates(ctx)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			s.logger.Debug("store settings missing, using configured shipping rates")
			return s.defaults, nil
		}
		return domain.ShippingRates{}, err
	}
	return *rates, nil
}
