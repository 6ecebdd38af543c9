package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type OrderDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type DeleteOrderUseCase struct {
	repo   OrderDeleter
	cache  Cache
	logger *zap.Logger
}

func NewDeleteOrderUseCase(repo OrderDeleter, cache Cache, logger *zap.Logger) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{repo: repo, cache: cache, logger: logger}
}

// DeleteOrder removes the order and its items. Stock taken at checkout is
// not given back.
func (uc *DeleteOrderUseCase) DeleteOrder(ctx context.Context, caller *auth.Identity, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return err
		}
		return apperrors.NewPersistenceError("failed to delete order", err)
	}

	uc.cache.Delete(domain.OrderCacheKeys()...)

	uc.logger.Info("order deleted", zap.String("orderId", id.String()), zap.String("by", caller.UserID.String()))
	return nil
}
