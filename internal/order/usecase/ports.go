package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

// Cache holds read-through snapshots of order aggregates. Every order
// mutation clears domain.OrderCacheKeys before returning. Snapshots are
// stored with SetIfGeneration using the generation read before computing.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(keys ...string)
	Generation() uint64
	SetIfGeneration(key string, value any, ttl time.Duration, gen uint64) bool
}

type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
}

func requireAdmin(caller *auth.Identity) error {
	if caller == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	if !caller.IsAdmin() {
		return apperrors.NewForbiddenError("admin role required")
	}
	return nil
}
