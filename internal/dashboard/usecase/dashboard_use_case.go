package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/dashboard/repository"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

const recentOrdersLimit = 5

type Cache interface {
	Get(key string) (any, bool)
	Generation() uint64
	SetIfGeneration(key string, value any, ttl time.Duration, gen uint64) bool
}

type CountsRepository interface {
	Counts(ctx context.Context) (repository.Counts, error)
}

type RecentOrders interface {
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
}

type OrderStatsProvider interface {
	ForPeriod(ctx context.Context, period domain.StatsPeriod) (*domain.OrderStats, error)
}

type DashboardUseCase struct {
	counts CountsRepository
	orders RecentOrders
	stats  OrderStatsProvider
	cache  Cache
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

func NewDashboardUseCase(counts CountsRepository, orders RecentOrders, stats OrderStatsProvider, cache Cache, logger *zap.Logger, ttl time.Duration) *DashboardUseCase {
	return &DashboardUseCase{
		counts: counts,
		orders: orders,
		stats:  stats,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Stats serves the cached dashboard snapshot. Order mutations clear it.
func (uc *DashboardUseCase) Stats(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("admin role required")
	}

	gen := uc.cache.Generation()
	if cached, ok := uc.cache.Get(domain.DashboardStatsCacheKey); ok {
		if stats, ok := cached.(domain.DashboardStats); ok {
			return &stats, nil
		}
	}

	orderStats, err := uc.stats.ForPeriod(ctx, domain.PeriodAll)
	if err != nil {
		return nil, err
	}

	counts, err := uc.counts.Counts(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to count catalog", err)
	}

	recent, err := uc.orders.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to load recent orders", err)
	}

	stats := domain.DashboardStats{
		Orders:         *orderStats,
		TotalProducts:  counts.TotalProducts,
		ActiveProducts: counts.ActiveProducts,
		TotalCustomers: counts.TotalCustomers,
		RecentOrders:   recent,
		GeneratedAt:    uc.now().UTC(),
	}

	if !uc.cache.SetIfGeneration(domain.DashboardStatsCacheKey, stats, uc.ttl, gen) {
		uc.logger.Debug("orders changed while computing dashboard, snapshot not cached")
	}
	uc.logger.Debug("dashboard stats computed", zap.Int64("totalOrders", stats.Orders.TotalOrders))

	return &stats, nil
}
