package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type StatsRepository interface {
	StatusAggregates(ctx context.Context, from *time.Time, today, month time.Time) ([]domain.StatusAggregate, error)
}

type OrderStatsUseCase struct {
	repo   StatsRepository
	cache  Cache
	logger *zap.Logger
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
}

// NewOrderStatsUseCase computes period statistics with day and month
// boundaries taken in loc and caches each period for ttl.
func NewOrderStatsUseCase(repo StatsRepository, cache Cache, logger *zap.Logger, ttl time.Duration, loc *time.Location) *OrderStatsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderStatsUseCase{
		repo:   repo,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
		loc:    loc,
		now:    time.Now,
	}
}

func (uc *OrderStatsUseCase) Stats(ctx context.Context, caller *auth.Identity, rawPeriod string) (*domain.OrderStats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	period, err := domain.ParseStatsPeriod(rawPeriod)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid period", apperrors.ValidationDetail{
			Field:   "period",
			Message: "period must be one of: day, month, year, all",
		})
	}

	return uc.ForPeriod(ctx, period)
}

// ForPeriod serves the cached snapshot for period, computing it on a miss.
func (uc *OrderStatsUseCase) ForPeriod(ctx context.Context, period domain.StatsPeriod) (*domain.OrderStats, error) {
	key := domain.OrderStatsCacheKey(period)
	gen := uc.cache.Generation()
	if cached, ok := uc.cache.Get(key); ok {
		if stats, ok := cached.(domain.OrderStats); ok {
			return &stats, nil
		}
	}

	now := uc.now()
	today, month := domain.DayBounds(now, uc.loc)

	var from *time.Time
	if start, ok := period.Start(now, uc.loc); ok {
		from = &start
	}

	aggregates, err := uc.repo.StatusAggregates(ctx, from, today, month)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to compute order stats", err)
	}

	stats := domain.NewOrderStats(period)
	stats.From = from
	stats.GeneratedAt = now.UTC()
	for _, a := range aggregates {
		stats.Fold(a)
	}

	if !uc.cache.SetIfGeneration(key, stats, uc.ttl, gen) {
		uc.logger.Debug("orders changed while computing stats, snapshot not cached", zap.String("period", string(period)))
	}
	uc.logger.Debug("order stats computed", zap.String("period", string(period)), zap.Int64("totalOrders", stats.TotalOrders))

	return &stats, nil
}
