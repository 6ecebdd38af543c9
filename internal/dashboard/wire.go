package dashboard

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rayon/internal/dashboard/controller"
	"rayon/internal/dashboard/repository"
	"rayon/internal/dashboard/usecase"
	orderrepo "rayon/internal/order/repository"
)

func NewModule(db *sqlx.DB, stats usecase.OrderStatsProvider, cache usecase.Cache, ttl time.Duration, logger *zap.Logger) *controller.Controller {
	uc := usecase.NewDashboardUseCase(
		repository.NewMySQLDashboardRepository(db),
		orderrepo.NewMySQLOrderRepository(db),
		stats,
		cache,
		logger,
		ttl,
	)
	return controller.NewController(uc, logger)
}
