package order

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rayon/internal/config"
	"rayon/internal/domain"
	"rayon/internal/infrastructure/mysql"
	"rayon/internal/order/controller"
	orderrepo "rayon/internal/order/repository"
	"rayon/internal/order/service"
	"rayon/internal/order/usecase"
	productrepo "rayon/internal/product/repository"
	settingsrepo "rayon/internal/settings/repository"
	settingsservice "rayon/internal/settings/service"
	"rayon/internal/validation"
)

type Module struct {
	Controller *controller.OrderController
	Stats      *usecase.OrderStatsUseCase
}

func NewModule(db *sqlx.DB, cfg *config.Config, cache usecase.Cache, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	statsRepo := orderrepo.NewMySQLOrderStatsRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)

	rates := settingsservice.NewShippingRatesService(
		settingsrepo.NewMySQLStoreSettingsRepository(db),
		domain.ShippingRates{
			FlatRate:              cfg.Order.DefaultShippingCost,
			FreeShippingThreshold: cfg.Order.FreeShippingThreshold,
		},
		logger,
	)

	checkout := service.NewCheckoutService(
		mysql.NewTxManager(db, cfg.Order.TxTimeout),
		productRepo,
		orderRepo,
		orderItemRepo,
		logger,
	)
	reader := service.NewOrderReader(orderRepo, orderItemRepo)

	place := usecase.NewPlaceOrderUseCase(
		validation.New(),
		productRepo,
		rates,
		service.NewOrderNumberGenerator(cfg.Order.NumberPrefix),
		checkout,
		cache,
		logger,
		usecase.PlaceOrderOptions{
			MaxAttempts:          cfg.Order.MaxAttempts,
			AcceptClientShipping: cfg.Order.AcceptClientShipping,
		},
	)
	stats := usecase.NewOrderStatsUseCase(statsRepo, cache, logger, cfg.Cache.StatsTTL, cfg.Order.Location)

	ctrl := controller.NewOrderController(
		place,
		usecase.NewUpdateStatusUseCase(reader, orderRepo, cache, logger, cfg.Order.StrictTransitions),
		usecase.NewDeleteOrderUseCase(orderRepo, cache, logger),
		usecase.NewTrackOrderUseCase(reader, logger),
		stats,
		usecase.NewOrderQueryUseCase(reader),
		logger,
	)

	return &Module{Controller: ctrl, Stats: stats}
}
