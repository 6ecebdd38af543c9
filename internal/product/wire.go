package product

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"rayon/internal/product/controller"
	"rayon/internal/product/repository"
	"rayon/internal/product/service"
	"rayon/internal/product/usecase"
	"rayon/internal/validation"
)

func NewModule(db *sqlx.DB, logger *zap.Logger) *controller.Controller {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo)
	uc := usecase.NewSearchUseCase(svc)
	return controller.NewController(uc, validation.New(), logger)
}
