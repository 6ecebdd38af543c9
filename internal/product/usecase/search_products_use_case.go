package usecase

import (
	"context"

	"github.com/google/uuid"

	"rayon/internal/domain"
	"rayon/internal/dto"
)

type Service interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (found []domain.Product, notFoundIDs []uuid.UUID, err error)
}

type SearchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) *SearchUseCase {
	return &SearchUseCase{service: service}
}

func (uc *SearchUseCase) SearchProducts(ctx context.Context, ids []uuid.UUID) (*dto.SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductDTO, 0, len(found))
	for _, p := range found {
		products = append(products, dto.ProductDTO{
			ID:       p.ID.String(),
			Name:     p.Name,
			Brand:    p.Brand,
			Price:    p.Price.StringFixed(2),
			Stock:    p.Stock,
			IsActive: p.IsActive,
			InStock:  p.CanFulfil(1),
		})
	}

	notFound := make([]string, 0, len(notFoundIDs))
	for _, id := range notFoundIDs {
		notFound = append(notFound, id.String())
	}

	return &dto.SearchProductsResponse{
		Products: products,
		NotFound: notFound,
	}, nil
}
