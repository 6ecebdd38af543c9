package service

import (
	"context"

	"github.com/google/uuid"

	"rayon/internal/domain"
)

type Repository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}

type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

// GetProductsByIDs splits ids into the products that exist and those that do not,
// keeping the order of ids for both.
func (s *ProductService) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, []uuid.UUID, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]domain.Product, 0, len(found))
	var notFoundIDs []uuid.UUID
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			continue
		}
		notFoundIDs = append(notFoundIDs, id)
	}

	return ordered, notFoundIDs, nil
}
