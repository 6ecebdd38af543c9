package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rayon/internal/domain"
)

type mockRepository struct {
	FindByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	return m.FindByIDsFunc(ctx, ids)
}

func TestGetProductsByIDs_SplitsFoundAndMissing(t *testing.T) {
	a, b, missing := uuid.New(), uuid.New(), uuid.New()

	repo := &mockRepository{FindByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
		return []domain.Product{{ID: b, Name: "B"}, {ID: a, Name: "A"}}, nil
	}}

	found, notFound, err := NewService(repo).GetProductsByIDs(context.Background(), []uuid.UUID{a, missing, b})
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, a, found[0].ID)
	assert.Equal(t, b, found[1].ID)
	assert.Equal(t, []uuid.UUID{missing}, notFound)
}

func TestGetProductsByIDs_RepositoryError(t *testing.T) {
	repo := &mockRepository{FindByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
		return nil, errors.New("connection refused")
	}}

	_, _, err := NewService(repo).GetProductsByIDs(context.Background(), []uuid.UUID{uuid.New()})
	assert.Error(t, err)
}
