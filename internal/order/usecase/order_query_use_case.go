package usecase

import (
	"context"

	"github.com/google/uuid"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type ListOrdersQuery struct {
	Status  string
	Search  string
	Page    int
	PerPage int
}

type OrderQueryUseCase struct {
	reader OrderReader
}

func NewOrderQueryUseCase(reader OrderReader) *OrderQueryUseCase {
	return &OrderQueryUseCase{reader: reader}
}

// List shows admins every order and customers only their own.
func (uc *OrderQueryUseCase) List(ctx context.Context, caller *auth.Identity, q ListOrdersQuery) (*domain.OrderPage, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}

	filter := domain.OrderFilter{
		Search:  q.Search,
		Page:    q.Page,
		PerPage: q.PerPage,
	}

	if q.Status != "" {
		status, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid status filter", apperrors.ValidationDetail{
				Field:   "status",
				Message: "status must be one of: " + joinStatuses(domain.AllStatuses()),
			})
		}
		filter.Status = status
	}

	if !caller.IsAdmin() {
		userID := caller.UserID
		filter.UserID = &userID
	}

	return uc.reader.List(ctx, filter)
}

func (uc *OrderQueryUseCase) Get(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*domain.Order, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}

	order, err := uc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && !order.OwnedBy(caller.UserID) {
		return nil, apperrors.NewForbiddenError("you are not allowed to view this order")
	}
	return order, nil
}
