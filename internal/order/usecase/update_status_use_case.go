package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type StatusWriter interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, updatedAt time.Time) error
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, status domain.Status, updatedAt time.Time) error
}

type UpdateStatusUseCase struct {
	reader OrderReader
	writer StatusWriter
	cache  Cache
	logger *zap.Logger
	strict bool
	now    func() time.Time
}

// NewUpdateStatusUseCase builds the admin status handler. With strict set,
// changes must follow domain.Status.CanTransitionTo; otherwise any known
// status may replace any other.
func NewUpdateStatusUseCase(reader OrderReader, writer StatusWriter, cache Cache, logger *zap.Logger, strict bool) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		reader: reader,
		writer: writer,
		cache:  cache,
		logger: logger,
		strict: strict,
		now:    time.Now,
	}
}

func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, caller *auth.Identity, id uuid.UUID, rawStatus string) (*domain.Order, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	next, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of: " + joinStatuses(domain.AllStatuses()),
		})
	}

	order, err := uc.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current := order.Status
	if uc.strict && !current.CanTransitionTo(next) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("cannot change order status from %s to %s", current, next))
	}

	now := uc.now().UTC()
	if err := uc.write(ctx, id, current, next, now); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, err
		}
		if _, ok := apperrors.IsConflictError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("failed to update order status", err)
	}

	uc.cache.Delete(domain.OrderCacheKeys()...)

	order.Status = next
	order.UpdatedAt = now

	uc.logger.Info("order status updated",
		zap.String("orderId", id.String()),
		zap.String("from", current.String()),
		zap.String("to", next.String()),
		zap.String("by", caller.UserID.String()))

	return order, nil
}

// write checks the transition was made from the status that was validated
// when transitions are enforced.
func (uc *UpdateStatusUseCase) write(ctx context.Context, id uuid.UUID, current, next domain.Status, now time.Time) error {
	if uc.strict {
		return uc.writer.UpdateStatusFrom(ctx, id, current, next, now)
	}
	return uc.writer.UpdateStatus(ctx, id, next, now)
}

func joinStatuses(statuses []domain.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
