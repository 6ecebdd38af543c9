package usecase

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

// trackableNumber accepts anything shaped like PREFIX-YYYYMMDD-SUFFIX.
var trackableNumber = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+){1,3}$`)

const maxOrderNumberLen = 40

type TrackOrderUseCase struct {
	reader OrderReader
	logger *zap.Logger
}

func NewTrackOrderUseCase(reader OrderReader, logger *zap.Logger) *TrackOrderUseCase {
	return &TrackOrderUseCase{reader: reader, logger: logger}
}

// Track looks an order up by its public number. Blank, malformed and unknown
// numbers all produce the same not found error.
func (uc *TrackOrderUseCase) Track(ctx context.Context, number string) (*domain.Order, error) {
	number = strings.TrimSpace(number)
	if number == "" || len(number) > maxOrderNumberLen || !trackableNumber.MatchString(number) {
		return nil, notTracked()
	}

	order, err := uc.reader.GetByNumber(ctx, number)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, notTracked()
		}
		return nil, err
	}
	return order, nil
}

func notTracked() error {
	return apperrors.NewNotFoundError("order not found")
}
