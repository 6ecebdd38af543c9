package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

var (
	admin    = &auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}
	customer = &auth.Identity{UserID: uuid.New(), Role: auth.RoleCustomer}
)

// memStore keeps orders in memory and answers the reader, writer and stats
// ports the way the MySQL repositories do.
type memStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
}

func newMemStore(orders ...domain.Order) *memStore {
	s := &memStore{orders: make(map[uuid.UUID]domain.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return &o, nil
}

func (s *memStore) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderNumber == number {
			return &o, nil
		}
	}
	return nil, apperrors.NewNotFoundError("order not found")
}

func (s *memStore) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter = filter.Normalize()
	var matched []domain.Order
	for _, o := range s.orders {
		if filter.UserID != nil && !o.OwnedBy(*filter.UserID) {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(o.OrderNumber, filter.Search) && !strings.Contains(o.CustomerName, filter.Search) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return &domain.OrderPage{Orders: matched, Total: int64(len(matched)), Page: filter.Page, PerPage: filter.PerPage}, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return apperrors.NewNotFoundError("order not found")
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	s.orders[id] = o
	return nil
}

func (s *memStore) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, status domain.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return apperrors.NewNotFoundError("order not found")
	}
	if o.Status != from {
		return apperrors.NewConflictError("order status is no longer " + from.String())
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	s.orders[id] = o
	return nil
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return apperrors.NewNotFoundError("order not found")
	}
	delete(s.orders, id)
	return nil
}

func (s *memStore) StatusAggregates(ctx context.Context, from *time.Time, today, month time.Time) ([]domain.StatusAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := map[domain.Status]*domain.StatusAggregate{}
	for _, o := range s.orders {
		if from != nil && o.CreatedAt.Before(*from) {
			continue
		}
		b, ok := buckets[o.Status]
		if !ok {
			b = &domain.StatusAggregate{Status: o.Status}
			buckets[o.Status] = b
		}
		b.Orders++
		b.Subtotal = b.Subtotal.Add(o.Subtotal)
		b.ShippingCost = b.ShippingCost.Add(o.ShippingCost)
		if !o.CreatedAt.Before(today) {
			b.Today++
		}
		if !o.CreatedAt.Before(month) {
			b.Month++
		}
	}

	out := make([]domain.StatusAggregate, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	return out, nil
}

// recordingCache wraps a real cache and remembers deleted keys.
type recordingCache struct {
	Cache
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) Delete(keys ...string) {
	c.mu.Lock()
	c.deleted = append(c.deleted, keys...)
	c.mu.Unlock()
	c.Cache.Delete(keys...)
}
