package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	"rayon/internal/dto"
	apperrors "rayon/internal/errors"
	"rayon/internal/order/usecase"
	"rayon/internal/response"
)

const maxBodyBytes = 1 << 20

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, caller *auth.Identity, req dto.CreateOrderRequest) (*domain.Order, error)
}

type UpdateStatusUseCase interface {
	UpdateStatus(ctx context.Context, caller *auth.Identity, id uuid.UUID, status string) (*domain.Order, error)
}

type DeleteOrderUseCase interface {
	DeleteOrder(ctx context.Context, caller *auth.Identity, id uuid.UUID) error
}

type TrackOrderUseCase interface {
	Track(ctx context.Context, number string) (*domain.Order, error)
}

type OrderStatsUseCase interface {
	Stats(ctx context.Context, caller *auth.Identity, period string) (*domain.OrderStats, error)
}

type OrderQueryUseCase interface {
	List(ctx context.Context, caller *auth.Identity, q usecase.ListOrdersQuery) (*domain.OrderPage, error)
	Get(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*domain.Order, error)
}

type OrderController struct {
	place  PlaceOrderUseCase
	status UpdateStatusUseCase
	remove DeleteOrderUseCase
	track  TrackOrderUseCase
	stats  OrderStatsUseCase
	query  OrderQueryUseCase
	logger *zap.Logger
}

func NewOrderController(
	place PlaceOrderUseCase,
	status UpdateStatusUseCase,
	remove DeleteOrderUseCase,
	track TrackOrderUseCase,
	stats OrderStatsUseCase,
	query OrderQueryUseCase,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		place:  place,
		status: status,
		remove: remove,
		track:  track,
		stats:  stats,
		query:  query,
		logger: logger,
	}
}

func (c *OrderController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if !c.decode(w, r, &req) {
		return
	}

	caller, _ := auth.FromContext(r.Context())
	order, err := c.place.PlaceOrder(r.Context(), caller, req)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(*order), c.logger)
}

func (c *OrderController) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := optionalInt(q.Get("page"), "page")
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}
	perPage, err := optionalInt(q.Get("per_page"), "per_page")
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	caller, _ := auth.FromContext(r.Context())
	result, err := c.query.List(r.Context(), caller, usecase.ListOrdersQuery{
		Status:  q.Get("status"),
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewListOrdersResponse(*result), c.logger)
}

func (c *OrderController) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.orderID(w, r)
	if !ok {
		return
	}

	caller, _ := auth.FromContext(r.Context())
	order, err := c.query.Get(r.Context(), caller, id)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order), c.logger)
}

func (c *OrderController) HandleTrack(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackOrderRequest
	if !c.decode(w, r, &req) {
		return
	}

	order, err := c.track.Track(r.Context(), req.OrderNumber)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewTrackingResponse(*order), c.logger)
}

func (c *OrderController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.orderID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !c.decode(w, r, &req) {
		return
	}

	caller, _ := auth.FromContext(r.Context())
	order, err := c.status.UpdateStatus(r.Context(), caller, id, req.Status)
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(*order), c.logger)
}

func (c *OrderController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.orderID(w, r)
	if !ok {
		return
	}

	caller, _ := auth.FromContext(r.Context())
	if err := c.remove.DeleteOrder(r.Context(), caller, id); err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *OrderController) HandleStats(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	stats, err := c.stats.Stats(r.Context(), caller, r.URL.Query().Get("period"))
	if err != nil {
		response.WriteError(w, r, err, c.logger)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewOrderStatsResponse(*stats), c.logger)
}

func (c *OrderController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		c.logger.Warn("invalid JSON body", zap.String("traceId", response.TraceID(r.Context())), zap.Error(err))
		response.WriteValidationError(w, r, "invalid JSON body", c.logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func (c *OrderController) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteValidationError(w, r, "invalid order id", c.logger, apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}

func optionalInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError("invalid query parameter", apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must be a positive integer",
		})
	}
	return n, nil
}
