package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type mockDashboard struct {
	StatsFunc func(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error)
}

func (m *mockDashboard) Stats(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error) {
	return m.StatsFunc(ctx, caller)
}

func TestHandleStats_OK(t *testing.T) {
	uc := &mockDashboard{StatsFunc: func(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error) {
		return &domain.DashboardStats{
			Orders:        domain.NewOrderStats(domain.PeriodAll),
			TotalProducts: 3,
			RecentOrders: []domain.Order{{
				ID: uuid.New(), OrderNumber: "RAY-20261018-ABCDEFGHJK", Status: domain.StatusPending, Total: decimal.NewFromInt(270),
			}},
		}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	NewController(uc, zap.NewNop()).HandleStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["total_products"])
	recent := body["recent_orders"].([]any)
	require.Len(t, recent, 1)
	assert.Equal(t, "270.00", recent[0].(map[string]any)["total"])
}

func TestHandleStats_Unauthorized(t *testing.T) {
	uc := &mockDashboard{StatsFunc: func(ctx context.Context, caller *auth.Identity) (*domain.DashboardStats, error) {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	NewController(uc, zap.NewNop()).HandleStats(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
