package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownPeriod = errors.New("unknown stats period")

const DashboardStatsCacheKey = "dashboard_stats"

type StatsPeriod string

const (
	PeriodDay   StatsPeriod = "day"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
	PeriodAll   StatsPeriod = "all"
)

var allPeriods = []StatsPeriod{PeriodDay, PeriodMonth, PeriodYear, PeriodAll}

// ParseStatsPeriod maps an empty selector to PeriodAll.
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	for _, p := range allPeriods {
		if StatsPeriod(s) == p {
			return p, nil
		}
	}
	return "", ErrUnknownPeriod
}

// Start returns the UTC instant where the period begins in loc. The boolean
// is false for PeriodAll, which has no lower bound.
func (p StatsPeriod) Start(now time.Time, loc *time.Location) (time.Time, bool) {
	local := now.In(loc)
	switch p {
	case PeriodDay:
		return startOfDay(local).UTC(), true
	case PeriodMonth:
		return startOfMonth(local).UTC(), true
	case PeriodYear:
		return time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc).UTC(), true
	default:
		return time.Time{}, false
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// OrderStatsCacheKey names the cached snapshot for one period.
func OrderStatsCacheKey(p StatsPeriod) string {
	return "order_stats:" + string(p)
}

// OrderCacheKeys lists every cached view that aggregates orders.
func OrderCacheKeys() []string {
	keys := []string{DashboardStatsCacheKey}
	for _, p := range allPeriods {
		keys = append(keys, OrderStatsCacheKey(p))
	}
	return keys
}

// DayBounds returns the UTC starts of the current day and month in loc.
func DayBounds(now time.Time, loc *time.Location) (today, month time.Time) {
	local := now.In(loc)
	return startOfDay(local).UTC(), startOfMonth(local).UTC()
}

type OrderStats struct {
	Period            StatsPeriod
	From              *time.Time
	TotalOrders       int64
	ByStatus          map[Status]int64
	DeliveredRevenue  decimal.Decimal
	DeliveredShipping decimal.Decimal
	TodayOrders       int64
	MonthOrders       int64
	GeneratedAt       time.Time
}

// NewOrderStats returns an all-zero snapshot with every status present.
func NewOrderStats(period StatsPeriod) OrderStats {
	byStatus := make(map[Status]int64, len(allStatuses))
	for _, s := range allStatuses {
		byStatus[s] = 0
	}
	return OrderStats{
		Period:            period,
		ByStatus:          byStatus,
		DeliveredRevenue:  decimal.Zero,
		DeliveredShipping: decimal.Zero,
	}
}

// StatusAggregate is one status bucket of the stats query.
type StatusAggregate struct {
	Status       Status
	Orders       int64
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Today        int64
	Month        int64
}

// Fold adds a bucket to the snapshot. Revenue and shipping only count
// delivered orders.
func (s *OrderStats) Fold(a StatusAggregate) {
	s.TotalOrders += a.Orders
	s.TodayOrders += a.Today
	s.MonthOrders += a.Month
	if a.Status.IsValid() {
		s.ByStatus[a.Status] += a.Orders
	}
	if a.Status == StatusDelivered {
		s.DeliveredRevenue = s.DeliveredRevenue.Add(a.Subtotal)
		s.DeliveredShipping = s.DeliveredShipping.Add(a.ShippingCost)
	}
}

type DashboardStats struct {
	Orders         OrderStats
	TotalProducts  int64
	ActiveProducts int64
	TotalCustomers int64
	RecentOrders   []Order
	GeneratedAt    time.Time
}
