package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/auth"
	dashboardcontroller "rayon/internal/dashboard/controller"
	ordercontroller "rayon/internal/order/controller"
	productcontroller "rayon/internal/product/controller"
	"rayon/internal/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Products  *productcontroller.Controller
	Orders    *ordercontroller.OrderController
	Dashboard *dashboardcontroller.Controller
}

func NewRouter(h Handlers, resolver auth.IdentityResolver, db Pinger, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(traceMiddleware)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler(db, logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(resolver, logger))

		r.Post("/products/search", h.Products.HandleSearchProducts)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.HandleCreate)
			r.Post("/track", h.Orders.HandleTrack)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(logger))
				r.Get("/", h.Orders.HandleList)
				r.Get("/{id}", h.Orders.HandleGet)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(logger))
				r.Get("/stats", h.Orders.HandleStats)
				r.Put("/{id}/status", h.Orders.HandleUpdateStatus)
				r.Delete("/{id}", h.Orders.HandleDelete)
			})
		})

		r.With(auth.RequireAdmin(logger)).Get("/dashboard/stats", h.Dashboard.HandleStats)
	})

	return r
}

// traceMiddleware reuses an incoming X-Request-Id when present.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(middleware.RequestIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(response.WithTraceID(r.Context(), traceID)))
	})
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("traceId", response.TraceID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func healthHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, logger)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
