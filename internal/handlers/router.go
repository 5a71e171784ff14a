package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"foodflow/internal/common/logger"
)

func Router(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.lg))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "message": "FoodFlow API running"})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/stream", h.StreamOrders)
		r.Get("/kitchen/queue", h.KitchenQueue)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
		r.Post("/{id}/pay", h.PayOrder)
		r.Get("/{id}/receipt", h.GetReceipt)
	})

	r.Route("/api/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/", h.CreateTable)
		r.Get("/{id}", h.GetTable)
		r.Patch("/{id}/status", h.UpdateTableStatus)
		r.Delete("/{id}", h.DeleteTable)
	})

	r.Route("/api/menus", func(r chi.Router) {
		r.Get("/", h.ListMenus)
		r.Post("/", h.CreateMenu)
		r.Get("/{id}", h.GetMenu)
		r.Put("/{id}", h.UpdateMenu)
		r.Delete("/{id}", h.DeleteMenu)
	})

	r.Route("/api/memberships", func(r chi.Router) {
		r.Get("/", h.ListMemberships)
		r.Post("/", h.CreateMembership)
		r.Get("/{id}", h.GetMembership)
	})

	r.Route("/api/order-details", func(r chi.Router) {
		r.Get("/", h.ListOrderDetails)
		r.Post("/", h.CreateOrderDetail)
		r.Get("/{id}", h.GetOrderDetail)
		r.Put("/{id}", h.UpdateOrderDetail)
		r.Delete("/{id}", h.DeleteOrderDetail)
	})

	return r
}

func requestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			lg.Debug("http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
