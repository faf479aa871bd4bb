package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"boty-storefront/internal/config"
	"boty-storefront/internal/handler"
	"boty-storefront/internal/middleware"
)

// Handlers groups everything the router mounts. Uploads may be nil when
// images live in object storage.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Upload  *handler.UploadHandler
	Catalog *handler.CatalogHandler
	Events  *handler.EventsHandler
	AdminUI *handler.AdminUIHandler
	Uploads http.Handler
	Health  http.HandlerFunc
}

func New(cfg *config.Config, guard *middleware.RouteGuard, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	trusted, err := middleware.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		slog.Error("ignoring trusted proxies", "error", err)
		trusted = nil
	}

	r.Use(middleware.ClientIP(trusted))
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(guard.Handler)

	health := h.Health
	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}
	}
	r.Get("/health", health)

	if h.Uploads != nil {
		r.With(middleware.StreamingTimeout(5*time.Minute, 30*time.Second)).
			Handle("/uploads/*", http.StripPrefix("/uploads/", h.Uploads))
	}

	r.Get("/admin/login", h.AdminUI.Login)
	r.Get("/admin", h.AdminUI.Dashboard)
	r.Get("/admin/products", h.AdminUI.Products)
	r.Get("/admin/products/new", h.AdminUI.NewProduct)
	r.Get("/admin/products/{id}/edit", h.AdminUI.EditProduct)

	// The websocket route sits outside the timeout group, which buffers
	// responses and cannot hijack.
	r.Get("/api/admin/events", h.Events.Stream)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/api/products", h.Catalog.List)
		api.Get("/api/products/{slug}", h.Catalog.GetBySlug)

		api.Route("/api/admin", func(admin chi.Router) {
			admin.Post("/auth/login", h.Auth.Login)
			admin.Post("/auth/logout", h.Auth.Logout)
			admin.Get("/auth/me", h.Auth.Me)

			admin.Get("/products", h.Product.List)
			admin.Post("/products", h.Product.Create)
			admin.Get("/products/{id}", h.Product.Get)
			admin.Patch("/products/{id}", h.Product.Update)
			admin.Delete("/products/{id}", h.Product.Delete)

			admin.Post("/uploads/product-image", h.Upload.ProductImage)
		})
	})

	return r
}
