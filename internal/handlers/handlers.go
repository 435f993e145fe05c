package handlers

import (
	"BrainrotKeeper/internal/config"
	"BrainrotKeeper/internal/metrics"
	"BrainrotKeeper/internal/middleware"
	"BrainrotKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	inventoryService *service.InventoryService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, inventoryService, logger, config)
	invHandler := NewInventoryHandler(inventoryService, logger)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/test", userHandler.Status)

	r.Get("/api/catalog", invHandler.Catalog)
	// сжатие ответа делает WithGzip
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		DisableCompression: true,
	}))

	// Inventory routes
	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/api/profiles", invHandler.ListProfiles)
		r.Post("/api/profiles", invHandler.CreateProfile)
		r.Route("/api/profiles/{profile}", func(r chi.Router) {
			r.Get("/", invHandler.GetProfile)
			r.Delete("/", invHandler.DeleteProfile)

			r.Post("/accounts", invHandler.AddAccount)
			r.Delete("/accounts/{account}", invHandler.RemoveAccount)

			r.Get("/items", invHandler.ListItems)
			r.Post("/items", invHandler.AddItem)
			r.Delete("/items/{id}", invHandler.RemoveItem)
			r.Patch("/items/{id}", invHandler.MoveItem)

			r.Post("/revalue", invHandler.Revalue)
			r.Post("/import", invHandler.Import)
			r.Get("/export", invHandler.Export)
		})
	})

	return &Handler{Router: r}
}
