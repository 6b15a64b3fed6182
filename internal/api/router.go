package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nmoreau/argus-soc/internal/api/handlers"
	"github.com/nmoreau/argus-soc/internal/auth"
	"github.com/nmoreau/argus-soc/internal/services"
	"github.com/nmoreau/argus-soc/internal/telemetry"
	"github.com/nmoreau/argus-soc/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	collector *telemetry.Collector,
	clientService services.ClientServiceProvider,
	assetService services.AssetServiceProvider,
	eventService services.EventServiceProvider,
	userService services.UserServiceProvider,
	reportService services.ReportServiceProvider,
	chatService services.ChatServiceProvider,
	scheduleService services.ScheduleServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(collector.Middleware)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(clientService)
	assetHandler := handlers.NewAssetHandler(assetService)
	eventHandler := handlers.NewEventHandler(eventService, hub)
	userHandler := handlers.NewUserHandler(userService)
	reportHandler := handlers.NewReportHandler(reportService)
	chatHandler := handlers.NewChatHandler(chatService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api/v1", func(r chi.Router) {
		// Session endpoints, no token required
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Post("/auth/logout", userHandler.Logout)

		// WebSocket connection endpoints
		r.Get("/ws", wsHandler.Serve)
		r.Get("/ws/clients/{id}", wsHandler.Serve)

		// Everything else requires an authenticated session
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/auth/me", userHandler.GetMe)
			r.Put("/auth/password", userHandler.UpdatePassword)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", clientHandler.GetAll)
				r.Post("/", clientHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", clientHandler.Get)
					r.Put("/", clientHandler.Update)
					r.Delete("/", clientHandler.Delete)

					r.Get("/assets", assetHandler.GetForClient)
					r.Post("/assets", assetHandler.Create)

					r.Get("/events", eventHandler.GetForClient)
					r.Post("/events", eventHandler.Create)

					r.Get("/report", reportHandler.Get)
					r.Get("/report/pdf", reportHandler.GetPDF)

					r.Post("/chat", chatHandler.Send)
					r.Get("/chat", chatHandler.History)

					r.Get("/schedules", scheduleHandler.GetForClient)
					r.Post("/schedules", scheduleHandler.Create)
				})
			})

			r.Route("/assets/{assetId}", func(r chi.Router) {
				r.Put("/", assetHandler.Update)
				r.Delete("/", assetHandler.Delete)
			})

			r.Route("/events/{eventId}", func(r chi.Router) {
				r.Put("/classification", eventHandler.Classify)
				r.Delete("/", eventHandler.Delete)
			})

			r.Route("/schedules/{scheduleId}", func(r chi.Router) {
				r.Put("/", scheduleHandler.Update)
				r.Delete("/", scheduleHandler.Delete)
			})
		})
	})

	return r
}
