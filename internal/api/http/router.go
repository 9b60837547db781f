package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/event-ticketing/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Tickets        *handlers.TicketsHandler
	Feedback       *handlers.FeedbackHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Patch("/me", cfg.Users.UpdateMe)
	users.Get("/:id", cfg.Users.Get)

	// The catalog is public; an organizer token narrows listings and
	// unlocks the owner-only embeds on detail reads.
	events := app.Group("/events")
	events.Get("/", cfg.AuthMiddleware.Optional, cfg.Events.List)
	events.Post("/", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.Create)
	events.Get("/:id", cfg.AuthMiddleware.Optional, cfg.Events.Get)
	events.Patch("/:id", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.Update)
	events.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireOrganizer(), cfg.Events.Delete)

	events.Post("/:id/feedback", cfg.AuthMiddleware.Handle, cfg.Feedback.Create)
	events.Get("/:id/feedback", cfg.AuthMiddleware.Handle, cfg.Feedback.List)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", auth.RequireAttendee(), cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.ListMine)
	tickets.Get("/organizer", cfg.Tickets.ListForOrganizer)
	tickets.Get("/:id/print", cfg.Tickets.Print)

	payments := app.Group("/payments")
	payments.Post("/chapa/init", cfg.AuthMiddleware.Handle, cfg.Payments.Init)
	payments.Get("/chapa/verify", cfg.Payments.Verify)
	payments.Post("/chapa/callback", cfg.Payments.Callback)
	payments.Get("/", cfg.AuthMiddleware.Handle, cfg.Payments.List)

	app.Get("/payment-success", cfg.Payments.Success)
}
