package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-crm/internal/api/http/handlers"
	"github.com/spec-kit/support-crm/internal/auth"
	"github.com/spec-kit/support-crm/internal/realtime"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Tickets        *handlers.TicketsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.Middleware
	Hub            *realtime.Hub
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	authed := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/forgot-password", cfg.Users.ForgotPassword)
	authGroup.Post("/reset-password/:token?", cfg.Users.ResetPassword)
	authGroup.Post("/register", authed, auth.Require(auth.ResourceUsers, auth.ActionRegister), cfg.Users.Register)
	authGroup.Get("/profile", authed, cfg.Users.GetProfile)
	authGroup.Put("/profile", authed, cfg.Users.UpdateProfile)
	authGroup.Get("/technicians", authed, auth.Require(auth.ResourceUsers, auth.ActionList), cfg.Users.ListTechnicians)
	authGroup.Get("/technicians/:id", authed, auth.Require(auth.ResourceUsers, auth.ActionRead), cfg.Users.GetTechnician)
	authGroup.Get("/staff", authed, auth.Require(auth.ResourceUsers, auth.ActionListStaff), cfg.Users.ListStaff)
	authGroup.Get("/staff/:id", authed, auth.Require(auth.ResourceUsers, auth.ActionReadStaff), cfg.Users.GetStaff)
	authGroup.Delete("/users/:id", authed, auth.Require(auth.ResourceUsers, auth.ActionDelete), cfg.Users.DeleteUser)

	complaints := api.Group("/customer-complaints")
	complaints.Post("/", cfg.Complaints.Submit)
	complaints.Get("/", authed, auth.Require(auth.ResourceComplaints, auth.ActionList), cfg.Complaints.List)
	complaints.Get("/:id", authed, auth.Require(auth.ResourceComplaints, auth.ActionRead), cfg.Complaints.Get)
	complaints.Put("/:id/status", authed, auth.Require(auth.ResourceComplaints, auth.ActionUpdateStatus), cfg.Complaints.UpdateStatus)
	complaints.Delete("/:id", authed, auth.Require(auth.ResourceComplaints, auth.ActionDelete), cfg.Complaints.Delete)

	tickets := api.Group("/tickets", authed)
	tickets.Post("/", auth.Require(auth.ResourceTickets, auth.ActionCreate), cfg.Tickets.Create)
	tickets.Get("/", auth.Require(auth.ResourceTickets, auth.ActionList), cfg.Tickets.List)
	tickets.Get("/my-tickets", auth.Require(auth.ResourceTickets, auth.ActionListAssigned), cfg.Tickets.ListAssigned)
	tickets.Get("/:id", auth.Require(auth.ResourceTickets, auth.ActionRead), cfg.Tickets.Get)
	tickets.Put("/:id", auth.Require(auth.ResourceTickets, auth.ActionUpdate), cfg.Tickets.Update)
	tickets.Put("/:id/in-progress", auth.Require(auth.ResourceTickets, auth.ActionStartProgress), cfg.Tickets.StartProgress)
	tickets.Put("/:id/resolve", auth.Require(auth.ResourceTickets, auth.ActionResolve), cfg.Tickets.Resolve)
	tickets.Put("/:id/close", auth.Require(auth.ResourceTickets, auth.ActionClose), cfg.Tickets.Close)
	tickets.Delete("/:id", auth.Require(auth.ResourceTickets, auth.ActionDelete), cfg.Tickets.Delete)

	analytics := api.Group("/analytics", authed, auth.Require(auth.ResourceAnalytics, auth.ActionViewDashboards))
	analytics.Get("/summary", cfg.Analytics.Summary)
	analytics.Get("/tickets-per-technician", cfg.Analytics.TicketsPerTechnician)

	api.Get("/reports", authed, auth.Require(auth.ResourceReports, auth.ActionViewDashboards), cfg.Analytics.TicketReports)

	if cfg.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/events", websocket.New(cfg.Hub.ServeWS))
	}
}
