package http

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-crm/internal/api/http/handlers"
	"github.com/spec-kit/support-crm/internal/auth"
)

// The routes are asserted without dispatching requests, so handlers built on
// nil services are safe here.
func newTestRouteConfig() RouteConfig {
	return RouteConfig{
		Health:         handlers.NewHealthHandler("support-crm", "test", nil, nil),
		Users:          handlers.NewUsersHandler(nil, nil),
		Complaints:     handlers.NewComplaintsHandler(nil),
		Tickets:        handlers.NewTicketsHandler(nil),
		Analytics:      handlers.NewAnalyticsHandler(nil, nil),
		AuthMiddleware: auth.NewMiddleware(nil, nil),
	}
}

func registeredRoutes(app *fiber.App) map[string]bool {
	routes := map[string]bool{}
	for _, route := range app.GetRoutes() {
		path := route.Path
		if path != "/" {
			path = strings.TrimSuffix(path, "/")
		}
		routes[route.Method+" "+path] = true
	}
	return routes
}

func TestRegisterRoutesTicketAndComplaintPaths(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestRouteConfig())
	routes := registeredRoutes(app)

	expected := []string{
		"POST /api/tickets",
		"GET /api/tickets",
		"GET /api/tickets/my-tickets",
		"PUT /api/tickets/:id",
		"PUT /api/tickets/:id/in-progress",
		"PUT /api/tickets/:id/resolve",
		"PUT /api/tickets/:id/close",
		"PUT /api/customer-complaints/:id/status",
		"GET /api/analytics/summary",
		"GET /api/analytics/tickets-per-technician",
		"GET /api/reports",
	}
	for _, want := range expected {
		if !routes[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}

func TestRegisterRoutesDropsLegacyPaths(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestRouteConfig())
	routes := registeredRoutes(app)

	legacy := []string{
		"POST /api/tickets/create-ticket",
		"PATCH /api/tickets/:id/in-progress",
		"PATCH /api/tickets/:id/resolve",
		"PATCH /api/tickets/:id/close",
		"PATCH /api/customer-complaints/:id/status",
		"GET /api/analytics/ticket-summary",
	}
	for _, gone := range legacy {
		if routes[gone] {
			t.Errorf("route %q should not be registered", gone)
		}
	}
}
