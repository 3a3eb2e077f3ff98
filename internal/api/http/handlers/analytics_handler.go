package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-crm/internal/api/dto"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/repository"
	"github.com/spec-kit/support-crm/internal/service"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// AnalyticsHandler serves dashboard aggregations and filtered reports.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	reports   *service.ReportService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, reports *service.ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, reports: reports}
}

// Summary GET /api/analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// TicketsPerTechnician GET /api/analytics/tickets-per-technician.
func (h *AnalyticsHandler) TicketsPerTechnician(c *fiber.Ctx) error {
	loads, err := h.analytics.TicketsPerTechnician(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianLoadResponse, 0, len(loads))
	for _, load := range loads {
		items = append(items, dto.TechnicianLoadResponse{
			TechnicianID:   load.TechnicianID,
			TechnicianName: load.TechnicianName,
			TicketCount:    load.TicketCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// TicketReports GET /api/reports.
func (h *AnalyticsHandler) TicketReports(c *fiber.Ctx) error {
	filter := repository.TicketFilter{SortBy: c.Query("sort")}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		if !domain.ValidTicketStatus(status) {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if assigned := c.Query("assignedTo"); assigned != "" {
		filter.AssignedTo = &assigned
	}
	if raw := c.Query("from"); raw != "" {
		from := parseTime(raw)
		if from == nil {
			return apperrors.NewValidationError("invalid from date", map[string]any{"from": raw})
		}
		filter.CreatedFrom = from
	}
	if raw := c.Query("to"); raw != "" {
		to := parseTime(raw)
		if to == nil {
			return apperrors.NewValidationError("invalid to date", map[string]any{"to": raw})
		}
		filter.CreatedTo = to
	}

	rows, err := h.reports.TicketReports(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketReportResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.TicketReportResponse{
			TicketResponse: dto.NewTicketResponse(&rows[i].Ticket),
			AssignedToUser: dto.UserRefResponse(rows[i].AssignedTo),
			CreatedByUser:  dto.UserRefResponse(rows[i].CreatedBy),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// parseTime accepts RFC3339 timestamps and bare dates; report clients send
// both forms.
func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t
	}
	return nil
}
