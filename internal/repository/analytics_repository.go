package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-crm/internal/domain"
)

// TechnicianLoad is one row of the tickets-per-technician aggregation.
type TechnicianLoad struct {
	TechnicianID   string
	TechnicianName string
	TicketCount    int64
}

// TechnicianStats counts assignments for a single technician.
type TechnicianStats struct {
	TicketsAssigned int64
	TicketsResolved int64
}

// AnalyticsRepository runs read-only aggregation queries for dashboards.
// Results are computed fresh per request; nothing is cached.
type AnalyticsRepository interface {
	CountTicketsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	CountTickets(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
	TicketsPerTechnician(ctx context.Context) ([]TechnicianLoad, error)
	TechnicianTicketStats(ctx context.Context, technicianID string) (*TechnicianStats, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository builds the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) CountTicketsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *analyticsRepository) CountTickets(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	return count, err
}

func (r *analyticsRepository) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, role).Scan(&count)
	return count, err
}

// TicketsPerTechnician groups tickets by assignee and joins users to resolve
// names. Technicians whose user record was deleted still appear, with an
// empty name, because ticket references are left dangling on user delete.
func (r *analyticsRepository) TicketsPerTechnician(ctx context.Context) ([]TechnicianLoad, error) {
	const query = `
        SELECT t.assigned_to, COALESCE(u.name, ''), COUNT(*) AS ticket_count
        FROM tickets t
        LEFT JOIN users u ON u.id = t.assigned_to
        GROUP BY t.assigned_to, u.name
        ORDER BY ticket_count DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TechnicianLoad
	for rows.Next() {
		var load TechnicianLoad
		if err := rows.Scan(&load.TechnicianID, &load.TechnicianName, &load.TicketCount); err != nil {
			return nil, err
		}
		result = append(result, load)
	}
	return result, rows.Err()
}

func (r *analyticsRepository) TechnicianTicketStats(ctx context.Context, technicianID string) (*TechnicianStats, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE status='resolved')
        FROM tickets WHERE assigned_to=$1`
	var stats TechnicianStats
	if err := r.pool.QueryRow(ctx, query, technicianID).Scan(&stats.TicketsAssigned, &stats.TicketsResolved); err != nil {
		return nil, err
	}
	return &stats, nil
}
