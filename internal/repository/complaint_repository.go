package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-crm/internal/domain"
)

// ComplaintRepository encapsulates customer complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	// GetLatestPendingByEmail returns the most recently created complaint
	// with status Pending for the given email.
	GetLatestPendingByEmail(ctx context.Context, email string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	// UpdateStatus is a compare-and-swap on the version column; it returns
	// ErrVersionConflict when another writer got there first.
	UpdateStatus(ctx context.Context, complaint *domain.Complaint) error
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, name, email, phone, address, product_name, serial_number,
       date_of_purchase, issue_description, status, version, created_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO customer_complaints
            (name, email, phone, address, product_name, serial_number, date_of_purchase, issue_description, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, version, created_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Name,
		complaint.Email,
		complaint.Phone,
		complaint.Address,
		complaint.ProductName,
		complaint.SerialNumber,
		complaint.DateOfPurchase,
		complaint.IssueDescription,
		complaint.Status,
	).Scan(&complaint.ID, &complaint.Version, &complaint.CreatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM customer_complaints WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) GetLatestPendingByEmail(ctx context.Context, email string) (*domain.Complaint, error) {
	const query = `
        SELECT ` + complaintColumns + `
        FROM customer_complaints
        WHERE email=$1 AND status=$2
        ORDER BY created_at DESC
        LIMIT 1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, email, domain.ComplaintStatusPending).Scan(
		complaintFields(&complaint)...,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, arg).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.ProductName,
		&c.SerialNumber,
		&c.DateOfPurchase,
		&c.IssueDescription,
		&c.Status,
		&c.Version,
		&c.CreatedAt,
	}
}

func (r *complaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM customer_complaints ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(complaintFields(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE customer_complaints SET status=$1, version=version+1
        WHERE id=$2 AND version=$3
        RETURNING version`
	err := r.pool.QueryRow(ctx, query,
		complaint.Status,
		complaint.ID,
		complaint.Version,
	).Scan(&complaint.Version)
	if err == pgx.ErrNoRows {
		return r.classifyMiss(ctx, complaint.ID)
	}
	return err
}

// classifyMiss distinguishes a missing row from a stale version.
func (r *complaintRepository) classifyMiss(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customer_complaints WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionConflict
	}
	return pgx.ErrNoRows
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customer_complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
