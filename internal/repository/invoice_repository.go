package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shreeeniyaa/chitfund-engine/internal/domain"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, plan_id, enrollment_id, invoice_date,
		                      due_number, due_amount, arrear_amount, received_amount,
		                      pending_amount, balance_amount, manual_arrear, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.CustomerID,
		invoice.PlanID,
		invoice.EnrollmentID,
		invoice.InvoiceDate,
		invoice.DueNumber,
		invoice.DueAmount,
		invoice.ArrearAmount,
		invoice.ReceivedAmount,
		invoice.PendingAmount,
		invoice.BalanceAmount,
		invoice.ManualArrear,
		invoice.Status,
		invoice.CreatedAt,
	)

	return err
}

func (r *invoiceRepository) FindLatest(ctx context.Context, customerID, planID string) (*domain.Invoice, error) {
	query := `
		SELECT id, customer_id, plan_id, enrollment_id, invoice_date, due_number,
		       due_amount, arrear_amount, received_amount, pending_amount,
		       balance_amount, manual_arrear, status, created_at
		FROM invoices
		WHERE customer_id = $1 AND plan_id = $2
		ORDER BY invoice_date DESC, created_at DESC
		LIMIT 1
	`

	var invoice domain.Invoice
	err := r.db.GetContext(ctx, &invoice, query, customerID, planID)
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}

func (r *invoiceRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*domain.Invoice, error) {
	query := `
		SELECT id, customer_id, plan_id, enrollment_id, invoice_date, due_number,
		       due_amount, arrear_amount, received_amount, pending_amount,
		       balance_amount, manual_arrear, status, created_at
		FROM invoices
		WHERE enrollment_id = $1
		ORDER BY invoice_date DESC, created_at DESC
	`

	var invoices []*domain.Invoice
	err := r.db.SelectContext(ctx, &invoices, query, enrollmentID)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE invoices
		SET status = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}
