package repository

import (
	"context"

	"contai/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type InvoiceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInvoiceRepository(db *pgxpool.Pool, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	query := squirrel.Insert("invoices").
		Columns("id", "file_name", "file_size", "file_url", "supplier_name", "supplier_city", "status", "created_at", "updated_at").
		Values(inv.ID, inv.FileName, inv.FileSize, inv.FileURL, inv.SupplierName, inv.SupplierCity, inv.Status, inv.CreatedAt, inv.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := squirrel.Select("id", "file_name", "file_size", "file_url", "supplier_name", "supplier_city", "status", "created_at", "updated_at").
		From("invoices").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var inv models.Invoice
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&inv.ID, &inv.FileName, &inv.FileSize, &inv.FileURL, &inv.SupplierName, &inv.SupplierCity, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	query := squirrel.Update("invoices").
		Set("supplier_name", inv.SupplierName).
		Set("supplier_city", inv.SupplierCity).
		Set("status", inv.Status).
		Set("updated_at", inv.UpdatedAt).
		Where(squirrel.Eq{"id": inv.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := squirrel.Select("id", "file_name", "file_size", "file_url", "supplier_name", "supplier_city", "status", "created_at", "updated_at").
		From("invoices").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.FileName, &inv.FileSize, &inv.FileURL, &inv.SupplierName, &inv.SupplierCity, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}

	return invoices, nil
}
