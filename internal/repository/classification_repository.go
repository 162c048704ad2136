package repository

import (
	"context"
	"encoding/json"

	"contai/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ClassificationRepository stores per-line classification outcomes.
// Candidate lists are kept as JSONB since they are only ever read back
// whole, in line order.
type ClassificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClassificationRepository(db *pgxpool.Pool, logger *zap.Logger) *ClassificationRepository {
	return &ClassificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ClassificationRepository) CreateBatch(ctx context.Context, lines []*models.LineClassification) error {
	if len(lines) == 0 {
		return nil
	}

	builder := squirrel.Insert("line_classifications").
		Columns("id", "invoice_id", "line_number", "description", "status", "candidates", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, line := range lines {
		candidates, err := json.Marshal(line.Candidates)
		if err != nil {
			return err
		}
		builder = builder.Values(line.ID, line.InvoiceID, line.LineNumber, line.Description, line.Status, candidates, line.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ClassificationRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*models.LineClassification, error) {
	query := squirrel.Select("id", "invoice_id", "line_number", "description", "status", "candidates", "created_at").
		From("line_classifications").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("line_number ASC").
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

	var lines []*models.LineClassification
	for rows.Next() {
		var line models.LineClassification
		var candidates []byte
		if err := rows.Scan(
			&line.ID, &line.InvoiceID, &line.LineNumber, &line.Description, &line.Status, &candidates, &line.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			if err := json.Unmarshal(candidates, &line.Candidates); err != nil {
				return nil, err
			}
		}
		lines = append(lines, &line)
	}

	return lines, nil
}

func (r *ClassificationRepository) DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error {
	query := squirrel.Delete("line_classifications").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
