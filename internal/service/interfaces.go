package service

import (
	"context"

	"contai/internal/models"

	"github.com/google/uuid"
)

// InvoiceStore and ClassificationStore abstract the persistence layer so
// the orchestration logic can be exercised without a database.

type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
}

type ClassificationStore interface {
	CreateBatch(ctx context.Context, lines []*models.LineClassification) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*models.LineClassification, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}

// SupplierResolver answers one free-text question about a supplier. A
// failed lookup returns a sentinel string, never an error.
type SupplierResolver interface {
	ResolveSupplierContext(ctx context.Context, name, city string) string
}

// LineClassifier submits one description to the classification endpoint and
// decodes its doubly-encoded reply. Classify degrades to nil on transport
// failure.
type LineClassifier interface {
	Classify(ctx context.Context, description, infoFornitore string) *ChatMessageResponse
	DecodeAccounts(resp *ChatMessageResponse) []models.LedgerAccount
}
