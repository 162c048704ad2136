package models

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusUploaded  InvoiceStatus = "uploaded"
	InvoiceStatusProcessed InvoiceStatus = "processed"
	InvoiceStatusFailed    InvoiceStatus = "failed"
)

// UnknownSupplier is the sentinel supplier name used when the invoice
// carries no CedentePrestatore block.
const UnknownSupplier = "fornitore sconosciuto"

type Invoice struct {
	ID           uuid.UUID     `db:"id"`
	FileName     string        `db:"file_name"`
	FileSize     int64         `db:"file_size"`
	FileURL      string        `db:"file_url"`
	SupplierName string        `db:"supplier_name"`
	SupplierCity string        `db:"supplier_city"`
	Status       InvoiceStatus `db:"status"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// InvoiceData is the transient result of extracting one invoice: supplier
// identity plus the descriptions of every line with a strictly positive
// price, in document order. It lives only for the duration of a single
// processing pass.
type InvoiceData struct {
	SupplierName string
	SupplierCity string
	Descriptions []string
}
