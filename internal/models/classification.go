package models

import (
	"time"

	"github.com/google/uuid"
)

type LineStatus string

const (
	// LineStatusClassified means the classifier returned at least one candidate.
	LineStatusClassified LineStatus = "classified"
	// LineStatusNoCandidates means the classifier answered with an empty list.
	LineStatusNoCandidates LineStatus = "no_candidates"
	// LineStatusLookupError means the classification call itself failed.
	LineStatusLookupError LineStatus = "lookup_error"
)

// LedgerAccount is one candidate accounting-ledger entry ("conto possibile")
// proposed by the classifier for a line-item description. Wire tags match
// the classifier's inner payload.
type LedgerAccount struct {
	NumeroConto string `json:"numero_conto"`
	Descrizione string `json:"descrizione"`
}

type LineClassification struct {
	ID          uuid.UUID       `db:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id"`
	LineNumber  int             `db:"line_number"`
	Description string          `db:"description"`
	Status      LineStatus      `db:"status"`
	Candidates  []LedgerAccount `db:"candidates"`
	CreatedAt   time.Time       `db:"created_at"`
}
