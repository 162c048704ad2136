package dto

type LedgerAccountResponse struct {
	NumeroConto string `json:"numero_conto"`
	Descrizione string `json:"descrizione"`
}

// LineClassificationResponse carries the outcome for one billable line.
// Status is "classified", "no_candidates" or "lookup_error"; Candidates is
// empty for the latter two.
type LineClassificationResponse struct {
	LineNumber  int                     `json:"line_number"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	Candidates  []LedgerAccountResponse `json:"candidates"`
}
