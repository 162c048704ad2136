package dto

type InvoiceResponse struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
	SupplierName string `json:"supplier_name,omitempty"`
	SupplierCity string `json:"supplier_city,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type ProcessInvoiceResponse struct {
	Invoice         InvoiceResponse              `json:"invoice"`
	SupplierContext string                       `json:"supplier_context,omitempty"`
	Lines           []LineClassificationResponse `json:"lines"`
}
