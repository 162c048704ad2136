package service

import (
	"bytes"
	"fmt"
	"strings"

	"contai/internal/models"
	"contai/internal/xmlnav"
	"contai/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtractorService pulls supplier identity and billable line descriptions
// out of a FatturaPA-style XML invoice.
type ExtractorService struct {
	cfg    *config.ExtractorConfig
	logger *zap.Logger
}

func NewExtractorService(cfg *config.ExtractorConfig, logger *zap.Logger) *ExtractorService {
	return &ExtractorService{
		cfg:    cfg,
		logger: logger,
	}
}

// Extract parses xmlBytes and returns the supplier identity plus the
// descriptions of every line item whose PrezzoTotale is strictly positive,
// in document order. Errors here are fatal for the whole invoice:
// ErrMalformedDocument when the XML does not parse, ErrInvalidPrice when a
// price field is not numeric, ErrMissingElement when a locality chain step
// is absent and locality is configured as required.
func (s *ExtractorService) Extract(xmlBytes []byte) (*models.InvoiceData, error) {
	root, err := xmlnav.Parse(bytes.NewReader(xmlBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDocument, err)
	}

	data := &models.InvoiceData{SupplierName: models.UnknownSupplier}

	supplier := xmlnav.FindFirst(root, "CedentePrestatore")
	if supplier == nil {
		// No supplier block: keep the sentinel name and skip the locality
		// chain entirely.
		s.logger.Warn("CedentePrestatore block not found, using sentinel supplier name")
	} else {
		if name := xmlnav.FindFirst(supplier, "Denominazione"); name != nil {
			data.SupplierName = strings.TrimSpace(name.Text)
		}
		if s.cfg.ResolveLocality {
			city, err := s.supplierCity(supplier)
			if err != nil {
				return nil, err
			}
			data.SupplierCity = city
		}
	}

	for _, line := range xmlnav.FindAll(root, "DettaglioLinee") {
		priceNode := xmlnav.FindFirst(line, "PrezzoTotale")
		if priceNode == nil {
			continue
		}

		raw := strings.TrimSpace(priceNode.Text)
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidPrice, raw)
		}
		if !price.IsPositive() {
			continue
		}

		// A qualifying line without a description is silently skipped.
		if desc := xmlnav.FindFirst(line, "Descrizione"); desc != nil {
			data.Descriptions = append(data.Descriptions, strings.TrimSpace(desc.Text))
		}
	}

	return data, nil
}

// supplierCity walks the Sede -> Comune chain inside the supplier block.
// Both steps are treated as explicit optionals; LocalityRequired decides
// between failing and leaving the locality empty, the same policy for both
// steps.
func (s *ExtractorService) supplierCity(supplier *xmlnav.Node) (string, error) {
	sede := xmlnav.FindFirst(supplier, "Sede")
	if sede == nil {
		if s.cfg.LocalityRequired {
			return "", fmt.Errorf("%w: Sede", models.ErrMissingElement)
		}
		return "", nil
	}

	comune := xmlnav.FindFirst(sede, "Comune")
	if comune == nil {
		if s.cfg.LocalityRequired {
			return "", fmt.Errorf("%w: Comune", models.ErrMissingElement)
		}
		return "", nil
	}

	return strings.TrimSpace(comune.Text), nil
}
