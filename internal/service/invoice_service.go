package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"contai/internal/dto"
	"contai/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InvoiceService orchestrates the full pass over one invoice: extraction,
// the single supplier-context lookup, and one classification call per
// billable line. Extraction errors are fatal for the invoice; external-call
// failures degrade per line and never stop the remaining lines.
type InvoiceService struct {
	invoiceStore  InvoiceStore
	lineStore     ClassificationStore
	extractor     *ExtractorService
	resolver      SupplierResolver
	classifier    LineClassifier
	lookupEnabled bool
	concurrency   int
	uploadDir     string
	logger        *zap.Logger
}

func NewInvoiceService(
	invoiceStore InvoiceStore,
	lineStore ClassificationStore,
	extractor *ExtractorService,
	resolver SupplierResolver,
	classifier LineClassifier,
	lookupEnabled bool,
	concurrency int,
	uploadDir string,
	logger *zap.Logger,
) *InvoiceService {
	// Create upload directory if it doesn't exist
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	if concurrency < 1 {
		concurrency = 1
	}

	return &InvoiceService{
		invoiceStore:  invoiceStore,
		lineStore:     lineStore,
		extractor:     extractor,
		resolver:      resolver,
		classifier:    classifier,
		lookupEnabled: lookupEnabled,
		concurrency:   concurrency,
		uploadDir:     uploadDir,
		logger:        logger,
	}
}

// UploadInvoice stores an uploaded XML invoice on disk and records it.
func (s *InvoiceService) UploadInvoice(ctx context.Context, file io.Reader, fileName string) (*dto.InvoiceResponse, error) {
	fileID := uuid.New()
	ext := filepath.Ext(fileName)
	newFileName := fileID.String() + ext
	filePath := filepath.Join(s.uploadDir, newFileName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	fileSize, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	now := time.Now()
	inv := &models.Invoice{
		ID:        fileID,
		FileName:  fileName,
		FileSize:  fileSize,
		FileURL:   "/uploads/" + newFileName,
		Status:    models.InvoiceStatusUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.invoiceStore.Create(ctx, inv); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to create invoice record: %w", err)
	}

	return invoiceResponse(inv), nil
}

// ProcessInvoice runs the classification pipeline over a stored invoice:
// extract -> resolve supplier context once -> classify each line. Successful
// lines are surfaced even when others fail.
func (s *InvoiceService) ProcessInvoice(ctx context.Context, invoiceID uuid.UUID) (*dto.ProcessInvoiceResponse, error) {
	inv, err := s.invoiceStore.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	filePath := filepath.Join(s.uploadDir, filepath.Base(inv.FileURL))
	xmlBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice file: %w", err)
	}

	data, err := s.extractor.Extract(xmlBytes)
	if err != nil {
		s.markFailed(ctx, inv)
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	// One lookup per invoice, before any classification, no caching across
	// invoices.
	var supplierContext string
	if s.lookupEnabled {
		supplierContext = s.resolver.ResolveSupplierContext(ctx, data.SupplierName, data.SupplierCity)
	}

	lines := s.classifyLines(ctx, invoiceID, data.Descriptions, supplierContext)

	// Reprocessing replaces earlier results.
	if err := s.lineStore.DeleteByInvoiceID(ctx, invoiceID); err != nil {
		s.logger.Warn("Failed to delete previous results", zap.Error(err))
	}
	if len(lines) > 0 {
		if err := s.lineStore.CreateBatch(ctx, lines); err != nil {
			s.logger.Warn("Failed to save classification results", zap.Error(err))
		}
	}

	inv.SupplierName = sanitizeUTF8(data.SupplierName)
	inv.SupplierCity = sanitizeUTF8(data.SupplierCity)
	inv.Status = models.InvoiceStatusProcessed
	inv.UpdatedAt = time.Now()
	if err := s.invoiceStore.Update(ctx, inv); err != nil {
		s.logger.Warn("Failed to update invoice record", zap.Error(err))
	}

	s.logger.Info("Invoice processed",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("supplier", data.SupplierName),
		zap.Int("lines", len(lines)),
	)

	return &dto.ProcessInvoiceResponse{
		Invoice:         *invoiceResponse(inv),
		SupplierContext: supplierContext,
		Lines:           lineResponses(lines),
	}, nil
}

// classifyLines classifies every description. With concurrency 1 the calls
// run strictly sequentially in document order; with a higher limit they fan
// out, but results are written by index so the output order always equals
// the document line order.
func (s *InvoiceService) classifyLines(ctx context.Context, invoiceID uuid.UUID, descriptions []string, supplierContext string) []*models.LineClassification {
	lines := make([]*models.LineClassification, len(descriptions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, desc := range descriptions {
		i, desc := i, desc
		g.Go(func() error {
			lines[i] = s.classifyLine(gctx, invoiceID, i+1, desc, supplierContext)
			return nil
		})
	}
	// Workers never return errors: classification failures degrade per line.
	_ = g.Wait()

	return lines
}

func (s *InvoiceService) classifyLine(ctx context.Context, invoiceID uuid.UUID, lineNumber int, description, supplierContext string) *models.LineClassification {
	line := &models.LineClassification{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		LineNumber:  lineNumber,
		Description: sanitizeUTF8(description),
		CreatedAt:   time.Now(),
	}

	resp := s.classifier.Classify(ctx, description, supplierContext)
	if resp == nil {
		line.Status = models.LineStatusLookupError
		return line
	}

	accounts := s.classifier.DecodeAccounts(resp)
	if len(accounts) == 0 {
		line.Status = models.LineStatusNoCandidates
		return line
	}

	line.Status = models.LineStatusClassified
	line.Candidates = accounts
	return line
}

func (s *InvoiceService) markFailed(ctx context.Context, inv *models.Invoice) {
	inv.Status = models.InvoiceStatusFailed
	inv.UpdatedAt = time.Now()
	if err := s.invoiceStore.Update(ctx, inv); err != nil {
		s.logger.Warn("Failed to mark invoice as failed", zap.Error(err))
	}
}

// ListInvoices lists stored invoices, newest first.
func (s *InvoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.invoiceStore.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = invoiceResponse(inv)
	}
	return responses, nil
}

// GetInvoiceResults returns the stored classification results for an invoice.
func (s *InvoiceService) GetInvoiceResults(ctx context.Context, invoiceID uuid.UUID) (*dto.ProcessInvoiceResponse, error) {
	inv, err := s.invoiceStore.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	lines, err := s.lineStore.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return &dto.ProcessInvoiceResponse{
		Invoice: *invoiceResponse(inv),
		Lines:   lineResponses(lines),
	}, nil
}

func invoiceResponse(inv *models.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:           inv.ID.String(),
		FileName:     inv.FileName,
		FileSize:     inv.FileSize,
		SupplierName: inv.SupplierName,
		SupplierCity: inv.SupplierCity,
		Status:       string(inv.Status),
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
}

func lineResponses(lines []*models.LineClassification) []dto.LineClassificationResponse {
	responses := make([]dto.LineClassificationResponse, len(lines))
	for i, line := range lines {
		candidates := make([]dto.LedgerAccountResponse, len(line.Candidates))
		for j, acc := range line.Candidates {
			candidates[j] = dto.LedgerAccountResponse{
				NumeroConto: acc.NumeroConto,
				Descrizione: acc.Descrizione,
			}
		}
		responses[i] = dto.LineClassificationResponse{
			LineNumber:  line.LineNumber,
			Description: line.Description,
			Status:      string(line.Status),
			Candidates:  candidates,
		}
	}
	return responses
}
