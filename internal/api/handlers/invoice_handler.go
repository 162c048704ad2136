package handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"contai/internal/models"
	"contai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// UploadInvoice godoc
// @Summary Upload an XML invoice
// @Description Upload a FatturaPA-style XML invoice for later processing
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice file (.xml)"
// @Security Bearer
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/invoices/upload [post]
func (h *InvoiceHandler) UploadInvoice(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	if strings.ToLower(filepath.Ext(file.Filename)) != ".xml" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only .xml files are accepted",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	inv, err := h.invoiceService.UploadInvoice(c.Context(), src, file.Filename)
	if err != nil {
		h.logger.Error("Failed to upload invoice", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload invoice",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(inv)
}

// ProcessInvoice godoc
// @Summary Process an invoice
// @Description Extract billable lines, resolve supplier context and classify each line against the ledger-account classifier
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Security Bearer
// @Success 200 {object} dto.ProcessInvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/invoices/{id}/process [post]
func (h *InvoiceHandler) ProcessInvoice(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice ID",
		})
	}

	result, err := h.invoiceService.ProcessInvoice(c.Context(), invoiceID)
	if err != nil {
		// Extraction errors are the invoice's fault, not the server's.
		if errors.Is(err, models.ErrMalformedDocument) ||
			errors.Is(err, models.ErrInvalidPrice) ||
			errors.Is(err, models.ErrMissingElement) {
			h.logger.Warn("Invoice extraction failed", zap.Error(err), zap.String("invoice_id", invoiceID.String()))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to process invoice", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process invoice",
		})
	}

	return c.JSON(result)
}

// ListInvoices godoc
// @Summary List invoices
// @Description Get a list of uploaded invoices
// @Tags invoices
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.InvoiceResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	invoices, err := h.invoiceService.ListInvoices(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list invoices",
		})
	}

	return c.JSON(invoices)
}

// GetInvoiceResults godoc
// @Summary Get classification results
// @Description Get the stored per-line classification results for an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Security Bearer
// @Success 200 {object} dto.ProcessInvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/invoices/{id}/results [get]
func (h *InvoiceHandler) GetInvoiceResults(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid invoice ID",
		})
	}

	result, err := h.invoiceService.GetInvoiceResults(c.Context(), invoiceID)
	if err != nil {
		h.logger.Error("Failed to get invoice results", zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}

	return c.JSON(result)
}
