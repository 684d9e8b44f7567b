package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus handles fetching printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.printerService.GetStatus())
}

// TestPrint handles printing a test receipt
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test receipt printed successfully", receipt)
}

// PrintReceipt handles printing the receipt for a bill. The rendered
// receipt is returned so clients can show a preview even when no
// physical printer is attached.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	receipt, err := h.printerService.PrintBillReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", receipt)
}
