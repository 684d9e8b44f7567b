package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer    printer.Printer
	billRepo   repository.BillRepository
	tenantRepo repository.TenantRepository
	backend    string
	paperWidth int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	tenantRepo repository.TenantRepository,
	backend string,
	paperWidth int,
) *PrinterService {
	if paperWidth <= 0 {
		paperWidth = 32
	}
	return &PrinterService{
		printer:    p,
		billRepo:   billRepo,
		tenantRepo: tenantRepo,
		backend:    backend,
		paperWidth: paperWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Backend    string `json:"backend"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.backend != "null" && s.backend != "",
		Connected:  s.printer.IsConnected(),
		Backend:    s.backend,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when no
// printer is configured.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   "Test Address",
			Phone:     "+91 00000 00000",
		},
		BillNo:  "TEST-000001",
		Date:    "Test Date",
		Cashier: "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, Rate: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, Rate: 5.00, Total: 10.00},
		},
		Subtotal: 20.00,
		GSTTotal: 0.00,
		Total:    20.00,
		Payments: []entity.ReceiptPayment{{Method: "Cash", Amount: 20.00}},
	}

	data := FormatReceipt(receipt, s.paperWidth)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintBillReceipt fetches a bill (with items) and prints its receipt.
// The store header and footer come from the tenant settings.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	receipt, err := s.BuildReceipt(ctx, bill)
	if err != nil {
		return nil, err
	}

	data := FormatReceipt(receipt, s.paperWidth)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (bill %s): %v", bill.BillNo, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// BuildReceipt composes a printable receipt from a stored bill.
func (s *PrinterService) BuildReceipt(ctx context.Context, bill *entity.Bill) (*entity.Receipt, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, bill.TenantID)
	if err != nil {
		return nil, err
	}

	header := entity.ReceiptHeader{StoreName: "Saral Billing"}
	footer := ""
	if tenant != nil {
		header.StoreName = tenant.Name
		if tenant.Settings.StoreName != "" {
			header.StoreName = tenant.Settings.StoreName
		}
		header.Address = tenant.Settings.StoreAddress
		header.Phone = tenant.Settings.StorePhone
		header.GSTIN = tenant.Settings.GSTIN
		footer = tenant.Settings.ReceiptFooter
	}

	receipt := &entity.Receipt{
		Header:        header,
		BillNo:        bill.BillNo,
		Date:          bill.BillDate.Format("02/01/2006 15:04"),
		Customer:      bill.CustomerName,
		CustomerGSTIN: bill.CustomerGSTIN,
		TaxInvoice:    bill.Regime == enum.RegimeGST && bill.GSTTotal > 0,
		Subtotal:      float64(bill.Subtotal) / 100,
		Discount:      float64(bill.DiscountAmount) / 100,
		GSTTotal:      float64(bill.GSTTotal) / 100,
		Total:         float64(bill.TotalAmount) / 100,
		Footer:        footer,
	}

	var savings float64
	for _, item := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Rate:     float64(item.Rate) / 100,
			Total:    float64(item.LineTotal) / 100,
		})
		if item.MRP > item.Rate {
			savings += float64(item.MRP-item.Rate) / 100 * item.Quantity
		}
	}
	receipt.Savings = savings

	for _, split := range billing.DecodePaymentSplits(bill.PaymentType, bill.GetTotalDecimal()) {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method: split.Method,
			Amount: split.Amount,
		})
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	if r.TaxInvoice {
		doc.SetBold(true).Text("TAX INVOICE").SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Bill info
	doc.KeyValue("Bill No:", r.BillNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.CustomerGSTIN != "" {
		doc.KeyValue("Cust GSTIN:", r.CustomerGSTIN)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Unit, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity != 1 {
			doc.TextF("  @ %.2f each", item.Rate)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.Subtotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", r.Discount))
	}
	if r.GSTTotal > 0 {
		doc.KeyValue("GST:", fmt.Sprintf("%.2f", r.GSTTotal))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	for _, payment := range r.Payments {
		doc.KeyValue(payment.Method+":", fmt.Sprintf("%.2f", payment.Amount))
	}

	if r.Savings > 0 {
		doc.Separator('-')
		doc.SetAlign(printer.AlignCenter).
			TextF("You saved %.2f today!", r.Savings).
			SetAlign(printer.AlignLeft)
	}

	doc.Separator('-')

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Thank you, visit again!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
