package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
)

// ReportService generates downloadable sales and GST reports
type ReportService struct {
	billRepo      repository.BillRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewReportService creates a new report service
func NewReportService(billRepo repository.BillRepository, analyticsRepo repository.AnalyticsRepository) *ReportService {
	return &ReportService{
		billRepo:      billRepo,
		analyticsRepo: analyticsRepo,
	}
}

// ReportPeriod is a validated date range for report generation
type ReportPeriod struct {
	Start time.Time
	End   time.Time
}

// NewReportPeriod validates and normalizes a report date range. The end
// date is extended to the end of its day so a same-day range works.
func NewReportPeriod(start, end time.Time) (*ReportPeriod, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperror.NewBadRequestError("Start and end dates are required")
	}
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return &ReportPeriod{Start: start, End: end}, nil
}

var salesReportHeader = []string{
	"Bill No", "Date", "Customer", "Phone", "GSTIN", "Regime", "Status",
	"Subtotal", "GST", "Discount", "Total", "Received", "Payment Methods",
}

// SalesReportCSV writes the sales register for the period as CSV
func (s *ReportService) SalesReportCSV(ctx context.Context, period *ReportPeriod) ([]byte, error) {
	bills, err := s.billRepo.ListForExport(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(salesReportHeader); err != nil {
		return nil, err
	}
	for _, bill := range bills {
		if err := w.Write(salesReportRow(&bill)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SalesReportXLSX writes the sales register plus a GST summary sheet
func (s *ReportService) SalesReportXLSX(ctx context.Context, period *ReportPeriod) ([]byte, error) {
	bills, err := s.billRepo.ListForExport(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	summary, err := s.analyticsRepo.GetGSTSummary(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const salesSheet = "Sales"
	f.SetSheetName("Sheet1", salesSheet)

	for col, title := range salesReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(salesSheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i, bill := range bills {
		for col, value := range salesReportRow(&bill) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(salesSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	const gstSheet = "GST Summary"
	if _, err := f.NewSheet(gstSheet); err != nil {
		return nil, err
	}
	gstHeader := []string{"GST Rate (%)", "Taxable Value", "GST Collected", "Bills"}
	for col, title := range gstHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(gstSheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i, row := range summary {
		values := []interface{}{row.GSTPercentage, row.TaxableValue, row.GSTCollected, row.BillCount}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(gstSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GSTSummaryCSV writes the per-rate GST summary for the period as CSV.
// This is the export used when filing returns.
func (s *ReportService) GSTSummaryCSV(ctx context.Context, period *ReportPeriod) ([]byte, error) {
	summary, err := s.analyticsRepo.GetGSTSummary(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"GST Rate (%)", "Taxable Value", "GST Collected", "Bills"}); err != nil {
		return nil, err
	}
	for _, row := range summary {
		record := []string{
			strconv.FormatFloat(row.GSTPercentage, 'f', 2, 64),
			strconv.FormatFloat(row.TaxableValue, 'f', 2, 64),
			strconv.FormatFloat(row.GSTCollected, 'f', 2, 64),
			strconv.Itoa(row.BillCount),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// salesReportRow flattens a bill into report columns. Money values are
// rupee decimals formatted to two places.
func salesReportRow(bill *entity.Bill) []string {
	splits := billing.DecodePaymentSplits(bill.PaymentType, bill.GetTotalDecimal())
	methods := make([]string, 0, len(splits))
	for _, split := range splits {
		methods = append(methods, fmt.Sprintf("%s: %.2f", split.Method, split.Amount))
	}

	regime := "Cash Bill"
	if bill.Regime == enum.RegimeGST {
		regime = "GST"
	}

	return []string{
		bill.BillNo,
		bill.BillDate.Format("02/01/2006"),
		bill.CustomerName,
		bill.CustomerPhone,
		bill.CustomerGSTIN,
		regime,
		bill.Status.String(),
		fmt.Sprintf("%.2f", float64(bill.Subtotal)/100),
		fmt.Sprintf("%.2f", float64(bill.GSTTotal)/100),
		fmt.Sprintf("%.2f", float64(bill.DiscountAmount)/100),
		fmt.Sprintf("%.2f", float64(bill.TotalAmount)/100),
		fmt.Sprintf("%.2f", float64(bill.AmountReceived)/100),
		strings.Join(methods, "; "),
	}
}
