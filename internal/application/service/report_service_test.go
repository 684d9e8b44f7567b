package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/internal/domain/repository"
)

type stubBillRepo struct {
	repository.BillRepository
	bills []entity.Bill
}

func (s *stubBillRepo) ListForExport(ctx context.Context, start, end time.Time) ([]entity.Bill, error) {
	return s.bills, nil
}

type stubAnalyticsRepo struct {
	repository.AnalyticsRepository
	summary []repository.GSTSummaryResult
}

func (s *stubAnalyticsRepo) GetGSTSummary(ctx context.Context, start, end time.Time) ([]repository.GSTSummaryResult, error) {
	return s.summary, nil
}

func exportBill() entity.Bill {
	splits, _ := billing.EncodePaymentSplits([]billing.PaymentSplit{
		{Method: "Cash", Amount: 100},
		{Method: "UPI", Amount: 136},
	})
	return entity.Bill{
		BillNo:         "BILL-000042",
		BillDate:       time.Date(2026, 8, 15, 11, 30, 0, 0, time.UTC),
		Regime:         enum.RegimeGST,
		Status:         enum.BillStatusPaid,
		CustomerName:   "Asha Traders",
		CustomerPhone:  "9876543210",
		CustomerGSTIN:  "29ABCDE1234F1Z5",
		Subtotal:       20000,
		GSTTotal:       3600,
		TotalAmount:    23600,
		AmountReceived: 23600,
		PaymentType:    splits,
	}
}

func TestNewReportPeriod(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	period, err := NewReportPeriod(start, end)
	require.NoError(t, err)
	assert.Equal(t, start, period.Start)
	assert.Equal(t, 23, period.End.Hour())
	assert.Equal(t, 59, period.End.Minute())

	t.Run("same day range", func(t *testing.T) {
		period, err := NewReportPeriod(start, start)
		require.NoError(t, err)
		assert.True(t, period.End.After(period.Start))
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewReportPeriod(end, start)
		assert.Error(t, err)
	})

	t.Run("zero dates", func(t *testing.T) {
		_, err := NewReportPeriod(time.Time{}, end)
		assert.Error(t, err)
	})
}

func TestSalesReportRow(t *testing.T) {
	bill := exportBill()
	row := salesReportRow(&bill)

	require.Len(t, row, len(salesReportHeader))
	assert.Equal(t, "BILL-000042", row[0])
	assert.Equal(t, "15/08/2026", row[1])
	assert.Equal(t, "Asha Traders", row[2])
	assert.Equal(t, "GST", row[5])
	assert.Equal(t, "Paid", row[6])
	assert.Equal(t, "200.00", row[7])
	assert.Equal(t, "36.00", row[8])
	assert.Equal(t, "236.00", row[10])
	assert.Equal(t, "Cash: 100.00; UPI: 136.00", row[12])
}

func TestSalesReportRowNonGST(t *testing.T) {
	bill := exportBill()
	bill.Regime = enum.RegimeNonGST
	bill.GSTTotal = 0

	row := salesReportRow(&bill)
	assert.Equal(t, "Cash Bill", row[5])
	assert.Equal(t, "0.00", row[8])
}

func TestSalesReportCSV(t *testing.T) {
	svc := NewReportService(&stubBillRepo{bills: []entity.Bill{exportBill()}}, &stubAnalyticsRepo{})

	period, err := NewReportPeriod(
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	data, err := svc.SalesReportCSV(context.Background(), period)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, salesReportHeader, records[0])
	assert.Equal(t, "BILL-000042", records[1][0])
}

func TestGSTSummaryCSV(t *testing.T) {
	svc := NewReportService(&stubBillRepo{}, &stubAnalyticsRepo{
		summary: []repository.GSTSummaryResult{
			{GSTPercentage: 5, TaxableValue: 1000, GSTCollected: 50, BillCount: 4},
			{GSTPercentage: 18, TaxableValue: 200, GSTCollected: 36, BillCount: 1},
		},
	})

	period, err := NewReportPeriod(
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	data, err := svc.GSTSummaryCSV(context.Background(), period)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"5.00", "1000.00", "50.00", "4"}, records[1])
	assert.Equal(t, []string{"18.00", "200.00", "36.00", "1"}, records[2])
}

func TestSalesReportXLSX(t *testing.T) {
	svc := NewReportService(&stubBillRepo{bills: []entity.Bill{exportBill()}}, &stubAnalyticsRepo{
		summary: []repository.GSTSummaryResult{
			{GSTPercentage: 18, TaxableValue: 200, GSTCollected: 36, BillCount: 1},
		},
	})

	period, err := NewReportPeriod(
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	data, err := svc.SalesReportXLSX(context.Background(), period)
	require.NoError(t, err)
	// XLSX files are zip archives
	assert.Equal(t, "PK", string(data[:2]))
}
