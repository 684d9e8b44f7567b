package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralbilling/saral-api/internal/domain/entity"
)

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "Asha Kirana",
			Address:   "12 MG Road, Bengaluru",
			Phone:     "+91 98765 43210",
			GSTIN:     "29ABCDE1234F1Z5",
		},
		BillNo:     "BILL-000042",
		Date:       "15/08/2026 11:30",
		Customer:   "Ravi Kumar",
		TaxInvoice: true,
		Items: []entity.ReceiptItem{
			{Name: "Sugar", Quantity: 2, Unit: "kg", Rate: 45, Total: 90},
			{Name: "Tea Powder", Quantity: 1, Unit: "pkt", Rate: 110, Total: 110},
		},
		Subtotal: 200,
		GSTTotal: 36,
		Total:    236,
		Savings:  12.50,
		Payments: []entity.ReceiptPayment{
			{Method: "Cash", Amount: 100},
			{Method: "UPI", Amount: 136},
		},
		Footer: "Thank you, visit again!",
	}
}

func TestFormatReceipt(t *testing.T) {
	data := FormatReceipt(sampleReceipt(), 32)
	require.NotEmpty(t, data)
	out := string(data)

	assert.Contains(t, out, "Asha Kirana")
	assert.Contains(t, out, "GSTIN: 29ABCDE1234F1Z5")
	assert.Contains(t, out, "TAX INVOICE")
	assert.Contains(t, out, "BILL-000042")
	assert.Contains(t, out, "Ravi Kumar")
	assert.Contains(t, out, "Sugar")
	assert.Contains(t, out, "@ 45.00 each")
	assert.Contains(t, out, "236.00")
	assert.Contains(t, out, "Cash:")
	assert.Contains(t, out, "UPI:")
	assert.Contains(t, out, "You saved 12.50 today!")
	assert.Contains(t, out, "Thank you, visit again!")
}

func TestFormatReceiptCashBill(t *testing.T) {
	r := sampleReceipt()
	r.TaxInvoice = false
	r.GSTTotal = 0
	r.Savings = 0
	r.Footer = ""

	out := string(FormatReceipt(r, 32))
	assert.NotContains(t, out, "TAX INVOICE")
	assert.NotContains(t, out, "GST:")
	assert.NotContains(t, out, "You saved")
	// Default footer applies when the store has not set one
	assert.Contains(t, out, "Thank you, visit again!")
}
