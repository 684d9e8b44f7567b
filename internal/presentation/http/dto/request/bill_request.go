package request

import "github.com/google/uuid"

// BillLineRequest is a single line on a draft or committed bill.
// ProductID is optional; ad-hoc lines carry their own name and rate.
type BillLineRequest struct {
	ProductID     *uuid.UUID `json:"product_id"`
	Name          string     `json:"name" binding:"omitempty,max=255"`
	Unit          string     `json:"unit" binding:"omitempty,max=20"`
	Quantity      float64    `json:"quantity" binding:"required,gt=0"`
	Rate          float64    `json:"rate" binding:"min=0"`
	GSTPercentage float64    `json:"gst_percentage" binding:"min=0,max=100"`
	MRP           float64    `json:"mrp" binding:"min=0"`
}

// PaymentSplitRequest is one payment method portion of a settlement
type PaymentSplitRequest struct {
	Method string  `json:"method" binding:"required"`
	Amount float64 `json:"amount" binding:"gt=0"`
}

// CreateBillRequest represents a bill creation (or preview) request
type CreateBillRequest struct {
	CustomerID         *uuid.UUID            `json:"customer_id"`
	CustomerName       string                `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone      string                `json:"customer_phone" binding:"omitempty,max=20"`
	CustomerGSTIN      string                `json:"customer_gstin" binding:"omitempty,max=15"`
	Regime             string                `json:"regime" binding:"omitempty,oneof=gst non_gst"`
	DiscountPercentage float64               `json:"discount_percentage" binding:"min=0,max=100"`
	NegotiatedAmount   float64               `json:"negotiated_amount" binding:"min=0"`
	Items              []BillLineRequest     `json:"items" binding:"required,min=1,dive"`
	Splits             []PaymentSplitRequest `json:"splits" binding:"omitempty,dive"`
}

// BillFilterRequest represents bill list filter parameters
type BillFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Regime     string `form:"regime"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
