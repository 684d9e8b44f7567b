package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saralbilling/saral-api/internal/domain/enum"
)

// Bill represents a committed retail bill (tax invoice or cash bill).
// All money columns are stored in paise; the custom marshaler converts
// to rupee decimals for API responses.
type Bill struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID         *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	BillNo             string          `gorm:"size:100;unique;not null" json:"bill_no"`
	BillDate           time.Time       `gorm:"not null" json:"bill_date"`
	Regime             enum.Regime     `gorm:"size:20;default:'non_gst'" json:"regime"`
	Status             enum.BillStatus `gorm:"default:0" json:"status"`
	CustomerName       string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone      string          `gorm:"size:50" json:"customer_phone"`
	CustomerGSTIN      string          `gorm:"size:20" json:"customer_gstin"`
	Subtotal           int64           `gorm:"default:0" json:"-"` // paise
	GSTTotal           int64           `gorm:"default:0" json:"-"` // paise
	DiscountPercentage float64         `gorm:"type:decimal(5,2);default:0" json:"discount_percentage"`
	DiscountAmount     int64           `gorm:"default:0" json:"-"` // paise
	NegotiatedAmount   int64           `gorm:"default:0" json:"-"` // paise, 0 means no negotiation
	GSTPercentage      float64         `gorm:"type:decimal(5,2);default:0" json:"gst_percentage"`
	TotalAmount        int64           `gorm:"not null" json:"-"` // paise, the settlement target
	AmountReceived     int64           `gorm:"default:0" json:"-"` // paise
	// PaymentType holds the canonical split snapshot: a JSON array of
	// {"PAYMENT_TYPE","AMOUNT"} records. Rows predating split payments
	// carry a bare method string; always hydrate through
	// billing.DecodePaymentSplits.
	PaymentType string         `gorm:"type:text" json:"payment_type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant     `gorm:"foreignKey:TenantID" json:"-"`
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// MarshalJSON converts paise columns to rupee decimals for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		Subtotal         float64 `json:"subtotal"`
		GSTTotal         float64 `json:"gst_total"`
		DiscountAmount   float64 `json:"discount_amount"`
		NegotiatedAmount float64 `json:"negotiated_amount"`
		TotalAmount      float64 `json:"total_amount"`
		AmountReceived   float64 `json:"amount_received"`
	}{
		Alias:            Alias(b),
		Subtotal:         float64(b.Subtotal) / 100,
		GSTTotal:         float64(b.GSTTotal) / 100,
		DiscountAmount:   float64(b.DiscountAmount) / 100,
		NegotiatedAmount: float64(b.NegotiatedAmount) / 100,
		TotalAmount:      float64(b.TotalAmount) / 100,
		AmountReceived:   float64(b.AmountReceived) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// GetTotalDecimal returns the settlement total as a rupee decimal
func (b *Bill) GetTotalDecimal() float64 {
	return float64(b.TotalAmount) / 100
}

// BillItem represents one billed product line
type BillItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BillID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID     *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Unit          string         `gorm:"size:50" json:"unit"`
	Quantity      float64        `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Rate          int64          `gorm:"not null" json:"-"` // paise per unit
	GSTPercentage float64        `gorm:"type:decimal(5,2);default:0" json:"gst_percentage"`
	Amount        int64          `gorm:"not null" json:"-"` // paise, quantity x rate
	GSTAmount     int64          `gorm:"default:0" json:"-"` // paise
	LineTotal     int64          `gorm:"not null" json:"-"` // paise
	MRP           int64          `gorm:"default:0" json:"-"` // paise, savings display only
	CostPrice     int64          `gorm:"default:0" json:"-"` // paise
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Bill    Bill     `gorm:"foreignKey:BillID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts paise columns to rupee decimals for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		Rate      float64 `json:"rate"`
		Amount    float64 `json:"amount"`
		GSTAmount float64 `json:"gst_amount"`
		LineTotal float64 `json:"line_total"`
		MRP       float64 `json:"mrp"`
		CostPrice float64 `json:"cost_price"`
	}{
		Alias:     Alias(bi),
		Rate:      float64(bi.Rate) / 100,
		Amount:    float64(bi.Amount) / 100,
		GSTAmount: float64(bi.GSTAmount) / 100,
		LineTotal: float64(bi.LineTotal) / 100,
		MRP:       float64(bi.MRP) / 100,
		CostPrice: float64(bi.CostPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// BillSequence tracks the per-tenant bill number counter. Rows are
// upserted atomically so concurrent bill creation never reuses a number.
type BillSequence struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primary_key" json:"tenant_id"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the BillSequence model
func (BillSequence) TableName() string {
	return "bill_sequences"
}
