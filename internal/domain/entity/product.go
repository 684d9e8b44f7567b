package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a retail product available for billing
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Slug     string    `gorm:"size:255;unique;not null" json:"slug"`
	Code     string    `gorm:"size:100;unique;not null" json:"code"`
	HSNCode  string    `gorm:"size:20;column:hsn_code" json:"hsn_code"`
	Unit     string    `gorm:"size:50;default:'pcs'" json:"unit"`
	Category string    `gorm:"size:100" json:"category"`
	// GSTPercentage is the default rate applied when the product is
	// billed; individual bill lines may override it.
	GSTPercentage float64        `gorm:"type:decimal(5,2);default:0" json:"gst_percentage"`
	SellingPrice  int64          `gorm:"default:0" json:"-"` // paise
	CostPrice     int64          `gorm:"default:0" json:"-"` // paise
	MRP           int64          `gorm:"default:0" json:"-"` // paise
	Stock         float64        `gorm:"type:decimal(12,3);default:0" json:"stock"`
	StockAlert    float64        `gorm:"type:decimal(12,3);default:0" json:"stock_alert"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetSellingPriceDecimal returns the selling price as a rupee decimal
func (p *Product) GetSellingPriceDecimal() float64 {
	return float64(p.SellingPrice) / 100
}

// SetSellingPriceFromDecimal sets the selling price from a rupee decimal
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(price*100 + 0.5)
}

// MarshalJSON converts paise columns to rupee decimals for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
		CostPrice    float64 `json:"cost_price"`
		MRP          float64 `json:"mrp"`
	}{
		Alias:        Alias(p),
		SellingPrice: float64(p.SellingPrice) / 100,
		CostPrice:    float64(p.CostPrice) / 100,
		MRP:          float64(p.MRP) / 100,
	})
}
