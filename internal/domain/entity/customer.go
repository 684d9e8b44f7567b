package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalkInCustomerName is recorded on bills created without a customer.
const WalkInCustomerName = "Walk-in Customer"

// Customer represents a billing customer
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Phone    *string   `gorm:"size:50;index" json:"phone,omitempty"`
	Email    *string   `gorm:"size:255" json:"email,omitempty"`
	// GSTIN is only meaningful for customers billed under the GST
	// regime; cash-bill customers leave it empty.
	GSTIN     *string        `gorm:"size:20;column:gstin" json:"gstin,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	StateCode *string        `gorm:"size:5" json:"state_code,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Bills  []Bill `gorm:"foreignKey:CustomerID" json:"-"`
	Notes  []Note `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
