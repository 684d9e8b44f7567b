package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a free-form annotation attached to a customer or a bill.
// Exactly one of CustomerID/BillID is expected to be set.
type Note struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	BillID     *uuid.UUID     `gorm:"type:uuid;index" json:"bill_id,omitempty"`
	Title      string         `gorm:"size:255" json:"title"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Pinned     bool           `gorm:"default:false" json:"pinned"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Bill     *Bill     `gorm:"foreignKey:BillID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new note
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Note model
func (Note) TableName() string {
	return "notes"
}
