package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a store/business in the multitenant system
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// TenantMembership represents a user's membership in a tenant
type TenantMembership struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (tm *TenantMembership) PopulateUserDetails() {
	if tm.User.ID != uuid.Nil {
		tm.MemberUser = &MemberUser{
			ID:        tm.User.ID,
			FirstName: tm.User.FirstName,
			LastName:  tm.User.LastName,
			Email:     tm.User.Email,
		}
	}
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// TenantSettings holds all customizable store configurations
type TenantSettings struct {
	// Store identity printed on invoices and receipts
	StoreName    string `json:"store_name,omitempty"`
	StoreAddress string `json:"store_address,omitempty"`
	StorePhone   string `json:"store_phone,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
	StateCode    string `json:"state_code,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Billing configuration
	DefaultRegime     string  `json:"default_regime,omitempty"` // "gst" or "non_gst"
	DefaultGSTRate    float64 `json:"default_gst_rate,omitempty"`
	BillPrefix        string  `json:"bill_prefix,omitempty"`
	ReceiptFooter     string  `json:"receipt_footer,omitempty"`
	ReceiptPaperWidth int     `json:"receipt_paper_width,omitempty"` // chars: 32 (58mm) or 48 (80mm)

	// Feature Flags
	Features TenantFeatures `json:"features,omitempty"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// TenantFeatures holds feature flags for a tenant
type TenantFeatures struct {
	EnableGSTBilling bool `json:"gst_billing"`
	EnableReports    bool `json:"reports"`
	EnableInventory  bool `json:"inventory"`
	EnableWebhooks   bool `json:"webhooks"`
	EnableMultiUser  bool `json:"multi_user"`
	EnablePrinting   bool `json:"printing"`
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:          "INR",
		Timezone:          "Asia/Kolkata",
		Locale:            "en-IN",
		DateFormat:        "DD/MM/YYYY",
		DefaultRegime:     "gst",
		DefaultGSTRate:    18.0,
		BillPrefix:        "BILL-",
		ReceiptFooter:     "Thank you, visit again!",
		ReceiptPaperWidth: 32,
		Features: TenantFeatures{
			EnableGSTBilling: true,
			EnableReports:    true,
			EnableInventory:  true,
			EnableWebhooks:   false,
			EnableMultiUser:  true,
			EnablePrinting:   true,
		},
	}
}
