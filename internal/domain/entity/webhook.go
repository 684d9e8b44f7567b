package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Webhook event names dispatched by the billing flow.
const (
	WebhookEventBillCreated   = "bill.created"
	WebhookEventBillUpdated   = "bill.updated"
	WebhookEventBillCancelled = "bill.cancelled"
)

// WebhookEvents is a JSONB-stored list of subscribed event names.
type WebhookEvents []string

// Scan implements the sql.Scanner interface for WebhookEvents
func (e *WebhookEvents) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan WebhookEvents: unsupported type")
	}
	return json.Unmarshal(bytes, e)
}

// Value implements the driver.Valuer interface for WebhookEvents
func (e WebhookEvents) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Contains reports whether the subscription includes the event.
func (e WebhookEvents) Contains(event string) bool {
	for _, known := range e {
		if known == event {
			return true
		}
	}
	return false
}

// Webhook is a per-tenant endpoint registration. Matching events are
// POSTed to the URL with an HMAC-SHA256 signature over the body.
type Webhook struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	URL       string         `gorm:"size:2048;not null" json:"url"`
	Secret    string         `gorm:"size:255;not null" json:"-"`
	Events    WebhookEvents  `gorm:"type:jsonb" json:"events"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new webhook
func (w *Webhook) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Webhook model
func (Webhook) TableName() string {
	return "webhooks"
}
