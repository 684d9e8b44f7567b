package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdempotencyKey struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Key          string     `gorm:"uniqueIndex;not null" json:"key"`
	TenantID     *uuid.UUID `gorm:"type:uuid;index" json:"tenant_id,omitempty"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Endpoint     string     `gorm:"not null" json:"endpoint"`
	RequestHash  string     `gorm:"not null" json:"request_hash"`
	ResponseCode int        `json:"response_code"`
	ResponseBody string     `gorm:"type:text" json:"response_body"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `gorm:"index" json:"expires_at"`
}

func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
