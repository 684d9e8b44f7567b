package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
)

// WebhookRepository defines the interface for webhook subscription data operations
type WebhookRepository interface {
	Create(ctx context.Context, webhook *entity.Webhook) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Webhook, error)
	Update(ctx context.Context, webhook *entity.Webhook) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Webhook, error)
	// GetActiveForEvent returns active webhooks subscribed to the given event
	GetActiveForEvent(ctx context.Context, event string) ([]entity.Webhook, error)
}
