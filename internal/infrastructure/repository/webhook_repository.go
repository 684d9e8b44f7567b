package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type webhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *gorm.DB) domainRepo.WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) Create(ctx context.Context, webhook *entity.Webhook) error {
	return r.db.WithContext(ctx).Create(webhook).Error
}

func (r *webhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Webhook, error) {
	var webhook entity.Webhook
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&webhook, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &webhook, err
}

func (r *webhookRepository) Update(ctx context.Context, webhook *entity.Webhook) error {
	return r.db.WithContext(ctx).Save(webhook).Error
}

func (r *webhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Webhook{}, "id = ?", id).Error
}

func (r *webhookRepository) List(ctx context.Context) ([]entity.Webhook, error) {
	var webhooks []entity.Webhook
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Order("created_at DESC").
		Find(&webhooks).Error
	return webhooks, err
}

// GetActiveForEvent filters on the events JSON column in Go rather than SQL
// so the column stays portable across Postgres JSON operators.
func (r *webhookRepository) GetActiveForEvent(ctx context.Context, event string) ([]entity.Webhook, error) {
	var webhooks []entity.Webhook
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("active = ?", true).
		Find(&webhooks).Error
	if err != nil {
		return nil, err
	}

	matched := webhooks[:0]
	for _, w := range webhooks {
		if w.Events.Contains(event) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}
