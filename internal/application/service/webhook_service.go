package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/webhook"
)

// WebhookService manages webhook subscriptions and dispatches events
type WebhookService struct {
	webhookRepo repository.WebhookRepository
	dispatcher  *webhook.Dispatcher
}

// NewWebhookService creates a new webhook service
func NewWebhookService(webhookRepo repository.WebhookRepository, dispatcher *webhook.Dispatcher) *WebhookService {
	return &WebhookService{
		webhookRepo: webhookRepo,
		dispatcher:  dispatcher,
	}
}

// CreateWebhookInput represents the input for registering a webhook
type CreateWebhookInput struct {
	UserID uuid.UUID
	URL    string
	Events []string
}

var knownEvents = map[string]bool{
	entity.WebhookEventBillCreated:   true,
	entity.WebhookEventBillUpdated:   true,
	entity.WebhookEventBillCancelled: true,
}

// CreateWebhook registers a new endpoint. The signing secret is generated
// server-side and returned only on creation.
func (s *WebhookService) CreateWebhook(ctx context.Context, input *CreateWebhookInput) (*entity.Webhook, string, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, "", apperror.NewBadRequestError("Tenant context required")
	}
	if input.URL == "" {
		return nil, "", apperror.NewBadRequestError("Webhook URL is required")
	}
	if len(input.Events) == 0 {
		return nil, "", apperror.NewBadRequestError("At least one event is required")
	}
	for _, event := range input.Events {
		if !knownEvents[event] {
			return nil, "", apperror.NewBadRequestError("Unknown event: " + event)
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, "", err
	}

	hook := &entity.Webhook{
		TenantID: tenantID,
		UserID:   input.UserID,
		URL:      input.URL,
		Secret:   secret,
		Events:   entity.WebhookEvents(input.Events),
		Active:   true,
	}

	if err := s.webhookRepo.Create(ctx, hook); err != nil {
		return nil, "", err
	}

	return hook, secret, nil
}

// GetWebhook retrieves a webhook by ID
func (s *WebhookService) GetWebhook(ctx context.Context, id uuid.UUID) (*entity.Webhook, error) {
	hook, err := s.webhookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, apperror.NewNotFoundError("Webhook")
	}
	return hook, nil
}

// ListWebhooks retrieves all webhooks for the current tenant
func (s *WebhookService) ListWebhooks(ctx context.Context) ([]entity.Webhook, error) {
	return s.webhookRepo.List(ctx)
}

// UpdateWebhookInput represents the input for updating a webhook
type UpdateWebhookInput struct {
	URL    *string
	Events []string
	Active *bool
}

// UpdateWebhook updates a webhook's URL, subscribed events or active state
func (s *WebhookService) UpdateWebhook(ctx context.Context, id uuid.UUID, input *UpdateWebhookInput) (*entity.Webhook, error) {
	hook, err := s.GetWebhook(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.URL != nil {
		hook.URL = *input.URL
	}
	if input.Events != nil {
		for _, event := range input.Events {
			if !knownEvents[event] {
				return nil, apperror.NewBadRequestError("Unknown event: " + event)
			}
		}
		hook.Events = entity.WebhookEvents(input.Events)
	}
	if input.Active != nil {
		hook.Active = *input.Active
	}

	if err := s.webhookRepo.Update(ctx, hook); err != nil {
		return nil, err
	}

	return hook, nil
}

// DeleteWebhook removes a webhook registration
func (s *WebhookService) DeleteWebhook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetWebhook(ctx, id); err != nil {
		return err
	}
	return s.webhookRepo.Delete(ctx, id)
}

// Notify delivers the event to all active subscribed endpoints. Delivery
// runs in the background so the billing flow never blocks on slow
// endpoints. Failures are logged, not surfaced.
func (s *WebhookService) Notify(ctx context.Context, event string, payload interface{}) {
	hooks, err := s.webhookRepo.GetActiveForEvent(ctx, event)
	if err != nil {
		log.Printf("Failed to load webhooks for event %s: %v", event, err)
		return
	}

	for _, hook := range hooks {
		go func(url, secret string) {
			dctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.dispatcher.Deliver(dctx, url, secret, event, payload); err != nil {
				log.Printf("Webhook delivery failed for event %s: %v", event, err)
			}
		}(hook.URL, hook.Secret)
	}
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
