// Package billing содержит логику бизнес-уровня для работы с подписками:
// создание checkout-сессий у внешнего биллинг-провайдера и обработку
// событий его вебхука. Состояние подписки меняется только здесь.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dylnbk/kapture/internal/billingprovider"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
)

// SubscriptionRepository описывает контракт для хранения подписок.
type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
	UpdateSubscriptionStatus(ctx context.Context, billingSubID, status string) (string, error)
	ExtendSubscriptionPeriod(ctx context.Context, billingSubID string, periodEnd time.Time) (string, error)
}

// UserRepository описывает контракт поиска пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// BillingProvider описывает контракт клиента биллинг-провайдера.
type BillingProvider interface {
	CreateCheckout(ctx context.Context, req billingprovider.CreateCheckoutRequest) (*billingprovider.CreateCheckoutResponse, error)
}

// AlertPublisher описывает контракт публикации уведомлений о платежах.
type AlertPublisher interface {
	PaymentFailed(ctx context.Context, userUID string) error
}

// BillingService отвечает за checkout и обработку событий вебхука.
type BillingService struct {
	subs       SubscriptionRepository
	users      UserRepository
	provider   BillingProvider
	alerts     AlertPublisher
	log        *slog.Logger
	successURL string
	cancelURL  string
}

// NewBillingService создает новый экземпляр BillingService.
// alerts может быть nil, тогда уведомления о неуспешных платежах
// не публикуются.
func NewBillingService(subs SubscriptionRepository, users UserRepository, provider BillingProvider, alerts AlertPublisher, log *slog.Logger, successURL, cancelURL string) *BillingService {
	return &BillingService{
		subs:       subs,
		users:      users,
		provider:   provider,
		alerts:     alerts,
		log:        log,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateCheckout создает checkout-сессию у провайдера и возвращает
// адрес страницы оплаты.
func (s *BillingService) CreateCheckout(ctx context.Context, userUID string, req models.CheckoutRequest) (string, error) {
	const op = "services.billing.CreateCheckout"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.provider.CreateCheckout(ctx, billingprovider.CreateCheckoutRequest{
		CustomerEmail: user.Email,
		PlanTier:      req.PlanTier,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created",
		slog.String("user_uid", userUID),
		slog.String("plan_tier", req.PlanTier),
		slog.String("session_id", resp.SessionID))

	return resp.CheckoutURL, nil
}

// HandleWebhookEvent применяет событие вебхука к состоянию подписки.
// Неизвестные типы событий логируются и пропускаются без ошибки:
// провайдер шлет больше типов, чем нам нужно.
func (s *BillingService) HandleWebhookEvent(ctx context.Context, event billingprovider.WebhookEvent) error {
	const op = "services.billing.HandleWebhookEvent"

	switch event.Type {
	case billingprovider.EventCheckoutCompleted:
		user, err := s.users.GetUserByEmail(ctx, event.CustomerEmail)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		sub := models.Subscription{
			UserUID:           user.UUID,
			PlanTier:          models.PlanTier(event.PlanTier),
			Status:            models.SubscriptionStatusActive,
			BillingCustomerID: event.CustomerID,
			BillingSubID:      event.SubscriptionID,
			CurrentPeriodEnd:  event.CurrentPeriodEnd,
		}
		if err := s.subs.UpsertSubscription(ctx, sub); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription activated",
			slog.String("user_uid", user.UUID),
			slog.String("plan_tier", event.PlanTier))

	case billingprovider.EventPaymentSucceeded:
		userUID, err := s.subs.ExtendSubscriptionPeriod(ctx, event.SubscriptionID, event.CurrentPeriodEnd)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription period extended",
			slog.String("user_uid", userUID),
			slog.Time("period_end", event.CurrentPeriodEnd))

	case billingprovider.EventPaymentFailed:
		userUID, err := s.subs.UpdateSubscriptionStatus(ctx, event.SubscriptionID, models.SubscriptionStatusPastDue)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("payment failed, subscription is past due",
			slog.String("user_uid", userUID))
		if s.alerts != nil {
			if err := s.alerts.PaymentFailed(ctx, userUID); err != nil {
				s.log.Warn("failed to publish payment failed event", sl.Err(err))
			}
		}

	case billingprovider.EventSubscriptionCanceled:
		userUID, err := s.subs.UpdateSubscriptionStatus(ctx, event.SubscriptionID, models.SubscriptionStatusCanceled)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription canceled",
			slog.String("user_uid", userUID))

	default:
		s.log.Warn("ignoring unknown webhook event type",
			slog.String("type", event.Type))
	}

	return nil
}
