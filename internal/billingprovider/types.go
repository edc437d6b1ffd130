package billingprovider

import "time"

// CreateCheckoutRequest запрос на создание checkout-сессии у провайдера.
type CreateCheckoutRequest struct {
	CustomerEmail string `json:"customer_email"`
	PlanTier      string `json:"plan_tier"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
}

// CreateCheckoutResponse ответ провайдера с адресом оплаты.
type CreateCheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Типы событий вебхука провайдера.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventPaymentSucceeded     = "payment.succeeded"
	EventPaymentFailed        = "payment.failed"
	EventSubscriptionCanceled = "subscription.canceled"
)

// WebhookEvent событие вебхука биллинг-провайдера.
type WebhookEvent struct {
	Type             string    `json:"type"`
	CustomerID       string    `json:"customer_id"`
	CustomerEmail    string    `json:"customer_email"`
	SubscriptionID   string    `json:"subscription_id"`
	PlanTier         string    `json:"plan_tier"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}
