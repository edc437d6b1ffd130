package models

import "time"

// Статусы подписки, приходящие из событий биллинг-провайдера.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription представляет подписку пользователя на тарифный план.
// У пользователя может быть не более одной подписки; её состояние меняется
// только событиями вебхука биллинг-провайдера или завершением checkout.
type Subscription struct {
	ID                int       // Идентификатор записи
	UserUID           string    // Владелец подписки
	PlanTier          PlanTier  // Тарифный план
	Status            string    // Статус: active, trialing, past_due, canceled
	BillingCustomerID string    // Идентификатор клиента у биллинг-провайдера
	BillingSubID      string    // Идентификатор подписки у биллинг-провайдера
	CurrentPeriodEnd  time.Time // Конец оплаченного периода у провайдера
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsEntitled сообщает, даёт ли подписка доступ к лимитам своего тарифа.
// Подписка со статусом past_due или canceled учитывается как отсутствующая,
// и пользователь откатывается на бесплатный тариф.
func (s *Subscription) IsEntitled() bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

// CheckoutRequest используется для приёма запроса на создание checkout-сессии.
type CheckoutRequest struct {
	PlanTier string `json:"plan_tier" validate:"required,oneof=starter pro"`
}
