package models

import "time"

// Типы событий, публикуемых в очередь уведомлений.
const (
	EventQuotaExhausted = "quota.exhausted"
	EventPaymentFailed  = "payment.failed"
)

// NotificationEvent сообщение для воркера отправки уведомлений.
type NotificationEvent struct {
	Type       string     `json:"type"`        // Тип события
	UserUID    string     `json:"user_uid"`    // Пользователь, которому адресовано уведомление
	Email      string     `json:"email"`       // Адрес получателя
	Username   string     `json:"username"`    // Имя пользователя для текста письма
	ActionKind ActionKind `json:"action_kind"` // Категория действия (для quota.exhausted)
	OccurredAt time.Time  `json:"occurred_at"`
}
