package rabbitmq

// QueueConfig связка очереди и ключа маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий уведомлений.
const (
	RoutingKeyQuotaExhausted = "quota.exhausted"
	RoutingKeyPaymentFailed  = "payment.failed"
)

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.quota", RoutingKey: RoutingKeyQuotaExhausted},
		{QueueName: "notification.billing", RoutingKey: RoutingKeyPaymentFailed},
	}
}
