// Package notifier публикует события уведомлений в RabbitMQ.
// Письма отправляет отдельный воркер, который читает эти очереди.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/dylnbk/kapture/internal/lib/rabbitmq"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/streadway/amqp"
)

// UserRepository описывает контракт поиска пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Publisher публикует сообщение в обменник. Контракт выделен,
// чтобы подменять канал AMQP в тестах.
type Publisher func(ch *amqp.Channel, exchange, routingKey string, message any) error

// Notifier собирает события уведомлений и публикует их в очередь.
type Notifier struct {
	users    UserRepository
	channel  *amqp.Channel
	exchange string
	publish  Publisher
	now      func() time.Time
}

// New создает новый экземпляр Notifier.
func New(users UserRepository, channel *amqp.Channel, exchange string) *Notifier {
	return &Notifier{
		users:    users,
		channel:  channel,
		exchange: exchange,
		publish:  rabbitmq.PublishMessage,
		now:      time.Now,
	}
}

// QuotaExhausted публикует событие об исчерпании квоты пользователя.
func (n *Notifier) QuotaExhausted(ctx context.Context, userUID string, kind models.ActionKind) error {
	const op = "services.notifier.QuotaExhausted"

	user, err := n.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	event := models.NotificationEvent{
		Type:       models.EventQuotaExhausted,
		UserUID:    userUID,
		Email:      user.Email,
		Username:   user.Username,
		ActionKind: kind,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publish(n.channel, n.exchange, rabbitmq.RoutingKeyQuotaExhausted, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PaymentFailed публикует событие о неуспешном платеже пользователя.
func (n *Notifier) PaymentFailed(ctx context.Context, userUID string) error {
	const op = "services.notifier.PaymentFailed"

	user, err := n.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	event := models.NotificationEvent{
		Type:       models.EventPaymentFailed,
		UserUID:    userUID,
		Email:      user.Email,
		Username:   user.Username,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publish(n.channel, n.exchange, rabbitmq.RoutingKeyPaymentFailed, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
