package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dylnbk/kapture/internal/lib/rabbitmq"
	"github.com/dylnbk/kapture/internal/models"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testUID = "6f1e1c9a-0000-0000-0000-000000000001"

func TestNotifier_QuotaExhausted(t *testing.T) {
	users := new(UserRepoMock)
	users.On("GetUser", mock.Anything, testUID).Return(&models.User{
		UUID:     testUID,
		Email:    "test@example.com",
		Username: "testuser",
	}, nil).Once()

	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var published []models.NotificationEvent
	var routingKeys []string
	n := New(users, nil, "kapture.notifications")
	n.now = func() time.Time { return fixed }
	n.publish = func(_ *amqp.Channel, exchange, routingKey string, message any) error {
		assert.Equal(t, "kapture.notifications", exchange)
		routingKeys = append(routingKeys, routingKey)
		published = append(published, message.(models.NotificationEvent))
		return nil
	}

	err := n.QuotaExhausted(context.Background(), testUID, models.ActionScrape)
	require.NoError(t, err)

	require.Len(t, published, 1)
	assert.Equal(t, rabbitmq.RoutingKeyQuotaExhausted, routingKeys[0])
	assert.Equal(t, models.EventQuotaExhausted, published[0].Type)
	assert.Equal(t, "test@example.com", published[0].Email)
	assert.Equal(t, models.ActionScrape, published[0].ActionKind)
	assert.Equal(t, fixed, published[0].OccurredAt)

	users.AssertExpectations(t)
}

func TestNotifier_PaymentFailed(t *testing.T) {
	users := new(UserRepoMock)
	users.On("GetUser", mock.Anything, testUID).Return(&models.User{
		UUID:     testUID,
		Email:    "test@example.com",
		Username: "testuser",
	}, nil).Once()

	var gotKey string
	n := New(users, nil, "kapture.notifications")
	n.publish = func(_ *amqp.Channel, _, routingKey string, _ any) error {
		gotKey = routingKey
		return nil
	}

	err := n.PaymentFailed(context.Background(), testUID)
	require.NoError(t, err)
	assert.Equal(t, rabbitmq.RoutingKeyPaymentFailed, gotKey)
}

func TestNotifier_UnknownUser(t *testing.T) {
	users := new(UserRepoMock)
	users.On("GetUser", mock.Anything, testUID).Return(nil, errors.New("not found")).Once()

	n := New(users, nil, "kapture.notifications")
	n.publish = func(*amqp.Channel, string, string, any) error {
		t.Fatal("publish must not be called for unknown user")
		return nil
	}

	err := n.QuotaExhausted(context.Background(), testUID, models.ActionDownload)
	assert.Error(t, err)
}
