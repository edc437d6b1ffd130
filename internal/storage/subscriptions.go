package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dylnbk/kapture/internal/models"
)

// GetSubscription возвращает подписку пользователя.
// Отсутствие подписки — нормальная ситуация, возвращается ErrNotFound.
func (s *Storage) GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_tier, status, billing_customer_id,
			      billing_sub_id, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1`
	sub := &models.Subscription{}
	var periodEnd sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.PlanTier, &sub.Status,
		&sub.BillingCustomerID, &sub.BillingSubID, &periodEnd,
		&sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = periodEnd.Time
	}
	return sub, nil
}

// UpsertSubscription создаёт подписку пользователя или заменяет её состояние.
// На пользователя приходится не более одной подписки, поэтому конфликт
// разрешается обновлением существующей строки.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions
			      (user_uid, plan_tier, status, billing_customer_id, billing_sub_id, current_period_end)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_uid) DO UPDATE SET
			      plan_tier = EXCLUDED.plan_tier,
			      status = EXCLUDED.status,
			      billing_customer_id = EXCLUDED.billing_customer_id,
			      billing_sub_id = EXCLUDED.billing_sub_id,
			      current_period_end = EXCLUDED.current_period_end,
			      updated_at = NOW()`
	var periodEnd any
	if !sub.CurrentPeriodEnd.IsZero() {
		periodEnd = sub.CurrentPeriodEnd
	}
	_, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.PlanTier, sub.Status,
		sub.BillingCustomerID, sub.BillingSubID, periodEnd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionStatus обновляет статус подписки по идентификатору
// подписки у биллинг-провайдера и возвращает UID её владельца.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, billingSubID, status string) (string, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = NOW()
			  WHERE billing_sub_id = $2
			  RETURNING user_uid`
	var userUID string
	if err := s.DB.QueryRowContext(ctx, query, status, billingSubID).Scan(&userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}

// ExtendSubscriptionPeriod продлевает оплаченный период подписки после
// успешного платежа и переводит её в активный статус.
func (s *Storage) ExtendSubscriptionPeriod(ctx context.Context, billingSubID string, periodEnd time.Time) (string, error) {
	const op = "storage.ExtendSubscriptionPeriod"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, current_period_end = $2, updated_at = NOW()
			  WHERE billing_sub_id = $3
			  RETURNING user_uid`
	var userUID string
	if err := s.DB.QueryRowContext(ctx, query,
		models.SubscriptionStatusActive, periodEnd, billingSubID).Scan(&userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
