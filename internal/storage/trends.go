package storage

import (
	"context"
	"fmt"

	"github.com/dylnbk/kapture/internal/models"
)

// CreateTrends сохраняет пачку трендов одного запроса скрейпинга.
// Вставка выполняется в транзакции: либо сохраняется весь результат, либо ничего.
func (s *Storage) CreateTrends(ctx context.Context, trends []models.Trend) (int, error) {
	const op = "storage.CreateTrends"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO trends (user_uid, platform, title, url, views, fetched_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	for _, trend := range trends {
		if _, err = tx.ExecContext(ctx, query,
			trend.UserUID, trend.Platform, trend.Title, trend.URL,
			trend.Views, trend.FetchedAt); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(trends), nil
}

// ListTrends возвращает тренды пользователя с пагинацией, новые первыми.
func (s *Storage) ListTrends(ctx context.Context, userUID string, limit, offset int) ([]*models.Trend, error) {
	const op = "storage.ListTrends"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, platform, title, url, views, fetched_at, created_at
			  FROM trends
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Trend
	for rows.Next() {
		var item models.Trend
		if err = rows.Scan(&item.ID, &item.UserUID, &item.Platform, &item.Title,
			&item.URL, &item.Views, &item.FetchedAt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
