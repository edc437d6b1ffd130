package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dylnbk/kapture/internal/models"
)

// GetUsage возвращает расход квоты за период.
// Отсутствие записи означает нулевой расход, а не ошибку.
func (s *Storage) GetUsage(ctx context.Context, userUID string, kind models.ActionKind, periodStart, periodEnd time.Time) (int, error) {
	const op = "storage.GetUsage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT count
			  FROM usage_records
			  WHERE user_uid = $1 AND action_kind = $2 AND period_start = $3 AND period_end = $4`
	var count int
	err := s.DB.QueryRowContext(ctx, query, userUID, kind, periodStart, periodEnd).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// IncrementUsage атомарно увеличивает счётчик расхода квоты и возвращает
// новое значение. Запись создаётся при первом расходе в периоде. Инкремент
// выполняется одним условным запросом, а не парой чтение-запись: два
// конкурентных инкремента по одному ключу не теряют обновлений.
func (s *Storage) IncrementUsage(ctx context.Context, userUID string, kind models.ActionKind, periodStart, periodEnd time.Time, delta int) (int, error) {
	const op = "storage.IncrementUsage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO usage_records (user_uid, action_kind, period_start, period_end, count)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_uid, action_kind, period_start) DO UPDATE SET
			      count = usage_records.count + EXCLUDED.count,
			      updated_at = NOW()
			  RETURNING count`
	var newCount int
	err := s.DB.QueryRowContext(ctx, query, userUID, kind, periodStart, periodEnd, delta).Scan(&newCount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newCount, nil
}

// ListUsageForPeriod возвращает счётчики пользователя по всем категориям
// за период. Категории без записей в результат не попадают.
func (s *Storage) ListUsageForPeriod(ctx context.Context, userUID string, periodStart, periodEnd time.Time) (map[models.ActionKind]int, error) {
	const op = "storage.ListUsageForPeriod"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT action_kind, count
			  FROM usage_records
			  WHERE user_uid = $1 AND period_start = $2 AND period_end = $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[models.ActionKind]int)
	for rows.Next() {
		var kind models.ActionKind
		var count int
		if err = rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[kind] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
