package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dylnbk/kapture/internal/models"
)

// CreateMediaItem сохраняет заявку на скачивание и возвращает её ID.
func (s *Storage) CreateMediaItem(ctx context.Context, item models.MediaItem) (int, error) {
	const op = "storage.CreateMediaItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO media_items (user_uid, source_url, storage_key, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id int
	if err := s.DB.QueryRowContext(ctx, query,
		item.UserUID, item.SourceURL, item.StorageKey, item.Status).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateMediaStatus обновляет статус заявки и ключ объекта в хранилище.
func (s *Storage) UpdateMediaStatus(ctx context.Context, id int, status, storageKey string) error {
	const op = "storage.UpdateMediaStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE media_items
			  SET status = $1, storage_key = $2, updated_at = NOW()
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, status, storageKey, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListMediaItems возвращает медиатеку пользователя с тегами и пагинацией.
func (s *Storage) ListMediaItems(ctx context.Context, userUID string, limit, offset int) ([]*models.MediaItem, error) {
	const op = "storage.ListMediaItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.id, m.user_uid, m.source_url, m.storage_key, m.status,
			      m.archived, m.favorite, m.created_at, m.updated_at
			  FROM media_items m
			  WHERE m.user_uid = $1
			  ORDER BY m.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MediaItem
	byID := make(map[int]*models.MediaItem)
	for rows.Next() {
		var item models.MediaItem
		if err = rows.Scan(&item.ID, &item.UserUID, &item.SourceURL, &item.StorageKey,
			&item.Status, &item.Archived, &item.Favorite,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
		byID[item.ID] = &item
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(result) == 0 {
		return result, nil
	}

	tagQuery := `SELECT t.media_item_id, t.tag
			     FROM media_tags t
			     JOIN media_items m ON m.id = t.media_item_id
			     WHERE m.user_uid = $1
			     ORDER BY t.tag`
	tagRows, err := s.DB.QueryContext(ctx, tagQuery, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tagRows.Close()
	}()
	for tagRows.Next() {
		var id int
		var tag string
		if err = tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if item, ok := byID[id]; ok {
			item.Tags = append(item.Tags, tag)
		}
	}
	if err = tagRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMediaItem возвращает элемент медиатеки по ID в пределах владельца.
func (s *Storage) GetMediaItem(ctx context.Context, userUID string, id int) (*models.MediaItem, error) {
	const op = "storage.GetMediaItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, source_url, storage_key, status,
			      archived, favorite, created_at, updated_at
			  FROM media_items
			  WHERE user_uid = $1 AND id = $2`
	item := &models.MediaItem{}
	row := s.DB.QueryRowContext(ctx, query, userUID, id)
	if err := row.Scan(&item.ID, &item.UserUID, &item.SourceURL, &item.StorageKey,
		&item.Status, &item.Archived, &item.Favorite,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// SetMediaArchived массово проставляет признак архива элементам владельца.
// Возвращает число затронутых строк; чужие ID молча пропускаются.
func (s *Storage) SetMediaArchived(ctx context.Context, userUID string, ids []int, archived bool) (int64, error) {
	const op = "storage.SetMediaArchived"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE media_items
			  SET archived = $1, updated_at = NOW()
			  WHERE user_uid = $2 AND id = ANY($3::INT[])`
	res, err := s.DB.ExecContext(ctx, query, archived, userUID, intArray(ids))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// SetMediaFavorite массово проставляет признак избранного элементам владельца.
func (s *Storage) SetMediaFavorite(ctx context.Context, userUID string, ids []int, favorite bool) (int64, error) {
	const op = "storage.SetMediaFavorite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE media_items
			  SET favorite = $1, updated_at = NOW()
			  WHERE user_uid = $2 AND id = ANY($3::INT[])`
	res, err := s.DB.ExecContext(ctx, query, favorite, userUID, intArray(ids))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// AddMediaTags добавляет теги элементам владельца через таблицу связей.
// Повторное добавление существующего тега не является ошибкой.
func (s *Storage) AddMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error) {
	const op = "storage.AddMediaTags"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO media_tags (media_item_id, tag)
			  SELECT m.id, t.tag
			  FROM media_items m, unnest($3::TEXT[]) AS t(tag)
			  WHERE m.user_uid = $1 AND m.id = ANY($2::INT[])
			  ON CONFLICT (media_item_id, tag) DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, userUID, intArray(ids), textArray(tags))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// RemoveMediaTags удаляет теги у элементов владельца.
func (s *Storage) RemoveMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error) {
	const op = "storage.RemoveMediaTags"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM media_tags t
			  USING media_items m
			  WHERE m.id = t.media_item_id
			      AND m.user_uid = $1
			      AND m.id = ANY($2::INT[])
			      AND t.tag = ANY($3::TEXT[])`
	res, err := s.DB.ExecContext(ctx, query, userUID, intArray(ids), textArray(tags))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
