package storage

import (
	"context"
	"fmt"

	"github.com/dylnbk/kapture/internal/models"
)

// CreateIdea сохраняет сгенерированную идею и возвращает её ID.
func (s *Storage) CreateIdea(ctx context.Context, idea models.Idea) (int, error) {
	const op = "storage.CreateIdea"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO ideas (user_uid, prompt, content)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var id int
	if err := s.DB.QueryRowContext(ctx, query,
		idea.UserUID, idea.Prompt, idea.Content).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListIdeas возвращает идеи пользователя с пагинацией, новые первыми.
func (s *Storage) ListIdeas(ctx context.Context, userUID string, limit, offset int) ([]*models.Idea, error) {
	const op = "storage.ListIdeas"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, prompt, content, created_at
			  FROM ideas
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

	var result []*models.Idea
	for rows.Next() {
		var item models.Idea
		if err = rows.Scan(&item.ID, &item.UserUID, &item.Prompt,
			&item.Content, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
