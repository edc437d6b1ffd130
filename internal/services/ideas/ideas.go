// Package ideas содержит логику бизнес-уровня для генерации идей контента.
package ideas

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dylnbk/kapture/internal/aiprovider"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/services/entitlement"
)

// IdeaRepository описывает контракт для хранения идей в базе данных.
type IdeaRepository interface {
	CreateIdea(ctx context.Context, idea models.Idea) (int, error)
	ListIdeas(ctx context.Context, userUID string, limit, offset int) ([]*models.Idea, error)
}

// AIProvider описывает контракт клиента провайдера генерации текста.
type AIProvider interface {
	Generate(ctx context.Context, req aiprovider.GenerateRequest) (*aiprovider.GenerateResponse, error)
}

// Entitlements описывает контракт проверки и записи расхода квот.
type Entitlements interface {
	Check(ctx context.Context, userUID string, kind models.ActionKind) (entitlement.Decision, error)
	Record(ctx context.Context, userUID string, kind models.ActionKind, delta int) (int, error)
}

// IdeasService отвечает за генерацию и выдачу идей контента.
type IdeasService struct {
	repo         IdeaRepository
	provider     AIProvider
	entitlements Entitlements
	log          *slog.Logger
	failOpen     bool
}

// NewIdeasService создает новый экземпляр IdeasService.
func NewIdeasService(repo IdeaRepository, provider AIProvider, entitlements Entitlements, log *slog.Logger, failOpen bool) *IdeasService {
	return &IdeasService{
		repo:         repo,
		provider:     provider,
		entitlements: entitlements,
		log:          log,
		failOpen:     failOpen,
	}
}

// Generate проверяет квоту, запрашивает генерацию у провайдера,
// сохраняет результат и записывает расход после успеха.
func (s *IdeasService) Generate(ctx context.Context, userUID string, req models.GenerateIdeaRequest) (*models.Idea, error) {
	const op = "services.ideas.Generate"

	decision, err := s.entitlements.Check(ctx, userUID, models.ActionAIGeneration)
	decision, err = entitlement.AllowedWithPolicy(decision, err, s.failOpen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, entitlement.ErrQuotaExceeded)
	}

	resp, err := s.provider.Generate(ctx, aiprovider.GenerateRequest{Prompt: req.Prompt})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idea := models.Idea{
		UserUID: userUID,
		Prompt:  req.Prompt,
		Content: resp.Content,
	}
	id, err := s.repo.CreateIdea(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idea.ID = id

	if _, err := s.entitlements.Record(ctx, userUID, models.ActionAIGeneration, 1); err != nil {
		// генерация уже выполнена, инкремент потерян
		s.log.Warn("usage increment lost after successful generation",
			slog.String("user_uid", userUID), sl.Err(err))
	}

	s.log.Info("idea generated",
		slog.String("user_uid", userUID), slog.Int("id", id))

	return &idea, nil
}

// List возвращает сохраненные идеи пользователя.
func (s *IdeasService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Idea, error) {
	const op = "services.ideas.List"

	ideas, err := s.repo.ListIdeas(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ideas, nil
}
