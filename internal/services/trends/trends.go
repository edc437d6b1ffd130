// Package trends содержит логику бизнес-уровня для скрейпинга трендовых данных.
//
// Каждый запрос скрейпинга проходит проверку квоты, выполняется у внешнего
// провайдера и только после успешного результата записывается в расход.
package trends

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/scrapeprovider"
	"github.com/dylnbk/kapture/internal/services/entitlement"
)

// TrendRepository описывает контракт для хранения трендов в базе данных.
type TrendRepository interface {
	CreateTrends(ctx context.Context, trends []models.Trend) (int, error)
	ListTrends(ctx context.Context, userUID string, limit, offset int) ([]*models.Trend, error)
}

// ScrapeProvider описывает контракт клиента скрейпинг-провайдера.
type ScrapeProvider interface {
	Scrape(ctx context.Context, req scrapeprovider.ScrapeRequest) (*scrapeprovider.ScrapeResponse, error)
}

// Entitlements описывает контракт проверки и записи расхода квот.
type Entitlements interface {
	Check(ctx context.Context, userUID string, kind models.ActionKind) (entitlement.Decision, error)
	Record(ctx context.Context, userUID string, kind models.ActionKind, delta int) (int, error)
}

// TrendsService отвечает за запуск скрейпинга и выдачу накопленных трендов.
type TrendsService struct {
	repo         TrendRepository
	provider     ScrapeProvider
	entitlements Entitlements
	log          *slog.Logger
	failOpen     bool
}

// NewTrendsService создает новый экземпляр TrendsService.
func NewTrendsService(repo TrendRepository, provider ScrapeProvider, entitlements Entitlements, log *slog.Logger, failOpen bool) *TrendsService {
	return &TrendsService{
		repo:         repo,
		provider:     provider,
		entitlements: entitlements,
		log:          log,
		failOpen:     failOpen,
	}
}

// Scrape проверяет квоту пользователя, запрашивает тренды у провайдера,
// сохраняет результат и записывает расход. Неудачная запись расхода не
// отменяет уже выполненное действие, она только логируется.
func (s *TrendsService) Scrape(ctx context.Context, userUID string, req models.ScrapeRequest) ([]models.Trend, error) {
	const op = "services.trends.Scrape"

	decision, err := s.entitlements.Check(ctx, userUID, models.ActionScrape)
	decision, err = entitlement.AllowedWithPolicy(decision, err, s.failOpen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, entitlement.ErrQuotaExceeded)
	}

	resp, err := s.provider.Scrape(ctx, scrapeprovider.ScrapeRequest{
		Platform: req.Platform,
		Query:    req.Query,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fetchedAt := resp.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	trends := make([]models.Trend, 0, len(resp.Items))
	for _, item := range resp.Items {
		trends = append(trends, models.Trend{
			UserUID:   userUID,
			Platform:  req.Platform,
			Title:     item.Title,
			URL:       item.URL,
			Views:     item.Views,
			FetchedAt: fetchedAt,
		})
	}

	if len(trends) > 0 {
		if _, err := s.repo.CreateTrends(ctx, trends); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err := s.entitlements.Record(ctx, userUID, models.ActionScrape, 1); err != nil {
		// действие уже выполнено, инкремент потерян
		s.log.Warn("usage increment lost after successful scrape",
			slog.String("user_uid", userUID), sl.Err(err))
	}

	s.log.Info("scrape completed",
		slog.String("user_uid", userUID),
		slog.String("platform", req.Platform),
		slog.Int("items", len(trends)))

	return trends, nil
}

// List возвращает накопленные тренды пользователя.
func (s *TrendsService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Trend, error) {
	const op = "services.trends.List"

	trends, err := s.repo.ListTrends(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return trends, nil
}
