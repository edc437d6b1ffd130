// Package entitlement содержит бизнес-логику учёта квот: проверку допуска
// к учитываемым действиям, запись расхода и сводку для отображения.
//
// Проверка и запись обязаны считать границы периода одной и той же функцией
// lib/period.Current — расхождение рамок периода между ними является
// ошибкой корректности.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dylnbk/kapture/internal/lib/period"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/metrics"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/storage"
)

// ErrStorageUnavailable означает, что главная книга расхода недоступна.
// Это инфраструктурная ошибка, отличимая от бизнес-отказа: вызывающая
// сторона сама решает, пропускать действие или запрещать (политика
// fail_open в конфигурации; по умолчанию — запрещать).
var ErrStorageUnavailable = errors.New("usage storage unavailable")

// ErrUnknownPlan означает, что тариф подписки не описан в таблице лимитов.
// Это ошибка конфигурации, она не подменяется бесплатным тарифом.
var ErrUnknownPlan = errors.New("unknown plan tier")

// ErrInvalidActionKind означает неизвестную категорию действия.
var ErrInvalidActionKind = errors.New("invalid action kind")

// ErrQuotaExceeded возвращают сервисы верхнего уровня, когда проверка
// квоты запретила действие. Для самого Check отказ не ошибка, а данные.
var ErrQuotaExceeded = errors.New("quota exceeded")

// Decision результат проверки допуска. Отказ — не ошибка, а ожидаемый
// бизнес-результат.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
}

// Ledger определяет методы главной книги расхода квот в хранилище.
type Ledger interface {
	// GetUsage возвращает расход за период, 0 при отсутствии записи.
	GetUsage(ctx context.Context, userUID string, kind models.ActionKind, periodStart, periodEnd time.Time) (int, error)
	// IncrementUsage атомарно увеличивает счётчик и возвращает новое значение.
	IncrementUsage(ctx context.Context, userUID string, kind models.ActionKind, periodStart, periodEnd time.Time, delta int) (int, error)
	// ListUsageForPeriod возвращает счётчики всех категорий за период.
	ListUsageForPeriod(ctx context.Context, userUID string, periodStart, periodEnd time.Time) (map[models.ActionKind]int, error)
}

// SubscriptionRepository определяет чтение подписки пользователя.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// AlertPublisher публикует событие об исчерпании квоты.
type AlertPublisher interface {
	QuotaExhausted(ctx context.Context, userUID string, kind models.ActionKind) error
}

// Service реализует проверку допуска, запись расхода и сводку.
type Service struct {
	ledger   Ledger
	subs     SubscriptionRepository
	cache    Cache
	alerts   AlertPublisher
	metrics  *metrics.Metrics
	log      *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// New создает новый экземпляр Service. alerts может быть nil,
// тогда события об исчерпании квоты не публикуются.
func New(ledger Ledger, subs SubscriptionRepository, cache Cache, alerts AlertPublisher, m *metrics.Metrics, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		ledger:   ledger,
		subs:     subs,
		cache:    cache,
		alerts:   alerts,
		metrics:  m,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// usageKey строит ключ кеша для счётчика расхода.
func usageKey(userUID string, kind models.ActionKind, periodKey string) string {
	return fmt.Sprintf("usage:%s:%s:%s", userUID, kind, periodKey)
}

// resolveLimits возвращает лимиты тарифа пользователя. Отсутствующая или
// неоплаченная подписка означает бесплатный тариф; неизвестный тариф —
// ошибка конфигурации.
func (s *Service) resolveLimits(ctx context.Context, userUID string) (models.PlanLimits, error) {
	tier := models.PlanFree
	sub, err := s.subs.GetSubscription(ctx, userUID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.PlanLimits{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if sub.IsEntitled() {
		tier = sub.PlanTier
	}
	limits, ok := models.LimitsFor(tier)
	if !ok {
		return models.PlanLimits{}, fmt.Errorf("%w: %q", ErrUnknownPlan, tier)
	}
	return limits, nil
}

// Check отвечает, может ли пользователь выполнить ещё одну единицу действия.
// Расход читается сначала из кеша, при промахе — из главной книги с
// репопуляцией кеша. Состояние не меняется.
func (s *Service) Check(ctx context.Context, userUID string, kind models.ActionKind) (Decision, error) {
	if !kind.Valid() {
		return Decision{}, fmt.Errorf("%w: %q", ErrInvalidActionKind, kind)
	}

	limits, err := s.resolveLimits(ctx, userUID)
	if err != nil {
		return Decision{}, err
	}
	limit := limits.LimitFor(kind)

	p := period.Current(s.now())
	key := usageKey(userUID, kind, p.Key())

	var used int
	found, err := s.cache.Get(key, &used)
	if err != nil {
		// Кеш — оптимизация, а не зависимость корректности.
		s.log.Warn("usage cache read failed, falling back to ledger", sl.Err(err))
		found = false
	}
	if found {
		s.metrics.CacheHits.Inc()
	} else {
		s.metrics.CacheMisses.Inc()
		used, err = s.ledger.GetUsage(ctx, userUID, kind, p.Start, p.End)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if err := s.cache.Set(key, used, s.cacheTTL); err != nil {
			s.log.Warn("failed to repopulate usage cache", slog.String("key", key), sl.Err(err))
		}
	}

	decision := Decision{
		Allowed:   used < limit,
		Remaining: limit - used,
		Used:      used,
		Limit:     limit,
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}

	if decision.Allowed {
		s.metrics.EntitlementDecisions.WithLabelValues(string(kind), "allow").Inc()
	} else {
		s.metrics.EntitlementDecisions.WithLabelValues(string(kind), "deny").Inc()
		s.publishExhaustedOnce(ctx, userUID, kind, p)
	}
	return decision, nil
}

// Record записывает расход после того, как внешнее действие уже выполнилось
// успешно. Новый итог сквозной записью попадает в кеш под тем же ключом
// периода, которым пользуется Check. Повторов при сбое нет: недоучёт —
// принятый режим отказа, двойное списание — нет.
func (s *Service) Record(ctx context.Context, userUID string, kind models.ActionKind, delta int) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidActionKind, kind)
	}

	p := period.Current(s.now())
	newCount, err := s.ledger.IncrementUsage(ctx, userUID, kind, p.Start, p.End, delta)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	key := usageKey(userUID, kind, p.Key())
	if err := s.cache.Set(key, newCount, s.cacheTTL); err != nil {
		s.log.Warn("failed to write through usage cache", slog.String("key", key), sl.Err(err))
	}
	s.metrics.UsageRecorded.WithLabelValues(string(kind)).Add(float64(delta))
	return newCount, nil
}

// Summary возвращает сводку расхода пользователя по всем категориям
// за текущий период.
func (s *Service) Summary(ctx context.Context, userUID string) ([]models.UsageSummary, error) {
	limits, err := s.resolveLimits(ctx, userUID)
	if err != nil {
		return nil, err
	}

	p := period.Current(s.now())
	counts, err := s.ledger.ListUsageForPeriod(ctx, userUID, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	result := make([]models.UsageSummary, 0, len(models.ActionKinds))
	for _, kind := range models.ActionKinds {
		result = append(result, models.UsageSummary{
			ActionKind: kind,
			Current:    counts[kind],
			Limit:      limits.LimitFor(kind),
		})
	}
	return result, nil
}

// publishExhaustedOnce публикует событие об исчерпании квоты не чаще
// одного раза за период; дедупликация идёт через кеш и выполняется
// по возможности.
func (s *Service) publishExhaustedOnce(ctx context.Context, userUID string, kind models.ActionKind, p period.Period) {
	if s.alerts == nil {
		return
	}
	alertKey := fmt.Sprintf("quota-alert:%s:%s:%s", userUID, kind, p.Key())
	var sent bool
	if found, err := s.cache.Get(alertKey, &sent); err == nil && found {
		return
	}
	if err := s.alerts.QuotaExhausted(ctx, userUID, kind); err != nil {
		s.log.Warn("failed to publish quota exhausted event", sl.Err(err))
		return
	}
	if err := s.cache.Set(alertKey, true, p.End.Sub(s.now())); err != nil {
		s.log.Warn("failed to mark quota alert as sent", sl.Err(err))
	}
}

// AllowedWithPolicy применяет политику отказа хранилища к результату Check.
// При недоступной главной книге политика fail_open разрешает действие,
// иначе инфраструктурная ошибка отдается вызывающей стороне.
func AllowedWithPolicy(decision Decision, err error, failOpen bool) (Decision, error) {
	if err == nil {
		return decision, nil
	}
	if errors.Is(err, ErrStorageUnavailable) && failOpen {
		return Decision{Allowed: true, Remaining: -1}, nil
	}
	return Decision{}, err
}
