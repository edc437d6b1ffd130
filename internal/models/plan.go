package models

// PlanTier тарифный план пользователя.
type PlanTier string

// Тарифные планы сервиса.
const (
	PlanFree    PlanTier = "free"
	PlanStarter PlanTier = "starter"
	PlanPro     PlanTier = "pro"
)

// PlanLimits месячные лимиты тарифа по категориям действий.
type PlanLimits struct {
	Scrapes       int
	Downloads     int
	AIGenerations int
}

// planLimits статическая таблица лимитов: тариф -> месячные потолки.
// Это конфигурационные данные, а не сущность хранилища.
var planLimits = map[PlanTier]PlanLimits{
	PlanFree:    {Scrapes: 10, Downloads: 5, AIGenerations: 3},
	PlanStarter: {Scrapes: 100, Downloads: 50, AIGenerations: 30},
	PlanPro:     {Scrapes: 1000, Downloads: 500, AIGenerations: 300},
}

// Valid сообщает, является ли значение известным тарифом.
func (p PlanTier) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// LimitsFor возвращает лимиты тарифа. Второе значение false означает,
// что тариф неизвестен — это ошибка конфигурации, вызывающая сторона
// не должна молча подменять его бесплатным.
func LimitsFor(tier PlanTier) (PlanLimits, bool) {
	l, ok := planLimits[tier]
	return l, ok
}

// LimitFor возвращает потолок лимита тарифа для конкретной категории действия.
func (l PlanLimits) LimitFor(kind ActionKind) int {
	switch kind {
	case ActionScrape:
		return l.Scrapes
	case ActionDownload:
		return l.Downloads
	case ActionAIGeneration:
		return l.AIGenerations
	}
	return 0
}
