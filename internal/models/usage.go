package models

import "time"

// ActionKind категория учитываемого действия.
type ActionKind string

// Учитываемые категории действий.
const (
	ActionScrape       ActionKind = "scrape"
	ActionDownload     ActionKind = "download"
	ActionAIGeneration ActionKind = "ai_generation"
)

// ActionKinds перечисляет все учитываемые категории в стабильном порядке.
var ActionKinds = []ActionKind{ActionScrape, ActionDownload, ActionAIGeneration}

// Valid сообщает, является ли значение известной категорией действия.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionScrape, ActionDownload, ActionAIGeneration:
		return true
	}
	return false
}

// UsageRecord представляет счётчик расхода квоты за расчётный период.
// Для пары (пользователь, категория) в одном периоде существует не более
// одной записи; счётчик внутри периода только растёт, новый период
// начинается с новой записи, а не с обнуления старой.
type UsageRecord struct {
	UserUID     string     // Владелец счётчика
	ActionKind  ActionKind // Категория действия
	PeriodStart time.Time  // Первый момент месяца, UTC
	PeriodEnd   time.Time  // Первый момент следующего месяца, UTC (не включается)
	Count       int        // Израсходовано единиц за период
	UpdatedAt   time.Time
}

// UsageSummary агрегат расхода по одной категории для отображения пользователю.
type UsageSummary struct {
	ActionKind ActionKind `json:"action_kind"`
	Current    int        `json:"current"`
	Limit      int        `json:"limit"`
}
