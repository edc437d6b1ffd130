package models

import "time"

// Trend представляет единицу трендовых данных, полученную от скрейпинг-провайдера.
type Trend struct {
	ID          int       // Идентификатор записи
	UserUID     string    // Пользователь, запросивший скрейпинг
	Platform    string    // Платформа-источник: tiktok, youtube, instagram
	Title       string    // Заголовок тренда
	URL         string    // Ссылка на оригинал
	Views       int64     // Счётчик просмотров на момент скрейпинга
	FetchedAt   time.Time // Когда данные были получены от провайдера
	CreatedAt   time.Time
}

// ScrapeRequest используется для приёма запроса на скрейпинг из JSON.
type ScrapeRequest struct {
	Platform string `json:"platform" validate:"required,oneof=tiktok youtube instagram"`
	Query    string `json:"query" validate:"required"`
	Limit    int    `json:"limit" validate:"omitempty,gt=0,lte=50"`
}
