package models

import "time"

// Idea представляет сгенерированную AI-провайдером идею контента.
type Idea struct {
	ID        int       // Идентификатор записи
	UserUID   string    // Пользователь, запросивший генерацию
	Prompt    string    // Запрос пользователя
	Content   string    // Сгенерированный текст
	CreatedAt time.Time
}

// GenerateIdeaRequest используется для приёма запроса на генерацию из JSON.
type GenerateIdeaRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3"`
}
