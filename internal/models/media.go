package models

import "time"

// Статусы заявки на скачивание медиафайла.
const (
	MediaStatusPending   = "pending"
	MediaStatusCompleted = "completed"
	MediaStatusFailed    = "failed"
)

// MediaItem представляет элемент медиатеки пользователя.
// Признаки archived и favorite хранятся отдельными типизированными
// колонками, теги — отдельной таблицей связей, а не общим metadata-блобом.
type MediaItem struct {
	ID         int       // Идентификатор записи
	UserUID    string    // Владелец элемента
	SourceURL  string    // Исходная ссылка, переданная на скачивание
	StorageKey string    // Ключ объекта во внешнем хранилище
	Status     string    // pending, completed, failed
	Archived   bool      // Элемент убран в архив
	Favorite   bool      // Элемент отмечен избранным
	Tags       []string  // Теги из таблицы связей
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DownloadRequest используется для приёма заявки на скачивание из JSON.
type DownloadRequest struct {
	SourceURL string `json:"source_url" validate:"required,url"`
}

// OrganizeRequest используется для приёма массового действия над медиатекой.
// Action определяет операцию, IDs — элементы, Tags используется только
// действием tag.
type OrganizeRequest struct {
	Action string   `json:"action" validate:"required,oneof=archive unarchive favorite unfavorite tag untag"`
	IDs    []int    `json:"ids" validate:"required,min=1,dive,gt=0"`
	Tags   []string `json:"tags" validate:"omitempty,dive,required"`
}
