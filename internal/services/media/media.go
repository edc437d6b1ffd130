// Package media содержит логику бизнес-уровня для медиатеки:
// заявки на скачивание через внешнего провайдера и массовую
// организацию элементов (архив, избранное, теги).
package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/scrapeprovider"
	"github.com/dylnbk/kapture/internal/services/entitlement"
)

// MediaRepository описывает контракт для хранения медиатеки в базе данных.
type MediaRepository interface {
	CreateMediaItem(ctx context.Context, item models.MediaItem) (int, error)
	UpdateMediaStatus(ctx context.Context, id int, status, storageKey string) error
	ListMediaItems(ctx context.Context, userUID string, limit, offset int) ([]*models.MediaItem, error)
	SetMediaArchived(ctx context.Context, userUID string, ids []int, archived bool) (int64, error)
	SetMediaFavorite(ctx context.Context, userUID string, ids []int, favorite bool) (int64, error)
	AddMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error)
	RemoveMediaTags(ctx context.Context, userUID string, ids []int, tags []string) (int64, error)
}

// DownloadProvider описывает контракт клиента провайдера извлечения медиа.
type DownloadProvider interface {
	RequestDownload(ctx context.Context, req scrapeprovider.DownloadRequest) (*scrapeprovider.DownloadResponse, error)
}

// Entitlements описывает контракт проверки и записи расхода квот.
type Entitlements interface {
	Check(ctx context.Context, userUID string, kind models.ActionKind) (entitlement.Decision, error)
	Record(ctx context.Context, userUID string, kind models.ActionKind, delta int) (int, error)
}

// MediaService отвечает за заявки на скачивание и организацию медиатеки.
type MediaService struct {
	repo         MediaRepository
	provider     DownloadProvider
	entitlements Entitlements
	log          *slog.Logger
	failOpen     bool
}

// NewMediaService создает новый экземпляр MediaService.
func NewMediaService(repo MediaRepository, provider DownloadProvider, entitlements Entitlements, log *slog.Logger, failOpen bool) *MediaService {
	return &MediaService{
		repo:         repo,
		provider:     provider,
		entitlements: entitlements,
		log:          log,
		failOpen:     failOpen,
	}
}

// RequestDownload проверяет квоту, регистрирует элемент медиатеки и
// передает заявку провайдеру. Провайдер работает асинхронно: принятая
// заявка остается в статусе pending с ключом объекта во внешнем хранилище.
// Расход записывается только после того, как провайдер принял работу.
func (s *MediaService) RequestDownload(ctx context.Context, userUID string, req models.DownloadRequest) (*models.MediaItem, error) {
	const op = "services.media.RequestDownload"

	decision, err := s.entitlements.Check(ctx, userUID, models.ActionDownload)
	decision, err = entitlement.AllowedWithPolicy(decision, err, s.failOpen)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%s: %w", op, entitlement.ErrQuotaExceeded)
	}

	item := models.MediaItem{
		UserUID:   userUID,
		SourceURL: req.SourceURL,
		Status:    models.MediaStatusPending,
	}
	id, err := s.repo.CreateMediaItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	item.ID = id

	resp, err := s.provider.RequestDownload(ctx, scrapeprovider.DownloadRequest{
		MediaID:   id,
		SourceURL: req.SourceURL,
	})
	if err != nil || !resp.Accepted {
		if updErr := s.repo.UpdateMediaStatus(ctx, id, models.MediaStatusFailed, ""); updErr != nil {
			s.log.Error("failed to mark media item as failed",
				slog.Int("id", id), sl.Err(updErr))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: download request rejected by provider", op)
	}

	if err := s.repo.UpdateMediaStatus(ctx, id, models.MediaStatusPending, resp.StorageKey); err != nil {
		s.log.Error("failed to store media storage key",
			slog.Int("id", id), sl.Err(err))
	}
	item.StorageKey = resp.StorageKey

	if _, err := s.entitlements.Record(ctx, userUID, models.ActionDownload, 1); err != nil {
		// заявка уже принята провайдером, инкремент потерян
		s.log.Warn("usage increment lost after accepted download",
			slog.String("user_uid", userUID), sl.Err(err))
	}

	s.log.Info("download request accepted",
		slog.String("user_uid", userUID), slog.Int("id", id))

	return &item, nil
}

// CompleteDownload переводит заявку в конечный статус. Вызывается
// обработчиком вебхука, когда провайдер сообщает о завершении извлечения.
func (s *MediaService) CompleteDownload(ctx context.Context, id int, succeeded bool, storageKey string) error {
	const op = "services.media.CompleteDownload"

	status := models.MediaStatusCompleted
	if !succeeded {
		status = models.MediaStatusFailed
	}
	if err := s.repo.UpdateMediaStatus(ctx, id, status, storageKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает элементы медиатеки пользователя вместе с тегами.
func (s *MediaService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.MediaItem, error) {
	const op = "services.media.List"

	items, err := s.repo.ListMediaItems(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Organize выполняет массовое действие над элементами медиатеки
// и возвращает число затронутых элементов. Организация медиатеки
// не расходует квоты.
func (s *MediaService) Organize(ctx context.Context, userUID string, req models.OrganizeRequest) (int64, error) {
	const op = "services.media.Organize"

	var (
		affected int64
		err      error
	)
	switch req.Action {
	case "archive":
		affected, err = s.repo.SetMediaArchived(ctx, userUID, req.IDs, true)
	case "unarchive":
		affected, err = s.repo.SetMediaArchived(ctx, userUID, req.IDs, false)
	case "favorite":
		affected, err = s.repo.SetMediaFavorite(ctx, userUID, req.IDs, true)
	case "unfavorite":
		affected, err = s.repo.SetMediaFavorite(ctx, userUID, req.IDs, false)
	case "tag":
		if len(req.Tags) == 0 {
			return 0, fmt.Errorf("%s: tags are required for tag action", op)
		}
		affected, err = s.repo.AddMediaTags(ctx, userUID, req.IDs, req.Tags)
	case "untag":
		if len(req.Tags) == 0 {
			return 0, fmt.Errorf("%s: tags are required for untag action", op)
		}
		affected, err = s.repo.RemoveMediaTags(ctx, userUID, req.IDs, req.Tags)
	default:
		return 0, fmt.Errorf("%s: unknown action %q", op, req.Action)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("media organize applied",
		slog.String("user_uid", userUID),
		slog.String("action", req.Action),
		slog.Int64("affected", affected))

	return affected, nil
}
