// Package download реализует HTTP-обработчик заявки на скачивание медиафайла.
//
// Запрос проходит проверку месячной квоты download: при исчерпанном
// лимите обработчик возвращает 429 без обращения к провайдеру.
package download

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	"github.com/dylnbk/kapture/internal/http/response"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
	"github.com/dylnbk/kapture/internal/services/entitlement"
)

// Service описывает интерфейс бизнес-логики заявок на скачивание.
type Service interface {
	RequestDownload(ctx context.Context, userUID string, req models.DownloadRequest) (*models.MediaItem, error)
}

// Handler управляет HTTP-запросами на скачивание медиафайлов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запросить скачивание медиафайла
// @Description Передает заявку внешнему провайдеру извлечения. Расходует квоту download.
// @Tags Media
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DownloadRequest true "Ссылка на медиафайл"
// @Success 200 {object} map[string]any "Заявка принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Квота исчерпана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /media/download [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.download"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	item, err := h.service.RequestDownload(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, entitlement.ErrQuotaExceeded) {
			log.Info("download denied, quota exceeded", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.QuotaExceeded(string(models.ActionDownload)))
			return
		}
		log.Error("failed to request download", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to request download"))
		return
	}

	log.Info("download requested", slog.Int("id", item.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":          item.ID,
		"status":      item.Status,
		"storage_key": item.StorageKey,
	}))
}
