// Package organize реализует HTTP-обработчик массовых действий над медиатекой:
// архив, избранное и теги. Организация медиатеки не расходует квоты.
package organize

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	"github.com/dylnbk/kapture/internal/http/response"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
)

// Service описывает интерфейс бизнес-логики организации медиатеки.
type Service interface {
	Organize(ctx context.Context, userUID string, req models.OrganizeRequest) (int64, error)
}

// Handler управляет HTTP-запросами на организацию медиатеки.
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
// @Summary Организовать элементы медиатеки
// @Description Выполняет массовое действие над элементами: archive, unarchive, favorite, unfavorite, tag, untag.
// @Tags Media
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.OrganizeRequest true "Действие и список элементов"
// @Success 200 {object} map[string]any "Число затронутых элементов"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /media/organize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.organize"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.OrganizeRequest
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

	affected, err := h.service.Organize(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to organize media items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to organize media items"))
		return
	}

	log.Info("media items organized",
		slog.String("action", req.Action), slog.Int64("affected", affected))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"action":   req.Action,
		"affected": affected,
	}))
}
