// Package list реализует HTTP-обработчик выдачи сохраненных идей.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	"github.com/dylnbk/kapture/internal/http/response"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
)

// Service описывает интерфейс бизнес-логики выдачи идей.
type Service interface {
	List(ctx context.Context, userUID string, limit, offset int) ([]*models.Idea, error)
}

// Handler управляет HTTP-запросами на выдачу идей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список идей
// @Description Возвращает сохраненные идеи текущего пользователя.
// @Tags Ideas
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Максимум записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список идей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ideas [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ideas.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	ideas, err := h.service.List(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list ideas", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list ideas"))
		return
	}

	log.Info("ideas listed", slog.Int("count", len(ideas)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count": len(ideas),
		"ideas": ideas,
	}))
}
