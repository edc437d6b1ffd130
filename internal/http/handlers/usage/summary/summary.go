// Package summary реализует HTTP-обработчик сводки расхода квот
// за текущий расчётный период.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	"github.com/dylnbk/kapture/internal/http/response"
	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/models"
)

// Service описывает интерфейс бизнес-логики сводки расхода.
type Service interface {
	Summary(ctx context.Context, userUID string) ([]models.UsageSummary, error)
}

// Handler управляет HTTP-запросами на сводку расхода квот.
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
// @Summary Сводка расхода квот
// @Description Возвращает расход и лимит по каждой категории действий за текущий месяц.
// @Tags Usage
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сводка расхода"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.usage.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summaries, err := h.service.Summary(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build usage summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build usage summary"))
		return
	}

	log.Info("usage summary built", slog.Int("kinds", len(summaries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"usage": summaries,
	}))
}
