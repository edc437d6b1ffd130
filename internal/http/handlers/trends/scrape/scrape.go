// Package scrape реализует HTTP-обработчик запуска скрейпинга трендов.
//
// Запрос проходит проверку месячной квоты: при исчерпанном лимите
// обработчик возвращает 429 без обращения к внешнему провайдеру.
package scrape

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

// Service описывает интерфейс бизнес-логики скрейпинга.
type Service interface {
	Scrape(ctx context.Context, userUID string, req models.ScrapeRequest) ([]models.Trend, error)
}

// Handler управляет HTTP-запросами на скрейпинг трендов.
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
// @Summary Запустить скрейпинг трендов
// @Description Запрашивает тренды у внешнего провайдера и сохраняет их. Расходует квоту scrape.
// @Tags Trends
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ScrapeRequest true "Параметры скрейпинга"
// @Success 200 {object} map[string]any "Тренды получены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Квота исчерпана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trends/scrape [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trends.scrape"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ScrapeRequest
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

	trends, err := h.service.Scrape(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, entitlement.ErrQuotaExceeded) {
			log.Info("scrape denied, quota exceeded", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.QuotaExceeded(string(models.ActionScrape)))
			return
		}
		log.Error("failed to scrape trends", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to scrape trends"))
		return
	}

	log.Info("scrape finished", slog.Int("count", len(trends)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":  len(trends),
		"trends": trends,
	}))
}
