// Package generate реализует HTTP-обработчик генерации идей контента.
//
// Запрос проходит проверку месячной квоты ai_generation: при исчерпанном
// лимите обработчик возвращает 429 без обращения к провайдеру.
package generate

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

// Service описывает интерфейс бизнес-логики генерации идей.
type Service interface {
	Generate(ctx context.Context, userUID string, req models.GenerateIdeaRequest) (*models.Idea, error)
}

// Handler управляет HTTP-запросами на генерацию идей.
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
// @Summary Сгенерировать идею контента
// @Description Запрашивает генерацию у AI-провайдера и сохраняет результат. Расходует квоту ai_generation.
// @Tags Ideas
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.GenerateIdeaRequest true "Запрос генерации"
// @Success 200 {object} map[string]any "Идея сгенерирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Квота исчерпана"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ideas/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ideas.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateIdeaRequest
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

	idea, err := h.service.Generate(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, entitlement.ErrQuotaExceeded) {
			log.Info("generation denied, quota exceeded", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.QuotaExceeded(string(models.ActionAIGeneration)))
			return
		}
		log.Error("failed to generate idea", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to generate idea"))
		return
	}

	log.Info("idea generated", slog.Int("id", idea.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":      idea.ID,
		"content": idea.Content,
	}))
}
