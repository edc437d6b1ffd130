// Package checkout реализует HTTP-обработчик создания checkout-сессии
// у биллинг-провайдера.
package checkout

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

// Service описывает интерфейс бизнес-логики создания checkout-сессии.
type Service interface {
	CreateCheckout(ctx context.Context, userUID string, req models.CheckoutRequest) (string, error)
}

// Handler управляет HTTP-запросами на создание checkout-сессии.
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
// @Summary Создать checkout-сессию
// @Description Создает сессию оплаты выбранного тарифа у биллинг-провайдера и возвращает адрес страницы оплаты.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Выбранный тариф"
// @Success 200 {object} map[string]any "Адрес страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckoutRequest
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

	checkoutURL, err := h.service.CreateCheckout(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create checkout session"))
		return
	}

	log.Info("checkout session created", slog.String("plan_tier", req.PlanTier))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"checkout_url": checkoutURL,
	}))
}
