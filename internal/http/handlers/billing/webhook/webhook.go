// Package webhook реализует HTTP-обработчик вебхука биллинг-провайдера.
//
// Подпись запроса проверяется по HMAC-SHA256 от тела с общим секретом,
// заголовок X-Api-Signature. Запросы без валидной подписи отклоняются
// до разбора тела.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dylnbk/kapture/internal/billingprovider"
	"github.com/dylnbk/kapture/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики обработки событий вебхука.
type Service interface {
	HandleWebhookEvent(ctx context.Context, event billingprovider.WebhookEvent) error
}

// Handler управляет HTTP-запросами вебхука биллинг-провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// verifySignature проверяет подпись вебхука из заголовка X-Api-Signature.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Вебхук биллинг-провайдера
// @Description Принимает события подписки от биллинг-провайдера. Требует подпись HMAC в заголовке X-Api-Signature.
// @Tags Billing
// @Accept  json
// @Success 200 "Событие обработано"
// @Failure 400 "Некорректное тело запроса"
// @Failure 401 "Неверная подпись"
// @Failure 500 "Ошибка обработки события"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event billingprovider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.HandleWebhookEvent(r.Context(), event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully", slog.String("event", event.Type))
	w.WriteHeader(http.StatusOK)
}
