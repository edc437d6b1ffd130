// Package complete реализует HTTP-обработчик колбэка провайдера извлечения.
//
// Провайдер выполняет скачивание асинхронно и по окончании работы
// присылает событие на этот вебхук. Подпись запроса проверяется по
// HMAC-SHA256 от тела с общим секретом, заголовок X-Api-Signature.
// Запросы без валидной подписи отклоняются до разбора тела.
package complete

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/scrapeprovider"
)

// Service описывает интерфейс бизнес-логики завершения заявки на скачивание.
type Service interface {
	CompleteDownload(ctx context.Context, id int, succeeded bool, storageKey string) error
}

// Handler управляет HTTP-запросами колбэка провайдера извлечения.
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

// verifySignature проверяет подпись колбэка из заголовка X-Api-Signature.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Колбэк завершения скачивания
// @Description Принимает событие провайдера извлечения о завершении заявки. Требует подпись HMAC в заголовке X-Api-Signature.
// @Tags Media
// @Accept  json
// @Success 200 "Событие обработано"
// @Failure 400 "Некорректное тело запроса"
// @Failure 401 "Неверная подпись"
// @Failure 500 "Ошибка обновления заявки"
// @Router /media/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.complete"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read callback body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing callback signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var callback scrapeprovider.DownloadCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		log.Error("failed to unmarshal callback payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if callback.MediaID <= 0 ||
		(callback.Status != scrapeprovider.CallbackStatusCompleted &&
			callback.Status != scrapeprovider.CallbackStatusFailed) {
		log.Error("invalid callback payload",
			slog.Int("media_id", callback.MediaID), slog.String("status", callback.Status))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	succeeded := callback.Status == scrapeprovider.CallbackStatusCompleted
	if err := h.service.CompleteDownload(r.Context(), callback.MediaID, succeeded, callback.StorageKey); err != nil {
		log.Error("failed to complete download", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("download callback processed",
		slog.Int("media_id", callback.MediaID), slog.String("status", callback.Status))
	w.WriteHeader(http.StatusOK)
}
