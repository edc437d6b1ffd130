// Package sender отправляет письма-уведомления по событиям из RabbitMQ.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dylnbk/kapture/internal/lib/sl"
	"github.com/dylnbk/kapture/internal/lib/smtp"
	"github.com/dylnbk/kapture/internal/models"
)

// SenderService формирует и отправляет письма по событиям уведомлений.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// actionKindLabels человекочитаемые названия категорий действий для писем.
var actionKindLabels = map[models.ActionKind]string{
	models.ActionScrape:       "скрейпинг трендов",
	models.ActionDownload:     "скачивание медиафайлов",
	models.ActionAIGeneration: "генерация идей",
}

// SendQuotaExhausted отправляет письмо об исчерпании месячной квоты.
func (s *SenderService) SendQuotaExhausted(body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	label, ok := actionKindLabels[event.ActionKind]
	if !ok {
		label = string(event.ActionKind)
	}

	to := []string{event.Email}
	subject := "Месячная квота Kapture исчерпана"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша месячная квота на %s исчерпана.\n\nКвота обновится в начале следующего месяца. Чтобы продолжить без ожидания, перейдите на более высокий тариф.",
		event.Username, label)

	return s.sendEmail(to, subject, bodyText)
}

// SendPaymentFailed отправляет письмо о неуспешном платеже по подписке.
func (s *SenderService) SendPaymentFailed(body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	subject := "Не удалось списать оплату подписки Kapture"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nНе удалось списать оплату вашей подписки Kapture. До успешного платежа действуют лимиты бесплатного тарифа.\n\nПожалуйста, проверьте способ оплаты в настройках.",
		event.Username)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
