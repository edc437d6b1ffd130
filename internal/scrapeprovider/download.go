package scrapeprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// DownloadRequest заявка на извлечение медиафайла по исходной ссылке.
// MediaID возвращается провайдером в колбэке завершения без изменений.
type DownloadRequest struct {
	MediaID   int    `json:"media_id"`
	SourceURL string `json:"source_url"`
}

// DownloadResponse ответ провайдера на заявку. Провайдер выполняет
// извлечение асинхронно: accepted означает, что работа принята,
// StorageKey указывает на объект во внешнем хранилище.
type DownloadResponse struct {
	Accepted   bool   `json:"accepted"`
	StorageKey string `json:"storage_key"`
}

// Статусы завершения работы в колбэке провайдера.
const (
	CallbackStatusCompleted = "completed"
	CallbackStatusFailed    = "failed"
)

// DownloadCallback событие о завершении извлечения. Провайдер присылает
// его на вебхук сервиса, когда принятая работа закончена.
type DownloadCallback struct {
	MediaID    int    `json:"media_id"`
	Status     string `json:"status"`
	StorageKey string `json:"storage_key"`
}

// RequestDownload отправляет заявку на скачивание медиафайла.
func (c *Client) RequestDownload(ctx context.Context, reqParams DownloadRequest) (*DownloadResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/download", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var downloadResp DownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&downloadResp); err != nil {
		return nil, err
	}
	return &downloadResp, nil
}
