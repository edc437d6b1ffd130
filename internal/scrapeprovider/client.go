// Package scrapeprovider реализует HTTP-клиент API скрейпинг-провайдера.
// Сам скрейпинг целиком выполняется на стороне провайдера, клиент только
// передает запрос и разбирает ответ.
package scrapeprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client клиент API скрейпинг-провайдера.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент скрейпинг-провайдера.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Scrape отправляет запрос на скрейпинг трендов и возвращает найденные элементы.
func (c *Client) Scrape(ctx context.Context, reqParams ScrapeRequest) (*ScrapeResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/scrape", &buf)
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

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var scrapeResp ScrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&scrapeResp); err != nil {
		return nil, err
	}
	return &scrapeResp, nil
}
