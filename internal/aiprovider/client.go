// Package aiprovider реализует HTTP-клиент API провайдера генерации текста.
package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// GenerateRequest запрос на генерацию идеи контента.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse ответ провайдера со сгенерированным текстом.
type GenerateResponse struct {
	Content string `json:"content"`
}

// Client клиент API провайдера генерации.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера генерации.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate отправляет запрос на генерацию идеи и возвращает текст.
func (c *Client) Generate(ctx context.Context, reqParams GenerateRequest) (*GenerateResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/generate", &buf)
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

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, err
	}
	return &genResp, nil
}
