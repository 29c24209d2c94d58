// Package llm реализует клиент сервиса текстовой генерации (OpenAI
// chat completions). Клиент возвращает сырой текст ответа модели;
// разбор схемы — забота вызывающего сервиса.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 2000

// APIError — ответ провайдера с неуспешным статусом.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client — HTTP-клиент OpenAI API с ограниченным таймаутом.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт клиент с заданными ключом, моделью и базовым URL.
func NewClient(apiURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete отправляет запрос модели и возвращает текст первого choice.
// Модель просится вернуть JSON (response_format json_object); температура
// фиксирована низкой ради воспроизводимости схемы.
func (c *Client) Complete(ctx context.Context, params CompletionParams) (string, error) {
	const op = "llm.Complete"

	reqBody := chatRequest{
		Model:          c.model,
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
		MaxTokens:      params.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: params.System},
			{Role: "user", Content: params.User},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		body := string(raw)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices in response", op)
	}
	return parsed.Choices[0].Message.Content, nil
}
