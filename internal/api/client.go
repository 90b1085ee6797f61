package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError — корректный ответ бэкенда с success:false и сообщением.
// Транспортные ошибки (DNS, таймаут, обрыв) возвращаются как есть,
// обёрнутые через %w.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client — клиент REST API бэкенда наблюдения. Все ответы приходят
// в конверте {success, data|error}.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// отдельный клиент без таймаута для долгоживущего live-feed
	streamHTTP *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTP:       &http.Client{Timeout: 15 * time.Second},
		streamHTTP: &http.Client{},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response (status %s): %w", resp.Status, err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %s", resp.Status)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// getRaw декодирует тело ответа целиком, без конверта {success, data}.
// Нужен для ручек, которые отвечают плоским JSON (snapshot, detections,
// статус шлюза).
func (c *Client) getRaw(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response (status %s): %w", resp.Status, err)
	}
	return nil
}

// postRaw — POST с декодированием плоского ответа, как getRaw
func (c *Client) postRaw(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response (status %s): %w", resp.Status, err)
	}
	return nil
}

// Health — проба доступности бэкенда. Ручка отвечает плоским
// {status: healthy|unhealthy}, без конверта.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.getRaw(ctx, "/health", &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		msg := resp.Error
		if msg == "" {
			msg = "backend reported status " + resp.Status
		}
		return &APIError{Message: msg}
	}
	return nil
}
