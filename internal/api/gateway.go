package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

// GatewayCredentials — ключи доступа к шлюзу робота. Выдаются извне,
// консоль их только хранит и передаёт при подключении.
type GatewayCredentials struct {
	APIKey       string `json:"api_key"`
	APIKeyID     string `json:"api_key_id"`
	RobotAddress string `json:"robot_address"`
}

func (c *Client) GatewayStatus(ctx context.Context) (models.GatewayStatus, error) {
	var status models.GatewayStatus
	if err := c.getRaw(ctx, "/gateway/status", &status); err != nil {
		return models.GatewayStatus{}, err
	}
	return status, nil
}

func (c *Client) GatewayConnect(ctx context.Context, creds GatewayCredentials) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postRaw(ctx, "/gateway/connect", creds, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Message: resp.Error}
	}
	return nil
}

func (c *Client) GatewayDisconnect(ctx context.Context) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postRaw(ctx, "/gateway/disconnect", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{Message: resp.Error}
	}
	return nil
}

type gatewayCamerasResponse struct {
	Success bool                   `json:"success"`
	Cameras []models.GatewayCamera `json:"cameras"`
	Error   string                 `json:"error"`
}

// GatewayCameras возвращает метаданные камер, видимых шлюзом
func (c *Client) GatewayCameras(ctx context.Context) ([]models.GatewayCamera, error) {
	var resp gatewayCamerasResponse
	if err := c.getRaw(ctx, "/gateway/cameras", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Error}
	}
	return resp.Cameras, nil
}

// OpenLiveFeed открывает SSE-поток кадров камеры. Вызывающий обязан
// закрыть тело ответа; отмена ctx тоже обрывает поток.
func (c *Client) OpenLiveFeed(ctx context.Context, camera string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/cameras/"+camera+"/live-feed", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open live feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("open live feed: bad status %s", resp.Status)
	}
	return resp, nil
}
