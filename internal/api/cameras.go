package api

import (
	"context"
	"net/url"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

type CreateCameraRequest struct {
	TowerID    string `json:"tower_id"`
	Name       string `json:"name"`
	RTSPURL    string `json:"rtsp_url"`
	Resolution string `json:"resolution,omitempty"`
	FPS        int    `json:"fps,omitempty"`
	Status     string `json:"status,omitempty"`
}

type UpdateCameraRequest struct {
	Name       *string `json:"name,omitempty"`
	RTSPURL    *string `json:"rtsp_url,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
	FPS        *int    `json:"fps,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// ListCameras возвращает камеры, при непустом towerID — только одной вышки
func (c *Client) ListCameras(ctx context.Context, towerID string) ([]models.Camera, error) {
	path := "/cameras"
	if towerID != "" {
		path += "?tower_id=" + url.QueryEscape(towerID)
	}
	var cameras []models.Camera
	if err := c.get(ctx, path, &cameras); err != nil {
		return nil, err
	}
	return cameras, nil
}

func (c *Client) CreateCamera(ctx context.Context, req CreateCameraRequest) (models.Camera, error) {
	var camera models.Camera
	if err := c.post(ctx, "/cameras", req, &camera); err != nil {
		return models.Camera{}, err
	}
	return camera, nil
}

func (c *Client) UpdateCamera(ctx context.Context, id string, req UpdateCameraRequest) error {
	return c.put(ctx, "/cameras/"+id, req, nil)
}

// snapshotResponse — одиночный кадр приходит вне конверта data
type snapshotResponse struct {
	Success bool   `json:"success"`
	Image   string `json:"image"`
	Camera  string `json:"camera"`
	Error   string `json:"error"`
}

// CameraSnapshot возвращает одиночный кадр камеры как data-url
func (c *Client) CameraSnapshot(ctx context.Context, id string) (string, error) {
	var resp snapshotResponse
	if err := c.getRaw(ctx, "/cameras/"+id+"/snapshot", &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &APIError{Message: resp.Error}
	}
	return resp.Image, nil
}

type detectionsResponse struct {
	Success    bool               `json:"success"`
	Detections []models.Detection `json:"detections"`
	Error      string             `json:"error"`
}

// CameraDetections возвращает актуальный набор детекций вне live-потока
func (c *Client) CameraDetections(ctx context.Context, id string) ([]models.Detection, error) {
	var resp detectionsResponse
	if err := c.getRaw(ctx, "/cameras/"+id+"/detections", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Error}
	}
	return resp.Detections, nil
}
