package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

type AlarmFilter struct {
	Limit    int
	Status   models.AlarmStatus
	CameraID string
}

func (f AlarmFilter) query() string {
	values := url.Values{}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.CameraID != "" {
		values.Set("camera_id", f.CameraID)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

type CreateAlarmRequest struct {
	CameraID   string  `json:"camera_id"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	ImageURL   string  `json:"image_url,omitempty"`
	VideoURL   string  `json:"video_url,omitempty"`
}

func (c *Client) ListAlarms(ctx context.Context, filter AlarmFilter) ([]models.Alarm, error) {
	var alarms []models.Alarm
	if err := c.get(ctx, "/alarms"+filter.query(), &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

func (c *Client) CreateAlarm(ctx context.Context, req CreateAlarmRequest) (models.Alarm, error) {
	var alarm models.Alarm
	if err := c.post(ctx, "/alarms", req, &alarm); err != nil {
		return models.Alarm{}, err
	}
	return alarm, nil
}

func (c *Client) AcknowledgeAlarm(ctx context.Context, id, acknowledgedBy string) error {
	body := map[string]string{"acknowledged_by": acknowledgedBy}
	return c.post(ctx, "/alarms/"+id+"/acknowledge", body, nil)
}

func (c *Client) ResolveAlarm(ctx context.Context, id, resolvedBy string) error {
	body := map[string]string{"resolved_by": resolvedBy}
	return c.post(ctx, "/alarms/"+id+"/resolve", body, nil)
}
