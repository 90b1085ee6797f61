package api

import (
	"context"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

type CreateTowerRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	AreaID    string `json:"area_id,omitempty"`
	Location  string `json:"location,omitempty"`
	IPAddress string `json:"ip_address"`
	Status    string `json:"status,omitempty"`
}

// UpdateTowerRequest — частичное обновление, nil-поля не отправляются
type UpdateTowerRequest struct {
	Name      *string `json:"name,omitempty"`
	Code      *string `json:"code,omitempty"`
	Location  *string `json:"location,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (c *Client) ListTowers(ctx context.Context) ([]models.Tower, error) {
	var towers []models.Tower
	if err := c.get(ctx, "/towers", &towers); err != nil {
		return nil, err
	}
	return towers, nil
}

func (c *Client) GetTower(ctx context.Context, id string) (models.Tower, error) {
	var tower models.Tower
	if err := c.get(ctx, "/towers/"+id, &tower); err != nil {
		return models.Tower{}, err
	}
	return tower, nil
}

func (c *Client) CreateTower(ctx context.Context, req CreateTowerRequest) (models.Tower, error) {
	var tower models.Tower
	if err := c.post(ctx, "/towers", req, &tower); err != nil {
		return models.Tower{}, err
	}
	return tower, nil
}

func (c *Client) UpdateTower(ctx context.Context, id string, req UpdateTowerRequest) error {
	return c.put(ctx, "/towers/"+id, req, nil)
}
