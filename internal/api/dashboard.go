package api

import (
	"context"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
)

func (c *Client) GetOverview(ctx context.Context) (models.Overview, error) {
	var overview models.Overview
	if err := c.get(ctx, "/dashboard/overview", &overview); err != nil {
		return models.Overview{}, err
	}
	return overview, nil
}
