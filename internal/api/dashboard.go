package api

import (
	"context"
	"fmt"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// DashboardStats returns the KPI tiles, activity feed and breakdowns
func (c *Client) DashboardStats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	data, err := c.get(ctx, "/api/dashboard/stats", userParams(userID))
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	var stats models.DashboardStats
	if err := c.parseResponse(data, &stats); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
