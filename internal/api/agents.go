package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/khrees2412/jobhunter/pkg/models"
)

const (
	DefaultTimelineLimit = 50
	DefaultHistoryLimit  = 20
)

// AgentTimeline returns the most recent agent activity steps
func (c *Client) AgentTimeline(ctx context.Context, userID string, limit int) ([]models.TimelineEntry, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	params := userParams(userID)
	params.Set("limit", strconv.Itoa(limit))

	data, err := c.get(ctx, "/api/agents/timeline", params)
	if err != nil {
		return nil, fmt.Errorf("agent timeline: %w", err)
	}

	entries := []models.TimelineEntry{}
	if err := c.parseResponse(data, &entries); err != nil {
		return nil, fmt.Errorf("agent timeline: %w", err)
	}
	return entries, nil
}

// ScanHistory returns past scan runs, newest first
func (c *Client) ScanHistory(ctx context.Context, userID string, limit int) ([]models.ScanRun, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	params := userParams(userID)
	params.Set("limit", strconv.Itoa(limit))

	data, err := c.get(ctx, "/api/agents/history", params)
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}

	runs := []models.ScanRun{}
	if err := c.parseResponse(data, &runs); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return runs, nil
}
