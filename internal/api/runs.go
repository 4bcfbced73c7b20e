package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// RunStatus returns the agent loop state
func (c *Client) RunStatus(ctx context.Context) (*models.RunStatus, error) {
	data, err := c.get(ctx, "/api/runs/status", nil)
	if err != nil {
		return nil, fmt.Errorf("run status: %w", err)
	}

	var status models.RunStatus
	if err := c.parseResponse(data, &status); err != nil {
		return nil, fmt.Errorf("run status: %w", err)
	}
	return &status, nil
}

// NextScan returns when the next scheduled scan fires
func (c *Client) NextScan(ctx context.Context) (*models.NextScan, error) {
	data, err := c.get(ctx, "/api/runs/next-scan", nil)
	if err != nil {
		return nil, fmt.Errorf("next scan: %w", err)
	}

	var next models.NextScan
	if err := c.parseResponse(data, &next); err != nil {
		return nil, fmt.Errorf("next scan: %w", err)
	}
	return &next, nil
}

// LastScan returns when the previous scan completed and what it found
func (c *Client) LastScan(ctx context.Context) (*models.LastScan, error) {
	data, err := c.get(ctx, "/api/runs/last-scan", nil)
	if err != nil {
		return nil, fmt.Errorf("last scan: %w", err)
	}

	var last models.LastScan
	if err := c.parseResponse(data, &last); err != nil {
		return nil, fmt.Errorf("last scan: %w", err)
	}
	return &last, nil
}

// RunTimeline returns the live step log of the current run
func (c *Client) RunTimeline(ctx context.Context, userID string, limit int) ([]models.TimelineEntry, error) {
	params := userParams(userID)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	data, err := c.get(ctx, "/api/runs/timeline", params)
	if err != nil {
		return nil, fmt.Errorf("run timeline: %w", err)
	}

	entries := []models.TimelineEntry{}
	if err := c.parseResponse(data, &entries); err != nil {
		return nil, fmt.Errorf("run timeline: %w", err)
	}
	return entries, nil
}

// SetAutoScan enables or disables scheduled scans for the user
func (c *Client) SetAutoScan(ctx context.Context, userID string, enabled bool) (*models.AutoScan, error) {
	payload := struct {
		Enabled bool   `json:"enabled"`
		UserID  string `json:"clerk_user_id"`
	}{Enabled: enabled, UserID: userID}

	data, err := c.sendJSON(ctx, http.MethodPatch, "/api/runs/auto-scan", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("set auto-scan: %w", err)
	}

	var result models.AutoScan
	if err := c.parseResponse(data, &result); err != nil {
		return nil, fmt.Errorf("set auto-scan: %w", err)
	}
	return &result, nil
}

// StartRun starts an agent run immediately
func (c *Client) StartRun(ctx context.Context, userID string) (*models.RunStarted, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/api/runs/start", nil, map[string]string{userIDParam: userID})
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	var started models.RunStarted
	if err := c.parseResponse(data, &started); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return &started, nil
}

// StopRun stops the running agent
func (c *Client) StopRun(ctx context.Context, userID string) (*models.RunStatus, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/api/runs/stop", nil, map[string]string{userIDParam: userID})
	if err != nil {
		return nil, fmt.Errorf("stop run: %w", err)
	}

	var status models.RunStatus
	if err := c.parseResponse(data, &status); err != nil {
		return nil, fmt.Errorf("stop run: %w", err)
	}
	return &status, nil
}
