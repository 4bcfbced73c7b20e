package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// DefaultJobsLimit is the page size used when a filter leaves Limit unset
const DefaultJobsLimit = 50

// JobFilter narrows GET /api/jobs
type JobFilter struct {
	Limit         int
	Status        models.JobStatus
	ScanRunID     string
	DateFrom      string
	DateTo        string
	Source        string
	MinMatchScore float64
	SortBy        string // created_at, match_score, posted_at
	SortOrder     string // asc, desc
}

func (f JobFilter) values(userID string) url.Values {
	params := userParams(userID)

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultJobsLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.ScanRunID != "" {
		params.Set("scan_run_id", f.ScanRunID)
	}
	if f.DateFrom != "" {
		params.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		params.Set("date_to", f.DateTo)
	}
	if f.Source != "" {
		params.Set("source", f.Source)
	}
	if f.MinMatchScore > 0 {
		params.Set("min_match_score", strconv.FormatFloat(f.MinMatchScore, 'f', -1, 64))
	}
	if f.SortBy != "" {
		params.Set("sort_by", f.SortBy)
	}
	if f.SortOrder != "" {
		params.Set("sort_order", f.SortOrder)
	}
	return params
}

// ListJobs returns the user's jobs matching filter
func (c *Client) ListJobs(ctx context.Context, userID string, filter JobFilter) (*models.JobList, error) {
	data, err := c.get(ctx, "/api/jobs", filter.values(userID))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	var list models.JobList
	if err := c.parseResponse(data, &list); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if list.Jobs == nil {
		list.Jobs = []models.Job{}
	}
	return &list, nil
}

// GetJob returns a single job
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	data, err := c.get(ctx, "/api/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job models.Job
	if err := c.parseResponse(data, &job); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// TriggerScan asks the backend to start a discovery scan
func (c *Client) TriggerScan(ctx context.Context, req models.ScanRequest) (*models.ScanStarted, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/api/jobs/scan", nil, req)
	if err != nil {
		return nil, fmt.Errorf("trigger scan: %w", err)
	}

	var started models.ScanStarted
	if err := c.parseResponse(data, &started); err != nil {
		return nil, fmt.Errorf("trigger scan: %w", err)
	}
	return &started, nil
}

// GenerateOutreach requests outreach messages for a job
func (c *Client) GenerateOutreach(ctx context.Context, jobID, userID string) (*models.OutreachResult, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/api/jobs/"+url.PathEscape(jobID)+"/outreach", userParams(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("generate outreach: %w", err)
	}

	var result models.OutreachResult
	if err := c.parseResponse(data, &result); err != nil {
		return nil, fmt.Errorf("generate outreach: %w", err)
	}
	return &result, nil
}

// UpdateJobStatus persists a pipeline status change
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.StatusUpdate, error) {
	payload := map[string]models.JobStatus{"status": status}
	data, err := c.sendJSON(ctx, http.MethodPatch, "/api/jobs/"+url.PathEscape(jobID)+"/status", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}

	var update models.StatusUpdate
	if err := c.parseResponse(data, &update); err != nil {
		return nil, fmt.Errorf("update job status: %w", err)
	}
	return &update, nil
}
