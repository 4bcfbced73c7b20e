package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/khrees2412/jobhunter/pkg/models"
)

const templatesPath = "/api/outreach/templates"

func templatePath(id string) string {
	return templatesPath + "/" + url.PathEscape(id)
}

// ListTemplates returns the user's outreach templates
func (c *Client) ListTemplates(ctx context.Context, userID string) ([]models.OutreachTemplate, error) {
	data, err := c.get(ctx, templatesPath, userParams(userID))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates := []models.OutreachTemplate{}
	if err := c.parseResponse(data, &templates); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns one template
func (c *Client) GetTemplate(ctx context.Context, id, userID string) (*models.OutreachTemplate, error) {
	data, err := c.get(ctx, templatePath(id), userParams(userID))
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	var tmpl models.OutreachTemplate
	if err := c.parseResponse(data, &tmpl); err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &tmpl, nil
}

// CreateTemplate stores a new template
func (c *Client) CreateTemplate(ctx context.Context, in models.TemplateInput) (*models.TemplateCreated, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, templatesPath, nil, in)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	var created models.TemplateCreated
	if err := c.parseResponse(data, &created); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return &created, nil
}

// UpdateTemplate replaces a template's fields
func (c *Client) UpdateTemplate(ctx context.Context, id string, in models.TemplateInput) error {
	if _, err := c.sendJSON(ctx, http.MethodPut, templatePath(id), nil, in); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template
func (c *Client) DeleteTemplate(ctx context.Context, id, userID string) error {
	if _, err := c.delete(ctx, templatePath(id), userParams(userID)); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// DuplicateTemplate copies a template and returns the new id
func (c *Client) DuplicateTemplate(ctx context.Context, id, userID string) (*models.TemplateCreated, error) {
	payload := map[string]string{userIDParam: userID}
	data, err := c.sendJSON(ctx, http.MethodPost, templatePath(id)+"/duplicate", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}

	var created models.TemplateCreated
	if err := c.parseResponse(data, &created); err != nil {
		return nil, fmt.Errorf("duplicate template: %w", err)
	}
	return &created, nil
}
