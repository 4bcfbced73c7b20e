package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// GetProfile returns the user document. A missing user yields (nil, nil) so
// views render the empty form instead of an error.
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	data, err := c.get(ctx, "/api/users/profile/"+url.PathEscape(userID), nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var user models.User
	if err := c.parseResponse(data, &user); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &user, nil
}

// SaveProfile creates or updates the user's profile
func (c *Client) SaveProfile(ctx context.Context, user models.User) (*models.ProfileSaved, error) {
	data, err := c.sendJSON(ctx, http.MethodPost, "/api/users/profile", nil, user)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	var saved models.ProfileSaved
	if err := c.parseResponse(data, &saved); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &saved, nil
}

// UploadResume sends a resume file as multipart form field "file"
func (c *Client) UploadResume(ctx context.Context, userID, filename string, r io.Reader) (*models.ResumeUploaded, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/api/users/resume", userParams(userID), &buf, w.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	var uploaded models.ResumeUploaded
	if err := c.parseResponse(data, &uploaded); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	return &uploaded, nil
}
