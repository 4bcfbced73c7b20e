package ui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/khrees2412/jobhunter/internal/api"
)

// RenderError renders a failure inline with a hint on how to retry
func RenderError(err error, retry string) string {
	msg := describe(err)
	out := errorStyle.Render("✗ " + msg)
	if retry != "" {
		out += "\n" + Muted("  Retry with: "+retry)
	}
	return out
}

func describe(err error) string {
	var apiErr *api.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.As(err, &apiErr):
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			return "The backend refused the request; check auth_token and user_id. (" + apiErr.Detail + ")"
		case errors.Is(err, api.ErrNotFound):
			return "Not found: " + apiErr.Detail
		case errors.Is(err, api.ErrServer):
			return fmt.Sprintf("The backend failed (%d): %s", apiErr.StatusCode, apiErr.Detail)
		}
		return err.Error()
	case errors.As(err, &netErr):
		return "Could not reach the backend: " + err.Error()
	}
	return err.Error()
}

// RenderStale warns that data comes from the local snapshot
func RenderStale(savedAt time.Time, now time.Time) string {
	ago := now.Sub(savedAt).Round(time.Minute)
	return warnStyle.Render(fmt.Sprintf("⚠ Offline: showing data cached %s ago", ago))
}
