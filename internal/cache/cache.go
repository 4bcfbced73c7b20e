// Package cache keeps the last job list and profile fetched for each user so
// views can render offline or when the backend is down. Nothing here is
// authoritative; every entry carries the time it was saved.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// ErrMiss is returned when nothing has been saved for the user
var ErrMiss = errors.New("no cached snapshot")

// Snapshot stores per-user copies of backend responses
type Snapshot interface {
	SaveJobs(ctx context.Context, userID string, jobs []models.Job) error
	LoadJobs(ctx context.Context, userID string) ([]models.Job, time.Time, error)
	SaveProfile(ctx context.Context, userID string, user *models.User) error
	LoadProfile(ctx context.Context, userID string) (*models.User, time.Time, error)
	Close() error
}

// Nop discards writes and always misses
type Nop struct{}

func (Nop) SaveJobs(context.Context, string, []models.Job) error { return nil }

func (Nop) LoadJobs(context.Context, string) ([]models.Job, time.Time, error) {
	return nil, time.Time{}, ErrMiss
}

func (Nop) SaveProfile(context.Context, string, *models.User) error { return nil }

func (Nop) LoadProfile(context.Context, string) (*models.User, time.Time, error) {
	return nil, time.Time{}, ErrMiss
}

func (Nop) Close() error { return nil }
