package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/cache"
	"github.com/khrees2412/jobhunter/pkg/models"
)

// LoadJobs fetches the job list into the job store. In offline mode, or when
// the backend cannot be reached, the cached snapshot is used instead and its
// save time returned; a zero time means the data is live.
func (a *App) LoadJobs(ctx context.Context, userID string, filter api.JobFilter) (int, time.Time, error) {
	if !a.Offline {
		list, err := a.Client.ListJobs(ctx, userID, filter)
		if err == nil {
			a.Jobs.Set(list.Jobs)
			if err := a.Snapshots.SaveJobs(ctx, userID, list.Jobs); err != nil {
				a.Logger.Warn("failed to cache jobs", zap.Error(err))
			}
			return list.Total, time.Time{}, nil
		}
		if !fallbackAllowed(err) {
			return 0, time.Time{}, err
		}
		a.Logger.Info("backend unreachable, using cached jobs", zap.Error(err))
		jobs, savedAt, cerr := a.Snapshots.LoadJobs(ctx, userID)
		if cerr != nil {
			return 0, time.Time{}, err
		}
		a.Jobs.Set(jobs)
		return len(jobs), savedAt, nil
	}

	jobs, savedAt, err := a.Snapshots.LoadJobs(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		return 0, time.Time{}, ErrOffline
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	a.Jobs.Set(jobs)
	return len(jobs), savedAt, nil
}

// LoadProfile fetches the user into the profile store with the same fallback
// rules as LoadJobs. A user without a saved profile leaves the store empty.
func (a *App) LoadProfile(ctx context.Context, userID string) (*models.User, time.Time, error) {
	if !a.Offline {
		user, err := a.Client.GetProfile(ctx, userID)
		if err == nil {
			a.setProfile(user)
			if err := a.Snapshots.SaveProfile(ctx, userID, user); err != nil {
				a.Logger.Warn("failed to cache profile", zap.Error(err))
			}
			return user, time.Time{}, nil
		}
		if !fallbackAllowed(err) {
			return nil, time.Time{}, err
		}
		a.Logger.Info("backend unreachable, using cached profile", zap.Error(err))
		user, savedAt, cerr := a.Snapshots.LoadProfile(ctx, userID)
		if cerr != nil {
			return nil, time.Time{}, err
		}
		a.setProfile(user)
		return user, savedAt, nil
	}

	user, savedAt, err := a.Snapshots.LoadProfile(ctx, userID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, time.Time{}, ErrOffline
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	a.setProfile(user)
	return user, savedAt, nil
}

func (a *App) setProfile(user *models.User) {
	if user == nil {
		a.Profile.Clear()
		return
	}
	a.Profile.Set(user)
}

// fallbackAllowed is true for transport failures. Responses from the backend,
// even errors, are never masked by cached data.
func fallbackAllowed(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *api.Error
	return !errors.As(err, &apiErr)
}
