package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khrees2412/jobhunter/internal/cache"
	"github.com/khrees2412/jobhunter/pkg/models"
)

const (
	kindJobs    = "jobs"
	kindProfile = "profile"
)

var _ cache.Snapshot = (*Store)(nil)

func (s *Store) touch(ctx context.Context, tx *sql.Tx, userID, kind string, at time.Time) error {
	query := `INSERT INTO snapshots (user_id, kind, saved_at) VALUES (?, ?, ?)
			  ON CONFLICT(user_id, kind) DO UPDATE SET saved_at = excluded.saved_at`
	_, err := tx.ExecContext(ctx, query, userID, kind, at.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) savedAt(ctx context.Context, userID, kind string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshots WHERE user_id=? AND kind=?`, userID, kind).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, cache.ErrMiss
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, raw)
}

// SaveJobs replaces the user's cached job list
func (s *Store) SaveJobs(ctx context.Context, userID string, jobs []models.Job) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_jobs WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("clear cached jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO cached_jobs (user_id, job_id, position, status, payload)
			  VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, job := range jobs {
		payload, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job %s: %w", job.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, job.ID, i, string(job.Status), string(payload)); err != nil {
			return fmt.Errorf("cache job %s: %w", job.ID, err)
		}
	}

	if err := s.touch(ctx, tx, userID, kindJobs, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadJobs returns the cached job list in the order it was saved
func (s *Store) LoadJobs(ctx context.Context, userID string) ([]models.Job, time.Time, error) {
	at, err := s.savedAt(ctx, userID, kindJobs)
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM cached_jobs WHERE user_id=? ORDER BY position`, userID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, time.Time{}, err
		}
		var job models.Job
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			return nil, time.Time{}, fmt.Errorf("decode cached job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, at, rows.Err()
}

// SaveProfile stores the user document; nil removes it
func (s *Store) SaveProfile(ctx context.Context, userID string, user *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if user == nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cached_profiles WHERE user_id=?`, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE user_id=? AND kind=?`, userID, kindProfile); err != nil {
			return err
		}
		return tx.Commit()
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	query := `INSERT INTO cached_profiles (user_id, email, payload) VALUES (?, ?, ?)
			  ON CONFLICT(user_id) DO UPDATE SET email = excluded.email, payload = excluded.payload`
	if _, err := tx.ExecContext(ctx, query, userID, user.Email, string(payload)); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}

	if err := s.touch(ctx, tx, userID, kindProfile, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadProfile returns the cached user document
func (s *Store) LoadProfile(ctx context.Context, userID string) (*models.User, time.Time, error) {
	at, err := s.savedAt(ctx, userID, kindProfile)
	if err != nil {
		return nil, time.Time{}, err
	}

	var payload string
	err = s.db.QueryRowContext(ctx, `SELECT payload FROM cached_profiles WHERE user_id=?`, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, cache.ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode cached profile: %w", err)
	}
	return &user, at, nil
}
