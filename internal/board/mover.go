package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/optimistic"
	"github.com/khrees2412/jobhunter/internal/store"
	"github.com/khrees2412/jobhunter/pkg/models"
)

// Backend is the part of the REST client the board needs
type Backend interface {
	ListJobs(ctx context.Context, userID string, filter api.JobFilter) (*models.JobList, error)
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus) (*models.StatusUpdate, error)
	GenerateOutreach(ctx context.Context, jobID, userID string) (*models.OutreachResult, error)
}

// Mover applies pipeline actions to the job store optimistically
type Mover struct {
	backend  Backend
	jobs     *store.JobStore
	userID   string
	filter   api.JobFilter
	logger   *zap.Logger
	onChange func(Board)
}

// MoverOption customises a Mover
type MoverOption func(*Mover)

// WithFilter sets the filter used for loads and reconciliation
func WithFilter(f api.JobFilter) MoverOption {
	return func(m *Mover) { m.filter = f }
}

// WithOnChange registers a hook called with the new board after every local
// change, before the confirming request is sent.
func WithOnChange(fn func(Board)) MoverOption {
	return func(m *Mover) { m.onChange = fn }
}

// NewMover creates a mover acting as userID
func NewMover(backend Backend, jobs *store.JobStore, userID string, logger *zap.Logger, opts ...MoverOption) *Mover {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mover{
		backend: backend,
		jobs:    jobs,
		userID:  userID,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Board groups the current store contents
func (m *Mover) Board() Board {
	return Group(m.jobs.Jobs())
}

// Reload replaces the store with the backend's job list
func (m *Mover) Reload(ctx context.Context) error {
	list, err := m.backend.ListJobs(ctx, m.userID, m.filter)
	if err != nil {
		return err
	}
	m.jobs.Set(list.Jobs)
	m.notify()
	return nil
}

func (m *Mover) notify() {
	if m.onChange != nil {
		m.onChange(m.Board())
	}
}

// Move drops a job on column to. Dropping on the column the job is already
// shown in does nothing.
func (m *Mover) Move(ctx context.Context, jobID string, to Column) error {
	status, err := TargetStatus(to)
	if err != nil {
		return err
	}
	job, ok := m.jobs.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, jobID)
	}
	if ColumnFor(job) == to {
		return nil
	}
	return m.setStatus(ctx, job, status)
}

// MarkApplied moves a job to applied
func (m *Mover) MarkApplied(ctx context.Context, jobID string) error {
	job, ok := m.jobs.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, jobID)
	}
	return m.setStatus(ctx, job, models.StatusApplied)
}

// Reject moves a job to rejected
func (m *Mover) Reject(ctx context.Context, jobID string) error {
	job, ok := m.jobs.Get(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, jobID)
	}
	return m.setStatus(ctx, job, models.StatusRejected)
}

func (m *Mover) setStatus(ctx context.Context, job models.Job, status models.JobStatus) error {
	m.logger.Info("moving job",
		zap.String("job_id", job.ID),
		zap.String("from", string(job.Status)),
		zap.String("to", string(status)),
	)

	err := optimistic.Do(ctx, optimistic.Op{
		Apply: func() {
			m.jobs.Update(job.ID, func(j *models.Job) { j.Status = status })
			m.notify()
		},
		Commit: func(ctx context.Context) error {
			_, err := m.backend.UpdateJobStatus(ctx, job.ID, status)
			return err
		},
		Reconcile: m.Reload,
	})
	if err != nil {
		m.logger.Warn("status change rolled back", zap.String("job_id", job.ID), zap.Error(err))
		return fmt.Errorf("move %s to %s: %w", job.ID, status, err)
	}
	return nil
}

// GenerateOutreach asks the backend for outreach content, attaches it and
// moves the job to draft. Applied and rejected jobs are left alone. When the
// status change fails after generation, the content is still returned with
// the error.
func (m *Mover) GenerateOutreach(ctx context.Context, jobID string) (models.OutreachContent, error) {
	job, ok := m.jobs.Get(jobID)
	if !ok {
		return models.OutreachContent{}, fmt.Errorf("%w: %s", ErrUnknownJob, jobID)
	}
	if job.Status.IsTerminal() {
		return models.OutreachContent{}, fmt.Errorf("%w: %s job cannot get outreach", ErrInvalidTransition, job.Status)
	}

	var content models.OutreachContent
	err := optimistic.Do(ctx, optimistic.Op{
		Apply: func() {
			m.jobs.Update(jobID, func(j *models.Job) { j.Status = models.StatusDraft })
			m.notify()
		},
		Commit: func(ctx context.Context) error {
			result, err := m.backend.GenerateOutreach(ctx, jobID, m.userID)
			if err != nil {
				return err
			}
			content = result.OutreachContent
			m.jobs.Update(jobID, func(j *models.Job) { j.Outreach = content })
			m.notify()

			_, err = m.backend.UpdateJobStatus(ctx, jobID, models.StatusDraft)
			return err
		},
		Reconcile: m.Reload,
	})
	if err != nil {
		// the backend does not keep generated content; hand it back with the error
		if !content.IsEmpty() {
			m.jobs.Update(jobID, func(j *models.Job) { j.Outreach = content })
			m.notify()
		}
		return content, fmt.Errorf("generate outreach for %s: %w", jobID, err)
	}

	m.logger.Info("outreach generated", zap.String("job_id", jobID))
	return content, nil
}
