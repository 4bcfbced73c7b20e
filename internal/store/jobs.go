// Package store holds the client-side copies of backend state a view works on.
// Stores are plain values owned by the application container; every mutation
// goes through a method and the last writer wins.
package store

import (
	"sync"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// JobStore is the job list shared by the board and the job views
type JobStore struct {
	mu   sync.RWMutex
	jobs []models.Job
}

// NewJobStore returns an empty store
func NewJobStore() *JobStore {
	return &JobStore{jobs: []models.Job{}}
}

// Set replaces the whole list
func (s *JobStore) Set(jobs []models.Job) {
	cp := make([]models.Job, len(jobs))
	copy(cp, jobs)

	s.mu.Lock()
	s.jobs = cp
	s.mu.Unlock()
}

// Add prepends a job, or replaces it in place when the id is already present
func (s *JobStore) Add(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == job.ID {
			s.jobs[i] = job
			return
		}
	}
	s.jobs = append([]models.Job{job}, s.jobs...)
}

// Update applies fn to the job with id and reports whether it was found
func (s *JobStore) Update(id string, fn func(*models.Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID == id {
			fn(&s.jobs[i])
			return true
		}
	}
	return false
}

// Clear resets the store to an empty list
func (s *JobStore) Clear() {
	s.mu.Lock()
	s.jobs = []models.Job{}
	s.mu.Unlock()
}

// Jobs returns a snapshot of the list
func (s *JobStore) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Get returns a copy of the job with id
func (s *JobStore) Get(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return models.Job{}, false
}

// Len returns the number of jobs held
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
