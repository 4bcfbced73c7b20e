package models

import "fmt"

// JobStatus is the pipeline status of a job
type JobStatus string

const (
	StatusNew      JobStatus = "new"
	StatusMatched  JobStatus = "matched"
	StatusOutreach JobStatus = "outreach"
	StatusDraft    JobStatus = "draft"
	StatusApplied  JobStatus = "applied"
	StatusRejected JobStatus = "rejected"
)

// AllJobStatuses returns every status in pipeline order
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		StatusNew,
		StatusMatched,
		StatusOutreach,
		StatusDraft,
		StatusApplied,
		StatusRejected,
	}
}

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case StatusNew, StatusMatched, StatusOutreach, StatusDraft, StatusApplied, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Valid reports whether s is one of the known statuses
func (s JobStatus) Valid() bool {
	_, err := ParseJobStatus(string(s))
	return err == nil
}

// IsTerminal is true for applied and rejected
func (s JobStatus) IsTerminal() bool {
	return s == StatusApplied || s == StatusRejected
}
