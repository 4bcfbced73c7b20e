// Package board defines the Kanban view of the job pipeline.
//
// Columns and the statuses they hold:
//
//	Pending Review      new, matched without outreach
//	Ready for Outreach  outreach, matched with outreach
//	Drafts              draft
//	Applied             applied
//	Rejected            rejected
//
// A drop on a column writes that column's target status. ColumnFor and
// TargetStatus agree, so a dropped card stays where it was dropped.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobhunter/pkg/models"
)

var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnknownJob        = errors.New("job not on board")
	ErrInvalidTransition = errors.New("transition not allowed")
)

// Column identifies a board column
type Column string

const (
	ColumnPendingReview    Column = "pending_review"
	ColumnReadyForOutreach Column = "ready_for_outreach"
	ColumnDrafts           Column = "drafts"
	ColumnApplied          Column = "applied"
	ColumnRejected         Column = "rejected"
)

// Columns returns every column in display order
func Columns() []Column {
	return []Column{
		ColumnPendingReview,
		ColumnReadyForOutreach,
		ColumnDrafts,
		ColumnApplied,
		ColumnRejected,
	}
}

// Title is the column heading
func (c Column) Title() string {
	switch c {
	case ColumnPendingReview:
		return "Pending Review"
	case ColumnReadyForOutreach:
		return "Ready for Outreach"
	case ColumnDrafts:
		return "Drafts"
	case ColumnApplied:
		return "Applied"
	case ColumnRejected:
		return "Rejected"
	}
	return string(c)
}

var columnAliases = map[string]Column{
	"pending":  ColumnPendingReview,
	"review":   ColumnPendingReview,
	"new":      ColumnPendingReview,
	"ready":    ColumnReadyForOutreach,
	"outreach": ColumnReadyForOutreach,
	"draft":    ColumnDrafts,
	"reject":   ColumnRejected,
}

// ParseColumn accepts a column id, its title, or a short alias such as
// "ready" or "draft".
func ParseColumn(s string) (Column, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	for _, c := range Columns() {
		if key == string(c) || key == strings.ReplaceAll(strings.ToLower(c.Title()), " ", "_") {
			return c, nil
		}
	}
	if c, ok := columnAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownColumn, s)
}

// ColumnFor returns the column a job is shown in. Statuses the client does
// not know yet are shown under Pending Review.
func ColumnFor(job models.Job) Column {
	switch job.Status {
	case models.StatusNew:
		return ColumnPendingReview
	case models.StatusMatched:
		if job.HasOutreach() {
			return ColumnReadyForOutreach
		}
		return ColumnPendingReview
	case models.StatusOutreach:
		return ColumnReadyForOutreach
	case models.StatusDraft:
		return ColumnDrafts
	case models.StatusApplied:
		return ColumnApplied
	case models.StatusRejected:
		return ColumnRejected
	}
	return ColumnPendingReview
}

// TargetStatus is the status written when a card is dropped on c
func TargetStatus(c Column) (models.JobStatus, error) {
	switch c {
	case ColumnPendingReview:
		return models.StatusNew, nil
	case ColumnReadyForOutreach:
		return models.StatusOutreach, nil
	case ColumnDrafts:
		return models.StatusDraft, nil
	case ColumnApplied:
		return models.StatusApplied, nil
	case ColumnRejected:
		return models.StatusRejected, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownColumn, c)
}
