package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var withOutreach = models.OutreachContent{EmailSubject: "Hello", EmailBody: "I'd like to apply"}

func TestEveryStatusLandsInExactlyOneColumn(t *testing.T) {
	for _, status := range models.AllJobStatuses() {
		for _, outreach := range []models.OutreachContent{{}, withOutreach} {
			job := models.Job{ID: "j", Status: status, Outreach: outreach}

			b := board.Group([]models.Job{job})
			hits := 0
			for _, lane := range b.Lanes {
				hits += len(lane.Jobs)
			}
			assert.Equal(t, 1, hits, "status %s", status)
			assert.Equal(t, 1, b.Count(board.ColumnFor(job)), "status %s", status)
		}
	}
}

func TestColumnFor(t *testing.T) {
	tests := []struct {
		status   models.JobStatus
		outreach models.OutreachContent
		want     board.Column
	}{
		{models.StatusNew, models.OutreachContent{}, board.ColumnPendingReview},
		{models.StatusMatched, models.OutreachContent{}, board.ColumnPendingReview},
		{models.StatusMatched, withOutreach, board.ColumnReadyForOutreach},
		{models.StatusMatched, models.OutreachContent{LinkedInDM: "  "}, board.ColumnPendingReview},
		{models.StatusOutreach, models.OutreachContent{}, board.ColumnReadyForOutreach},
		{models.StatusDraft, withOutreach, board.ColumnDrafts},
		{models.StatusApplied, models.OutreachContent{}, board.ColumnApplied},
		{models.StatusRejected, withOutreach, board.ColumnRejected},
		{models.JobStatus("interview"), models.OutreachContent{}, board.ColumnPendingReview},
	}

	for _, tt := range tests {
		job := models.Job{Status: tt.status, Outreach: tt.outreach}
		assert.Equal(t, tt.want, board.ColumnFor(job), "%s outreach=%v", tt.status, !tt.outreach.IsEmpty())
	}
}

func TestDropTargetStaysInColumn(t *testing.T) {
	for _, c := range board.Columns() {
		status, err := board.TargetStatus(c)
		require.NoError(t, err)

		for _, outreach := range []models.OutreachContent{{}, withOutreach} {
			job := models.Job{Status: status, Outreach: outreach}
			assert.Equal(t, c, board.ColumnFor(job), "drop on %s with outreach=%v", c, !outreach.IsEmpty())
		}
	}
}

func TestTargetStatusUnknownColumn(t *testing.T) {
	_, err := board.TargetStatus(board.Column("backlog"))
	assert.ErrorIs(t, err, board.ErrUnknownColumn)
}

func TestParseColumn(t *testing.T) {
	tests := map[string]board.Column{
		"pending_review":     board.ColumnPendingReview,
		"Pending Review":     board.ColumnPendingReview,
		"ready":              board.ColumnReadyForOutreach,
		"Ready for Outreach": board.ColumnReadyForOutreach,
		"ready-for-outreach": board.ColumnReadyForOutreach,
		"draft":              board.ColumnDrafts,
		"Drafts":             board.ColumnDrafts,
		"applied":            board.ColumnApplied,
		" rejected ":         board.ColumnRejected,
	}
	for in, want := range tests {
		got, err := board.ParseColumn(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := board.ParseColumn("interviewing")
	assert.ErrorIs(t, err, board.ErrUnknownColumn)
}

func TestGroupEmptyBoard(t *testing.T) {
	b := board.Group(nil)

	require.Len(t, b.Lanes, len(board.Columns()))
	for i, lane := range b.Lanes {
		assert.Equal(t, board.Columns()[i], lane.Column)
		assert.NotNil(t, lane.Jobs)
		assert.Empty(t, lane.Jobs)
	}
	assert.Equal(t, 0, b.Total())
}

func TestGroupKeepsOrder(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Status: models.StatusNew},
		{ID: "2", Status: models.StatusDraft},
		{ID: "3", Status: models.StatusMatched},
	}
	b := board.Group(jobs)

	pending := b.Lane(board.ColumnPendingReview).Jobs
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].ID)
	assert.Equal(t, "3", pending[1].ID)
	assert.Equal(t, map[board.Column]int{
		board.ColumnPendingReview:    2,
		board.ColumnReadyForOutreach: 0,
		board.ColumnDrafts:           1,
		board.ColumnApplied:          0,
		board.ColumnRejected:         0,
	}, b.Counts())
}
