package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/pkg/models"
)

// RenderJobList renders one line per job
func RenderJobList(jobs []models.Job, total int) string {
	if len(jobs) == 0 {
		return Muted("No jobs found. Start a scan with 'jobhunter jobs scan'.")
	}

	var sb strings.Builder
	for _, job := range jobs {
		fmt.Fprintf(&sb, "%s %s at %s %s %s\n",
			mutedStyle.Render(job.ID),
			valueStyle.Bold(true).Render(job.Title),
			job.Company,
			statusBadge(job.Status),
			ScoreText(job.MatchScore),
		)
	}
	if total > len(jobs) {
		fmt.Fprintf(&sb, "%s\n", Muted(fmt.Sprintf("Showing %d of %d jobs", len(jobs), total)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderJobDetail renders everything known about one job
func RenderJobDetail(job models.Job, now time.Time) string {
	lines := []string{
		Title(job.Title),
		field("Company", job.Company),
		field("Status", fmt.Sprintf("%s (%s)", StatusLabel(job.Status), board.ColumnFor(job).Title())),
		field("Match", ScoreText(job.MatchScore)),
	}
	if job.Location != "" {
		loc := job.Location
		if job.Remote {
			loc += " (remote)"
		}
		lines = append(lines, field("Location", loc))
	}
	if s := job.SalaryText(); s != "" {
		lines = append(lines, field("Salary", s))
	}
	if job.Source != "" {
		lines = append(lines, field("Source", job.Source))
	}
	if !job.PostedAt.IsZero() {
		lines = append(lines, field("Posted", job.PostedAt.Relative(now)))
	}
	if u := job.URL(); u != "" {
		lines = append(lines, field("URL", u))
	}
	if job.MatchReasoning != "" {
		lines = append(lines, "", Label("Why it matches"), job.MatchReasoning)
	}
	if job.Description != "" {
		lines = append(lines, "", Label("Description"), truncate(strings.TrimSpace(job.Description), 1200))
	}
	if job.HasOutreach() {
		lines = append(lines, "", RenderOutreach(job.Outreach))
	}
	return strings.Join(lines, "\n")
}

// RenderOutreach renders generated outreach messages
func RenderOutreach(o models.OutreachContent) string {
	if o.IsEmpty() {
		return Muted("No outreach generated yet.")
	}
	var lines []string
	lines = append(lines, Label("Outreach"))
	if o.EmailSubject != "" {
		lines = append(lines, field("Subject", o.EmailSubject))
	}
	if o.EmailBody != "" {
		lines = append(lines, "", o.EmailBody)
	}
	if o.LinkedInDM != "" {
		lines = append(lines, "", Label("LinkedIn message"), o.LinkedInDM)
	}
	return strings.Join(lines, "\n")
}
