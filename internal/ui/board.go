package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/khrees2412/jobhunter/internal/board"
	"github.com/khrees2412/jobhunter/pkg/models"
)

const (
	columnWidth = 28
	cardWidth   = columnWidth - 4
)

// CardOrder returns job ids in the order RenderBoard numbers them
func CardOrder(b board.Board) []string {
	ids := make([]string, 0, b.Total())
	for _, lane := range b.Lanes {
		for _, job := range lane.Jobs {
			ids = append(ids, job.ID)
		}
	}
	return ids
}

// RenderBoard draws the Kanban columns side by side when width allows,
// stacked otherwise. Cards are numbered for the interactive commands.
// Empty columns show a placeholder and a zero count.
func RenderBoard(b board.Board, width int) string {
	n := 0
	cols := make([]string, 0, len(b.Lanes))
	for _, lane := range b.Lanes {
		cols = append(cols, renderLane(lane, &n))
	}

	if width <= 0 || width >= len(cols)*(columnWidth+2) {
		return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cols...)
}

func renderLane(lane board.Lane, n *int) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", lane.Column.Title(), len(lane.Jobs))))
	sb.WriteString("\n")

	if len(lane.Jobs) == 0 {
		sb.WriteString(mutedStyle.Render("No jobs here yet"))
	}
	for i, job := range lane.Jobs {
		*n++
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderCard(*n, job))
	}
	return columnStyle.Width(columnWidth).Render(sb.String())
}

func renderCard(n int, job models.Job) string {
	title := truncate(fmt.Sprintf("%d. %s", n, job.Title), cardWidth)
	company := truncate(job.Company, cardWidth)

	meta := ScoreText(job.MatchScore)
	if job.HasOutreach() {
		meta += " ✉"
	}
	if job.Status == models.StatusMatched || !job.Status.Valid() {
		meta += " " + mutedStyle.Render(string(job.Status))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		valueStyle.Bold(true).Render(title),
		mutedStyle.Render(company),
		meta,
	)
}
