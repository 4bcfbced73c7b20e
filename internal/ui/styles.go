// Package ui renders backend data for the terminal with lipgloss.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/khrees2412/jobhunter/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))
)

// Title renders a section heading
func Title(s string) string {
	return titleStyle.Render(s)
}

// Label renders a field label
func Label(s string) string {
	return labelStyle.Render(s)
}

// Success renders a confirmation line
func Success(s string) string {
	return successStyle.Render("✓ " + s)
}

// Muted renders secondary text
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// titleCase converts a string to title case using proper locale-aware capitalization
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func field(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), valueStyle.Render(value))
}

// StatusLabel is the human form of a job status
func StatusLabel(s models.JobStatus) string {
	if s == "" {
		return "Unknown"
	}
	return titleCase(string(s))
}

func statusColor(s models.JobStatus) lipgloss.Color {
	switch s {
	case models.StatusNew:
		return lipgloss.Color("7")
	case models.StatusMatched:
		return lipgloss.Color("14")
	case models.StatusOutreach:
		return lipgloss.Color("13")
	case models.StatusDraft:
		return lipgloss.Color("11")
	case models.StatusApplied:
		return lipgloss.Color("10")
	case models.StatusRejected:
		return lipgloss.Color("9")
	}
	return lipgloss.Color("8")
}

func statusBadge(s models.JobStatus) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Render("[" + StatusLabel(s) + "]")
}

// AgentBadge renders the agent state indicator
func AgentBadge(s models.AgentStatus) string {
	switch s {
	case models.AgentRunning:
		return successStyle.Render("● Running")
	case models.AgentPaused:
		return warnStyle.Render("● Paused")
	case models.AgentIdle:
		return mutedStyle.Render("● Idle")
	}
	if s == "" {
		return mutedStyle.Render("● Unknown")
	}
	return mutedStyle.Render("● " + titleCase(string(s)))
}

// ScoreText renders a 0..1 match score as a percentage
func ScoreText(score *float64) string {
	if score == nil {
		return "—"
	}
	pct := *score * 100
	text := fmt.Sprintf("%.0f%%", pct)
	switch {
	case pct >= 80:
		return successStyle.Render(text)
	case pct >= 60:
		return warnStyle.Render(text)
	}
	return mutedStyle.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
