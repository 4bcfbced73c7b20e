package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/khrees2412/jobhunter/pkg/models"
)

var tileStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("12")).
	Padding(0, 1).
	Width(22)

// Dashboard bundles what the overview shows; nil parts are skipped
type Dashboard struct {
	Stats  *models.DashboardStats
	Status *models.RunStatus
	Next   *models.NextScan
	Last   *models.LastScan
}

// RenderDashboard renders KPI tiles, agent state, activity and sources
func RenderDashboard(d Dashboard, now time.Time) string {
	var sections []string
	sections = append(sections, Title("Dashboard"))

	if d.Status != nil || d.Next != nil || d.Last != nil {
		sections = append(sections, renderAgentLine(d, now))
	}

	if d.Stats == nil {
		sections = append(sections, Muted("No statistics yet."))
		return strings.Join(sections, "\n")
	}
	s := d.Stats.Stats

	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Jobs scanned", fmt.Sprint(s.TotalJobsScanned)),
		tile("Matched", fmt.Sprint(s.MatchedJobs)),
		tile("Applications", fmt.Sprint(s.ApplicationsSent)),
	)
	tiles2 := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Pending review", fmt.Sprint(s.PendingReviews)),
		tile("Avg match", fmt.Sprintf("%.0f%%", s.AverageMatchScore*100)),
		tile("High matches", fmt.Sprint(s.HighMatchJobs)),
	)
	sections = append(sections, tiles, tiles2)

	sections = append(sections, "", Label("Recent activity"))
	if len(d.Stats.RecentActivity) == 0 {
		sections = append(sections, Muted("  Nothing yet"))
	}
	for _, a := range d.Stats.RecentActivity {
		when := a.RelativeTime
		if when == "" {
			when = a.Timestamp.Relative(now)
		}
		line := fmt.Sprintf("  %s %s", Muted(when), a.Message)
		if a.Details != "" {
			line += " " + Muted("("+a.Details+")")
		}
		sections = append(sections, line)
	}

	if len(d.Stats.TopSources) > 0 {
		sections = append(sections, "", Label("Top sources"))
		for _, src := range d.Stats.TopSources {
			sections = append(sections, fmt.Sprintf("  %-16s %d", src.Source, src.Count))
		}
	}

	if len(d.Stats.StatusBreakdown) > 0 {
		sections = append(sections, "", Label("By status"))
		keys := make([]string, 0, len(d.Stats.StatusBreakdown))
		for k := range d.Stats.StatusBreakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sections = append(sections, fmt.Sprintf("  %-16s %d", StatusLabel(models.JobStatus(k)), d.Stats.StatusBreakdown[k]))
		}
	}

	return strings.Join(sections, "\n")
}

func tile(label, value string) string {
	return tileStyle.Render(mutedStyle.Render(label) + "\n" + headerStyle.Render(value))
}

func renderAgentLine(d Dashboard, now time.Time) string {
	var parts []string
	if d.Status != nil {
		parts = append(parts, "Agent "+AgentBadge(d.Status.Status))
	}
	if d.Last != nil {
		parts = append(parts, fmt.Sprintf("Last scan %s (%d jobs)", d.Last.LastScan.Relative(now), d.Last.JobsScanned))
	}
	if d.Next != nil {
		parts = append(parts, "Next scan "+Until(d.Next.NextScan, now))
	}
	return strings.Join(parts, Muted("  |  "))
}

// Until renders a future time as "in 5m"; past or unknown times fall back
// to the relative form.
func Until(t models.Timestamp, now time.Time) string {
	if t.IsZero() {
		return "not scheduled"
	}
	d := t.Sub(now)
	switch {
	case d <= 0:
		return "due now"
	case d < time.Minute:
		return "in <1m"
	case d < time.Hour:
		return fmt.Sprintf("in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %dh", int(d.Hours()))
	}
	return fmt.Sprintf("in %dd", int(d.Hours()/24))
}
