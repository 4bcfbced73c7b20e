package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// RenderTimeline renders agent steps, newest first as delivered
func RenderTimeline(entries []models.TimelineEntry, now time.Time) string {
	if len(entries) == 0 {
		return Muted("No agent activity yet.")
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-10s %s", Muted(e.Timestamp.Relative(now)), titleCase(e.Step))
		if meta := formatMetadata(e.Metadata); meta != "" {
			fmt.Fprintf(&sb, " %s", Muted(meta))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatMetadata(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// RenderHistory renders past scan runs
func RenderHistory(runs []models.ScanRun, now time.Time) string {
	if len(runs) == 0 {
		return Muted("No scans have run yet.")
	}
	var sb strings.Builder
	for _, r := range runs {
		status := r.Status
		switch status {
		case "completed":
			status = successStyle.Render(status)
		case "failed":
			status = errorStyle.Render(status)
		default:
			status = warnStyle.Render(status)
		}
		fmt.Fprintf(&sb, "%-10s %s found %d, matched %d, avg %.0f%%",
			Muted(r.StartedAt.Relative(now)), status, r.JobsFound, r.JobsMatched, r.AvgScore*100)
		if len(r.Sources) > 0 {
			fmt.Fprintf(&sb, " %s", Muted("["+strings.Join(r.Sources, ", ")+"]"))
		}
		if r.Error != "" {
			fmt.Fprintf(&sb, " %s", errorStyle.Render(r.Error))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
