package ui

import (
	"fmt"
	"strings"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// RenderProfile renders the profile form values. A missing user or profile
// shows the defaults a new profile starts from.
func RenderProfile(user *models.User) string {
	p := user.ProfileOrDefault()

	lines := []string{Title("Your Profile")}
	if user == nil || user.Profile == nil {
		lines = append(lines, Muted("No profile saved yet; showing defaults. Use 'jobhunter profile set' to save one."), "")
	}
	if user != nil && user.Email != "" {
		lines = append(lines, field("Email", user.Email))
	}

	lines = append(lines,
		field("Name", orDash(p.Name)),
		field("Experience", fmt.Sprintf("%d years", p.ExperienceYears)),
		field("Skills", orDash(strings.Join(p.Skills, ", "))),
		field("Keywords", orDash(strings.Join(p.Keywords, ", "))),
	)
	if p.Summary != "" {
		lines = append(lines, field("Summary", p.Summary))
	}
	if p.LinkedInURL != "" {
		lines = append(lines, field("LinkedIn", p.LinkedInURL))
	}
	if p.ResumeFileURL != "" {
		lines = append(lines, field("Resume", p.ResumeFileURL))
	}

	prefs := p.Preferences
	lines = append(lines, "", Label("Preferences"),
		field("  Location", orDash(prefs.Location)),
		field("  Remote only", yesNo(prefs.RemoteOnly)),
		field("  Auto-scan", yesNo(prefs.AutoScanEnabled)),
	)
	if prefs.SalaryMin > 0 || prefs.SalaryMax > 0 {
		lines = append(lines, field("  Salary", fmt.Sprintf("%d - %d", prefs.SalaryMin, prefs.SalaryMax)))
	}

	if len(p.WorkExperience) > 0 {
		lines = append(lines, "", Label("Work experience"))
		for _, w := range p.WorkExperience {
			period := strings.TrimSpace(w.StartDate + " - " + w.EndDate)
			lines = append(lines, fmt.Sprintf("  • %s at %s %s", w.Title, w.Company, Muted(period)))
		}
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
