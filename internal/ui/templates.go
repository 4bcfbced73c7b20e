package ui

import (
	"fmt"
	"strings"

	"github.com/khrees2412/jobhunter/pkg/models"
)

// RenderTemplates lists templates with their type
func RenderTemplates(list []models.OutreachTemplate) string {
	if len(list) == 0 {
		return Muted("No templates yet. Create one with 'jobhunter templates create'.")
	}
	var sb strings.Builder
	sb.WriteString(Title("Outreach Templates"))
	sb.WriteString("\n")
	for _, t := range list {
		fmt.Fprintf(&sb, "%s %s %s\n", mutedStyle.Render(t.ID), valueStyle.Bold(true).Render(t.Name), Muted("("+templateTypeLabel(t.Type)+")"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderTemplate shows one template and the placeholders it may use
func RenderTemplate(t models.OutreachTemplate) string {
	lines := []string{
		Title(t.Name),
		field("Type", templateTypeLabel(t.Type)),
	}
	if t.Subject != "" {
		lines = append(lines, field("Subject", t.Subject))
	}
	lines = append(lines, "", t.Body, "", Muted("Placeholders: "+strings.Join(models.TemplateVariables, " ")))
	return strings.Join(lines, "\n")
}

func templateTypeLabel(t models.TemplateType) string {
	switch t {
	case models.TemplateInitial:
		return "Initial"
	case models.TemplateFollowUp:
		return "Follow-up"
	}
	return string(t)
}
