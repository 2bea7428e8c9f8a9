package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Styles
var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				MarginTop(1)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")).
				Bold(true)

	highStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	mediumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	lowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Summary renders the styled console summary for a report. It is written
// to stderr by the command layer; stdout stays reserved for machine
// output.
func Summary(report *Report) string {
	counts := report.Count()
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Readiness assessment for tenant %s", report.TenantID)))
	b.WriteString("\n\n")

	b.WriteString(summaryLabelStyle.Render("Findings") + "\n")
	b.WriteString(fmt.Sprintf("  %s  %d\n", highStyle.Render("High  "), counts.ByPriority[domain.PriorityHigh]))
	b.WriteString(fmt.Sprintf("  %s  %d\n", mediumStyle.Render("Medium"), counts.ByPriority[domain.PriorityMedium]))
	b.WriteString(fmt.Sprintf("  %s  %d\n", lowStyle.Render("Low   "), counts.ByPriority[domain.PriorityLow]))
	b.WriteString(fmt.Sprintf("  Info    %d\n", counts.ByPriority[domain.PriorityNone]))

	b.WriteString("\n" + summaryLabelStyle.Render("Status") + "\n")
	for _, status := range []domain.Status{
		domain.StatusCompliant, domain.StatusWarning,
		domain.StatusNotConfigured, domain.StatusPendingInput,
	} {
		if n := counts.ByStatus[status]; n > 0 {
			b.WriteString(fmt.Sprintf("  %-14s %d\n", status, n))
		}
	}

	if len(report.Unassessed) > 0 {
		b.WriteString("\n" + summaryLabelStyle.Render("Skipped areas") + "\n")
		for _, area := range report.Areas {
			if reason, ok := report.Unassessed[area]; ok {
				b.WriteString(skippedStyle.Render(fmt.Sprintf("  %s: %s", area.DisplayName(), reason)) + "\n")
			}
		}
	}

	return b.String()
}
