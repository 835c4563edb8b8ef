package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"surveycharts/internal/config"
	"surveycharts/internal/operations"
	"surveycharts/internal/survey"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

var statusColors = map[operations.StepStatus]lipgloss.Color{
	operations.StepStatusCompleted: lipgloss.Color("#2ca02c"),
	operations.StepStatusFailed:    lipgloss.Color("#d62728"),
	operations.StepStatusSkipped:   lipgloss.Color("#888888"),
	operations.StepStatusPending:   lipgloss.Color("#AAAAAA"),
	operations.StepStatusActive:    lipgloss.Color("#ff7f0e"),
}

// renderSummary formats the end-of-run report for the console
func renderSummary(result *operations.Result, paths *config.Paths) string {
	if result == nil {
		return ""
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("%s run %s", config.AppName, result.ID))}
	for _, s := range result.Steps {
		status := lipgloss.NewStyle().Foreground(statusColors[s.Status]).Render(fmt.Sprintf("%-10s", s.Status))
		line := fmt.Sprintf("%-18s %s %8s", s.Name, status, formatDuration(s))
		if s.Message != "" {
			line += "  " + mutedStyle.Render(s.Message)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "",
		fmt.Sprintf("Sources: %d  Questions: %d", result.Sources, result.Questions),
		fmt.Sprintf("Charts: %d question, %d category, %d global",
			len(result.Charts[survey.ScopeQuestion]),
			len(result.Charts[survey.ScopeCategory]),
			len(result.Charts[survey.ScopeGlobal])))
	if paths != nil {
		lines = append(lines, mutedStyle.Render("Output: "+paths.ChartsDir))
	}
	if len(result.SummaryFiles) > 0 {
		lines = append(lines, mutedStyle.Render("Summary: "+strings.Join(result.SummaryFiles, ", ")))
	}
	lines = append(lines, fmt.Sprintf("Status: %s in %s", result.Status, result.Duration.Round(time.Millisecond)))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatDuration(s *operations.StepState) string {
	if s.StartTime == nil {
		return "-"
	}
	return s.Duration().Round(time.Millisecond).String()
}
