package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("Probe • %s", m.displayTitle()))
	sections = append(sections, title)

	progress := components.NewProgress(m.total).View(m.completed, m.counts[string(execution.StatusFailed)])
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	if entries := m.tree.Entries(); len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Tests"))
		sections = append(sections, renderEntries(entries))
	}

	summary := components.NewSummary(components.SummaryData{
		Total:     m.total,
		Completed: m.completed,
		Succeeded: m.counts[string(execution.StatusSuccessful)],
		Failed:    m.counts[string(execution.StatusFailed)],
		Aborted:   m.counts[string(execution.StatusAborted)],
		Skipped:   m.counts[StatusSkipped],
		Finished:  m.finished,
		Cancelled: m.cancelled,
		RunID:     m.runID,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderEntries(entries []components.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", entry.Depth), StatusIcon(entry.Status), entry.Name)
		if msg := strings.TrimSpace(entry.Message); msg != "" {
			line = fmt.Sprintf("%s: %s", line, firstLine(msg))
		}
		if entry.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, entry.Duration.Truncate(time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (m Model) displayTitle() string {
	if strings.TrimSpace(m.title) != "" {
		return m.title
	}
	return "Test run"
}

// StatusIcon returns the glyph representing an entry status.
func StatusIcon(status string) string {
	switch status {
	case string(execution.StatusSuccessful):
		return successStyle.Render("✓")
	case StatusRunning:
		return runningStyle.Render("⏳")
	case string(execution.StatusFailed):
		return failureStyle.Render("✗")
	case string(execution.StatusAborted):
		return abortedStyle.Render("!")
	case StatusSkipped:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
