package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering summaries.
type SummaryData struct {
	Total     int
	Completed int
	Succeeded int
	Failed    int
	Aborted   int
	Skipped   int
	Finished  bool
	Cancelled bool
	RunID     string
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Tests: %d/%d completed", s.data.Completed, s.data.Total))
		lines = append(lines, fmt.Sprintf("%d succeeded, %d failed, %d aborted, %d skipped",
			s.data.Succeeded, s.data.Failed, s.data.Aborted, s.data.Skipped))
	}

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case s.data.Finished && s.data.Failed > 0:
		lines = append(lines, "Run finished with failures")
	case s.data.Finished:
		lines = append(lines, "Run finished successfully")
	}

	if s.data.Finished && s.data.RunID != "" {
		lines = append(lines, "Run id: "+s.data.RunID)
	}

	return strings.Join(lines, "\n")
}
