package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/probe/internal/tui/components"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case TestRegisteredMsg:
		if _, exists := m.tree.Get(msg.ID); exists {
			return m, nil
		}
		if parent, ok := m.tree.Get(msg.ParentID); ok && parent.Test {
			parent.Test = false
			m.tree.Put(parent)
			m.total--
		}
		m.tree.PutUnder(msg.ParentID, components.Entry{
			ID:     msg.ID,
			Name:   msg.Name,
			Depth:  msg.Depth,
			Status: StatusPending,
			Test:   true,
		})
		m.total++
		return m, nil
	case TestStartMsg:
		e := m.ensureEntry(msg.ID)
		e.Status = StatusRunning
		m.tree.Put(e)
		return m, nil
	case TestSkippedMsg:
		e := m.ensureEntry(msg.ID)
		m.complete(e, StatusSkipped)
		e.Status = StatusSkipped
		e.Message = msg.Reason
		m.tree.Put(e)
		return m, nil
	case TestFinishedMsg:
		e := m.ensureEntry(msg.ID)
		m.complete(e, msg.Status)
		e.Status = msg.Status
		e.Message = msg.Message
		e.Duration = msg.Duration
		m.tree.Put(e)
		return m, nil
	case RunFinishedMsg:
		m.runID = msg.RunID
		m.finished = true
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
