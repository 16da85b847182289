package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/tui/components"
)

// Statuses shown for entries that have not reported a result yet.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSkipped = "skipped"
)

// TestRegisteredMsg announces a descriptor added while the run is in progress.
type TestRegisteredMsg struct {
	ID       string
	ParentID string
	Name     string
	Depth    int
}

// TestStartMsg indicates a descriptor has started executing.
type TestStartMsg struct {
	ID   string
	Time time.Time
}

// TestSkippedMsg reports that a descriptor was not executed.
type TestSkippedMsg struct {
	ID     string
	Reason string
}

// TestFinishedMsg reports that a descriptor has finished execution.
type TestFinishedMsg struct {
	ID       string
	Status   string
	Message  string
	Duration time.Duration
}

// RunFinishedMsg marks the end of the run.
type RunFinishedMsg struct {
	RunID string
}

type tickMsg struct{}

// Model contains the Bubbletea state for a live test run.
type Model struct {
	title          string
	tree           components.Tree
	total          int
	completed      int
	counts         map[string]int
	runID          string
	finished       bool
	cancelled      bool
	nonInteractive bool
}

// NewModel constructs a model pre-populated with every descriptor under root.
func NewModel(title string, root descriptor.Descriptor, nonInteractive bool) Model {
	m := Model{
		title:          title,
		tree:           components.NewTree(),
		counts:         make(map[string]int),
		nonInteractive: nonInteractive,
	}

	descriptor.Walk(root, func(d descriptor.Descriptor) bool {
		test := countsAsTest(d)
		m.tree.Put(components.Entry{
			ID:     d.UniqueID().String(),
			Name:   d.DisplayName(),
			Depth:  d.UniqueID().Depth(),
			Status: StatusPending,
			Test:   test,
		})
		if test {
			m.total++
		}
		return true
	})

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.nonInteractive {
		return nil
	}
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg { return tickMsg{} })
}

// Entry returns the current state of the descriptor with id.
func (m Model) Entry(id string) (components.Entry, bool) {
	return m.tree.Get(id)
}

// Total returns the number of tests known so far.
func (m Model) Total() int {
	return m.total
}

// Completed returns the number of tests that reported a final status.
func (m Model) Completed() int {
	return m.completed
}

// Finished reports whether the run has ended.
func (m Model) Finished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

func (m *Model) ensureEntry(id string) components.Entry {
	if e, ok := m.tree.Get(id); ok {
		return e
	}
	e := components.Entry{ID: id, Name: id, Status: StatusPending}
	m.tree.Put(e)
	return e
}

func (m *Model) complete(e components.Entry, status string) {
	if !e.Test || isFinal(e.Status) {
		return
	}
	m.completed++
	m.counts[status]++
}

func isFinal(status string) bool {
	switch status {
	case StatusSkipped, string(execution.StatusSuccessful), string(execution.StatusFailed), string(execution.StatusAborted):
		return true
	default:
		return false
	}
}

// countsAsTest matches descriptor.CountTests: a container-and-test counts
// only until it gains children.
func countsAsTest(d descriptor.Descriptor) bool {
	switch d.Type() {
	case descriptor.TypeTest:
		return true
	case descriptor.TypeContainerAndTest:
		return len(d.Children()) == 0
	default:
		return false
	}
}
