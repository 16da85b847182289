package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
)

// Listener turns execution events into model messages.
type Listener struct {
	execution.NopListener
	send func(tea.Msg)
}

// NewListener returns a listener that hands every message to send.
func NewListener(send func(tea.Msg)) *Listener {
	return &Listener{send: send}
}

func (l *Listener) DynamicTestRegistered(d descriptor.Descriptor) {
	msg := TestRegisteredMsg{
		ID:    d.UniqueID().String(),
		Name:  d.DisplayName(),
		Depth: d.UniqueID().Depth(),
	}
	if parent := d.Parent(); parent != nil {
		msg.ParentID = parent.UniqueID().String()
	}
	l.send(msg)
}

func (l *Listener) ExecutionStarted(d descriptor.Descriptor) {
	l.send(TestStartMsg{ID: d.UniqueID().String(), Time: time.Now()})
}

func (l *Listener) ExecutionSkipped(d descriptor.Descriptor, reason string) {
	l.send(TestSkippedMsg{ID: d.UniqueID().String(), Reason: reason})
}

func (l *Listener) ExecutionFinished(d descriptor.Descriptor, result execution.Result) {
	msg := TestFinishedMsg{
		ID:       d.UniqueID().String(),
		Status:   string(result.Status),
		Duration: result.Duration,
	}
	if result.Err != nil {
		msg.Message = result.Err.Error()
	}
	l.send(msg)
}
