package engine

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/probe/internal/condition"
	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/failure"
	"github.com/alexisbeaulieu97/probe/internal/logger"
)

// walker executes a node tree depth first. Dynamic children are reported by
// the strategy that creates them and are never walked.
type walker struct {
	ctx    context.Context
	logger *logger.Logger
}

func (w *walker) walk(node execution.Node, parent *execution.Context) execution.Result {
	listener := parent.Listener()

	if err := w.ctx.Err(); err != nil {
		result := execution.Aborted(failure.Abort("run cancelled: %v", err))
		w.abort(node, listener, result)
		return result
	}

	var nodeCtx *execution.Context
	var verdict condition.Result
	gate := execution.ExecuteSafely(func() error {
		var err error
		nodeCtx, err = node.Prepare(parent)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", node.UniqueID(), err)
		}
		verdict, err = node.ShouldBeSkipped(nodeCtx)
		return err
	})
	if !gate.IsSuccess() {
		w.logger.Error(gate.Err, fmt.Sprintf("node %s could not be prepared", node.UniqueID()))
		listener.ExecutionStarted(node)
		listener.ExecutionFinished(node, gate)
		return gate
	}
	if verdict.Disabled {
		w.logger.Debug(fmt.Sprintf("skipping %s: %s", node.UniqueID(), verdict.Reason))
		listener.ExecutionSkipped(node, verdict.Reason)
		return execution.Successful()
	}

	w.logger.Debug(fmt.Sprintf("executing %s", node.UniqueID()))
	listener.ExecutionStarted(node)

	// Snapshot before Execute so dynamic children are excluded.
	children := node.Children()
	collector := failure.NewCollector()
	result := execution.ExecuteSafely(func() error {
		collector.Execute(func() error { return node.Before(nodeCtx) })
		if collector.IsEmpty() {
			collector.Execute(func() error { return node.Execute(nodeCtx) })
			for _, child := range children {
				if childNode, ok := child.(execution.Node); ok {
					w.walk(childNode, nodeCtx)
				}
			}
		}
		collector.Execute(func() error { return node.After(nodeCtx) })
		return collector.AssertEmpty()
	})

	listener.ExecutionFinished(node, result)
	return result
}

// abort reports node and its static subtree as aborted without preparing
// anything.
func (w *walker) abort(node execution.Node, listener execution.Listener, result execution.Result) {
	listener.ExecutionStarted(node)
	for _, child := range node.Children() {
		if childNode, ok := child.(execution.Node); ok {
			w.abort(childNode, listener, result)
		}
	}
	listener.ExecutionFinished(node, result)
}
