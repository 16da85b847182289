// Package engine runs a prepared node tree and reports progress to an
// execution listener.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/descriptor"
	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/logger"
)

// Options configures an Engine.
type Options struct {
	Parameters *config.Parameters
	Logger     *logger.Logger
}

// Engine executes test trees sequentially.
type Engine struct {
	params *config.Parameters
	logger *logger.Logger
}

// Run summarises one Execute call.
type Run struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Result   execution.Result
	Tests    int
}

// New returns an Engine. Nil parameters are replaced by an empty set.
func New(opts Options) *Engine {
	params := opts.Parameters
	if params == nil {
		params = config.Empty()
	}
	return &Engine{params: params, logger: opts.Logger}
}

// Execute walks root and its descendants. Cancelling ctx aborts every node
// not yet started; a node already running is not interrupted.
func (e *Engine) Execute(ctx context.Context, root *execution.EngineNode, listener execution.Listener) (Run, error) {
	if root == nil {
		return Run{}, fmt.Errorf("engine root is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	run := Run{ID: uuid.NewString(), Started: time.Now()}
	log := e.logger.WithFields(map[string]any{"run_id": run.ID})
	log.Info(fmt.Sprintf("starting run of %s", root.UniqueID()))

	w := &walker{ctx: ctx, logger: log}
	run.Result = w.walk(root, execution.NewRootContext(e.params, listener, log))
	run.Duration = time.Since(run.Started)
	run.Tests = descriptor.CountTests(root)

	log.Info(fmt.Sprintf("run finished: %s in %s", run.Result.Status, run.Duration.Round(time.Millisecond)))
	return run, nil
}
