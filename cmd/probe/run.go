package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/probe/internal/config"
	"github.com/alexisbeaulieu97/probe/internal/engine"
	"github.com/alexisbeaulieu97/probe/internal/execution"
	"github.com/alexisbeaulieu97/probe/internal/listener"
	"github.com/alexisbeaulieu97/probe/internal/logger"
	"github.com/alexisbeaulieu97/probe/internal/suite"
	"github.com/alexisbeaulieu97/probe/internal/tui"
)

type runOptions struct {
	SuitePath      string
	ParamsPath     string
	Params         map[string]string
	Verbose        bool
	NonInteractive bool
	Out            io.Writer
	ErrOut         io.Writer
}

var runCmdRunner = runSuite

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}
	var noTUI bool

	cmd := &cobra.Command{
		Use:   "run <suite.yaml>",
		Short: "Run a test suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SuitePath = args[0]
			opts.Verbose = root.verbose
			opts.NonInteractive = noTUI || !term.IsTerminal(int(os.Stdout.Fd()))
			opts.Out = cmd.OutOrStdout()
			opts.ErrOut = cmd.ErrOrStderr()

			if err := validateRunOptions(opts); err != nil {
				return err
			}

			return runCmdRunner(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ParamsPath, "params", "p", "", "Path to a configuration parameters file")
	cmd.Flags().StringToStringVar(&opts.Params, "set", nil, "Override a configuration parameter (key=value)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print a plain report instead of the live view")

	return cmd
}

func runSuite(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := suite.Load(opts.SuitePath)
	if err != nil {
		return err
	}

	params, err := config.Load(config.LoadOptions{
		Defaults:  s.Parameters,
		File:      opts.ParamsPath,
		Env:       true,
		Overrides: opts.Params,
	})
	if err != nil {
		return err
	}

	log, err := newRunLogger(opts, params)
	if err != nil {
		return err
	}
	logParameters(log, params)

	root, err := suite.Build(s)
	if err != nil {
		return err
	}

	modelState := tui.NewModel(s.Name, root, opts.NonInteractive)
	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			// Closing the live view stops the run.
			cancel()
			close(done)
		}()
	}

	summary := listener.NewSummary()
	events := listener.NewComposite(
		summary,
		listener.NewLogging(log),
		tui.NewListener(func(msg tea.Msg) {
			dispatchTuiMessage(interactive, program, &modelState, msg)
		}),
	)

	run, execErr := engine.New(engine.Options{Parameters: params, Logger: log}).Execute(ctx, root, events)
	dispatchTuiMessage(interactive, program, &modelState, tui.RunFinishedMsg{RunID: run.ID})

	if interactive {
		if program != nil {
			program.Send(tea.QuitMsg{})
		}
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		fmt.Fprintln(opts.Out, modelState.View())
	}

	if execErr != nil {
		return execErr
	}

	printFailures(opts.Out, summary)

	if run.Result.Status == execution.StatusAborted && ctx.Err() != nil {
		return fmt.Errorf("run %s cancelled", run.ID)
	}
	if summary.HasFailures() {
		return fmt.Errorf("run %s failed: %s", run.ID, summary.Counts())
	}
	return nil
}

func newRunLogger(opts runOptions, params *config.Parameters) (*logger.Logger, error) {
	level := "info"
	if configured, ok := params.Get(config.LogLevelKey); ok && configured != "" {
		level = configured
	}
	if opts.Verbose {
		level = "debug"
	}

	// The live view owns the terminal; logs would corrupt it.
	var writer io.Writer = io.Discard
	if opts.NonInteractive {
		writer = opts.ErrOut
	}

	return logger.New(logger.Options{Level: level, HumanReadable: true, Writer: writer})
}

func logParameters(log *logger.Logger, params *config.Parameters) {
	if !log.Enabled(zerolog.DebugLevel) {
		return
	}
	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		log.Event(zerolog.DebugLevel, "configuration parameter", map[string]any{"key": key, "value": value})
	}
}

func printFailures(out io.Writer, summary *listener.Summary) {
	failures := summary.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(out, "\nFailures:")
	for _, f := range failures {
		fmt.Fprintf(out, "  %s\n    %s\n    %v\n", f.DisplayName, f.UniqueID, f.Err)
	}
}

func dispatchTuiMessage(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
