package yun

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrorPolicy decides what a Runner does after a script fails.
type ErrorPolicy int

const (
	// ExitOnError stops the runner and returns the failure.
	ExitOnError ErrorPolicy = iota
	// WaitForChange reports the failure and waits for the next change.
	WaitForChange
)

// RunnerConfig wires a Runner to its host.
type RunnerConfig struct {
	// Load returns the current script source. It is called before every run.
	Load func() (string, error)
	// Policy applies to load, compile and runtime failures.
	Policy ErrorPolicy
	// Once stops the runner after the first run that ends without being
	// cancelled.
	Once bool
	// Logger defaults to the interpreter's logger.
	Logger *slog.Logger
	// Report receives failures under WaitForChange. Defaults to logging
	// them at warn level.
	Report func(error)
	// OnRun is called with the run number before each run starts.
	OnRun func(run int)
	// OnCompile sees every script that compiled, before it executes.
	OnCompile func(script *Script)
}

// Runner keeps a script running: it re-executes the script from fresh
// source whenever a change arrives, cancelling the run in progress.
type Runner struct {
	interp *Interpreter
	config RunnerConfig
}

var errNoLoader = errors.New("runner needs a Load function")

func NewRunner(interp *Interpreter, cfg RunnerConfig) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = interp.Logger()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Report == nil {
		logger := cfg.Logger
		cfg.Report = func(err error) {
			logger.Warn("script failed", "error", err)
		}
	}
	return &Runner{interp: interp, config: cfg}
}

// Run drives the script until ctx ends, Once is satisfied, the script
// exits or a failure stops it under ExitOnError. Each value received on
// changes cancels the current run and starts a new one. An exit request
// is returned as *ExitError; ctx ending is not an error.
func (r *Runner) Run(ctx context.Context, changes <-chan struct{}) error {
	if r.config.Load == nil {
		return errNoLoader
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	reload := make(chan struct{}, 1)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				r.config.Logger.Debug("source changed, cancelling run")
				r.interp.Cancel()
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		return r.loop(ctx, reload)
	})

	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, reload chan struct{}) error {
	for run := 1; ; run++ {
		if ctx.Err() != nil {
			return nil
		}
		r.interp.ClearCancel()
		drain(reload)

		if r.config.OnRun != nil {
			r.config.OnRun(run)
		}
		r.config.Logger.Debug("run started", "run", run)

		status, err := r.runOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}

		var exit *ExitError
		switch {
		case errors.As(err, &exit):
			r.config.Logger.Debug("script requested exit", "code", exit.Code)
			return exit
		case err != nil:
			if r.config.Policy == ExitOnError || r.config.Once {
				return err
			}
			r.config.Report(err)
			if !r.waitForChange(ctx, reload) {
				return nil
			}
			continue
		case status == StatusCancelled:
			r.config.Logger.Debug("run cancelled, restarting", "run", run)
			continue
		case r.config.Once:
			return nil
		}

		r.config.Logger.Debug("run completed, idling", "run", run)
		if err := r.interp.Idle(ctx, reload); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.As(err, &exit) {
				return exit
			}
			if r.config.Policy == ExitOnError {
				return err
			}
			r.config.Report(err)
			if !r.waitForChange(ctx, reload) {
				return nil
			}
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) (Status, error) {
	source, err := r.config.Load()
	if err != nil {
		return StatusFailed, err
	}
	script, err := Compile(source)
	if err != nil {
		return StatusFailed, err
	}
	if r.config.OnCompile != nil {
		r.config.OnCompile(script)
	}
	return r.interp.Execute(ctx, script)
}

func (r *Runner) waitForChange(ctx context.Context, reload <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return false
	case <-reload:
		return true
	}
}

func drain(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
