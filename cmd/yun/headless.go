package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mgomes/yunscript/yun"
)

var headlessDimensions = yun.Dimensions{Width: 80, Height: 24}

// runHeadless runs the script once. Print output goes to stdout, each
// render payload follows it as a YAML document and logs go to stderr.
func runHeadless(ctx context.Context, script *scriptFile, stdout, stderr io.Writer) error {
	logger := newLogger(stderr)
	pump := newPump()

	interp, err := yun.NewInterpreter(yun.Config{
		Stdout: pump.Writer(),
		Logger: logger,
		Events: pump.events,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pump.serve(ctx, &headlessHost{out: stdout, logger: logger})
	}()

	runner := yun.NewRunner(interp, yun.RunnerConfig{
		Load:      script.Load,
		Policy:    yun.ExitOnError,
		Once:      true,
		Logger:    logger,
		OnCompile: func(s *yun.Script) { logLint(logger, script.Name(), s) },
	})
	err = runner.Run(ctx, nil)

	cancel()
	wg.Wait()
	return err
}

type headlessHost struct {
	out    io.Writer
	logger *slog.Logger
}

func (h *headlessHost) Output(text string) {
	if _, err := io.WriteString(h.out, text); err != nil {
		h.logger.Warn("write output", "error", err)
	}
}

func (h *headlessHost) Render(payload yun.Value) {
	doc, err := renderYAML(payload)
	if err != nil {
		h.logger.Warn("render payload", "error", err)
		return
	}
	if _, err := fmt.Fprintf(h.out, "---\n%s\n", doc); err != nil {
		h.logger.Warn("write render", "error", err)
	}
}

func (h *headlessHost) Dimensions(context.Context) yun.Dimensions {
	return headlessDimensions
}
