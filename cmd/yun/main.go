package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/mgomes/yunscript/yun"
)

const (
	exitUsage   = 64
	exitFailure = 65
	exitNoInput = 66
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := runCLI(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runCLI runs the script named by args[1] and returns the process exit
// code. The script runs once when stdout is not a terminal; otherwise it
// runs in the interactive host and reruns whenever the file changes.
func runCLI(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 2 && (args[1] == "-h" || args[1] == "--help" || args[1] == "help") {
		printUsage(stdout, args[0])
		return 0
	}
	if len(args) != 2 || args[1] == "" {
		printUsage(stderr, progName(args))
		return exitUsage
	}

	script, err := openScript(args[1])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitNoInput
	}

	if isTerminal(stdout) {
		err = runInteractive(ctx, script, stdin, stdout)
	} else {
		err = runHeadless(ctx, script, stdout, stderr)
	}
	return exitCode(err, script, stderr)
}

// exitCode maps the result of a run onto the process exit code, printing
// failures to stderr.
func exitCode(err error, script *scriptFile, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exit *yun.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if errors.Is(err, context.Canceled) {
		return 0
	}
	fmt.Fprintln(stderr, yun.FormatError(err, script.Source()))
	return exitFailure
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newLogger writes text records without timestamps so that host output
// stays stable from run to run.
func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func progName(args []string) string {
	if len(args) == 0 {
		return "yun"
	}
	return args[0]
}

func printUsage(w io.Writer, prog string) {
	prog = filepath.Base(prog)
	fmt.Fprintf(w, "Usage: %s <script>\n", prog)
	fmt.Fprintln(w, "Runs the script once when output is redirected. In a terminal the")
	fmt.Fprintln(w, "script reruns whenever the file changes; press ctrl+c to quit.")
}
