package yun

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Config controls interpreter output, host wiring and execution bounds.
type Config struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives debug and warning records. Defaults to a discarding
	// logger.
	Logger *slog.Logger
	// Events carries render payloads and dimension requests to the host.
	// When nil, render is a no-op and dimensions are reported as 0x0.
	Events chan<- Event
	// Natives are host functions added to the global scope of every run.
	Natives []Native
	// RecursionLimit bounds the depth of script calls.
	RecursionLimit int
	// KeyQueueSize bounds key callbacks waiting to run.
	KeyQueueSize int
}

// Interpreter runs compiled scripts one at a time. Cancel, DispatchKey and
// the accessors are safe to call from other goroutines; Execute and Idle
// must only be called from one goroutine.
type Interpreter struct {
	config  Config
	natives map[string]Value

	cancelled atomic.Bool

	keyMu       sync.Mutex
	keyHandlers map[string]Value
	pending     chan keyPress

	last *Execution
}

type keyPress struct {
	key      string
	callback Value
}

// Status reports how a run ended.
type Status int

const (
	StatusCompleted Status = iota
	StatusCancelled
	StatusFailed
	StatusExited
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	case StatusExited:
		return "exited"
	default:
		return "unknown"
	}
}

// NewInterpreter constructs an Interpreter with defaults applied and the
// standard natives registered.
func NewInterpreter(cfg Config) (*Interpreter, error) {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 512
	}
	if cfg.KeyQueueSize <= 0 {
		cfg.KeyQueueSize = 64
	}

	interp := &Interpreter{
		config:      cfg,
		natives:     make(map[string]Value),
		keyHandlers: make(map[string]Value),
		pending:     make(chan keyPress, cfg.KeyQueueSize),
	}
	registerStandardNatives(interp)
	for _, native := range cfg.Natives {
		if err := interp.RegisterNative(native.Name, native.Arity, native.Fn); err != nil {
			return nil, err
		}
	}
	return interp, nil
}

// MustNewInterpreter is NewInterpreter that panics on error.
func MustNewInterpreter(cfg Config) *Interpreter {
	interp, err := NewInterpreter(cfg)
	if err != nil {
		panic(err)
	}
	return interp
}

// RegisterNative adds or replaces a global native function.
func (in *Interpreter) RegisterNative(name string, arity int, fn NativeFunc) error {
	if name == "" || fn == nil {
		return errInvalidNative
	}
	if arity < 0 {
		return errInvalidNative
	}
	in.natives[name] = NewNative(name, arity, fn)
	return nil
}

// Logger returns the configured logger.
func (in *Interpreter) Logger() *slog.Logger { return in.config.Logger }

// Cancel asks the running script to stop at its next statement or
// expression. The flag stays set until ClearCancel.
func (in *Interpreter) Cancel() {
	in.cancelled.Store(true)
}

// ClearCancel resets the cancellation flag before the next run.
func (in *Interpreter) ClearCancel() {
	in.cancelled.Store(false)
}

// Cancelled reports whether a cancellation is pending.
func (in *Interpreter) Cancelled() bool {
	return in.cancelled.Load()
}

// DispatchKey queues the callback the script registered for key. It never
// runs script code itself: the callback runs on the script goroutine at
// the next statement boundary, or while the runner idles. It reports
// whether a callback was queued.
func (in *Interpreter) DispatchKey(key string) bool {
	in.keyMu.Lock()
	callback, ok := in.keyHandlers[key]
	in.keyMu.Unlock()
	if !ok {
		return false
	}
	select {
	case in.pending <- keyPress{key: key, callback: callback}:
		return true
	default:
		in.config.Logger.Warn("key callback dropped", "key", key, "reason", "queue full")
		return false
	}
}

func (in *Interpreter) registerKey(key string, callback Value) {
	in.keyMu.Lock()
	in.keyHandlers[key] = callback
	in.keyMu.Unlock()
}

func (in *Interpreter) resetKeys() {
	in.keyMu.Lock()
	clear(in.keyHandlers)
	in.keyMu.Unlock()
	for {
		select {
		case <-in.pending:
		default:
			return
		}
	}
}

// Execute runs script to completion in a fresh global scope. A pending
// cancellation ends the run with StatusCancelled and no error, whatever
// the script was doing. Runtime errors are returned as *RuntimeError with
// StatusFailed and exit requests as *ExitError with StatusExited. If ctx
// ends first, ctx.Err() is returned alongside StatusCancelled.
func (in *Interpreter) Execute(ctx context.Context, script *Script) (Status, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.resetKeys()
	exec := in.newExecution(ctx, script)
	in.last = exec

	status, err := exec.run()
	if ctx.Err() != nil {
		return StatusCancelled, ctx.Err()
	}
	return status, err
}

// Run compiles and executes source in one step.
func (in *Interpreter) Run(ctx context.Context, source string) (Status, error) {
	script, err := Compile(source)
	if err != nil {
		return StatusFailed, err
	}
	return in.Execute(ctx, script)
}

// Idle services key callbacks registered by the last run until wake fires
// or ctx ends. Errors raised by a callback end the idle period.
func (in *Interpreter) Idle(ctx context.Context, wake <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
			return nil
		case press := <-in.pending:
			exec := in.last
			if exec == nil || in.Cancelled() {
				continue
			}
			if err := exec.invokeKeyCallback(press); err != nil {
				if in.Cancelled() || ctx.Err() != nil {
					continue
				}
				return err
			}
		}
	}
}
