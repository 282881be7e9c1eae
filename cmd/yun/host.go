package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/yunscript/yun"
	"golang.org/x/sync/errgroup"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	statusStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	failureStyle = borderStyle.
			BorderForeground(errorColor)
)

const (
	maxLogLines = 1000
	// header, rule and footer rows around the panes
	chromeLines = 3
)

type lineKind int

const (
	lineOutput lineKind = iota
	lineLog
)

type hostLine struct {
	text string
	kind lineKind
}

type outputMsg struct{ text string }

type logMsg struct{ text string }

type renderMsg struct{ doc string }

type runStartedMsg struct{ run int }

type failureMsg struct{ report string }

type runnerDoneMsg struct{}

type keyDispatcher interface {
	DispatchKey(key string) bool
}

type hostModel struct {
	name        string
	keys        keyDispatcher
	size        *windowSize
	log         viewport.Model
	lines       []hostLine
	payload     string
	failure     string
	run         int
	lastKey     string
	width       int
	height      int
	quitting    bool
	initialized bool
}

type keyMap struct {
	Quit     key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear log"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll down"),
	),
}

func newHostModel(name string, dispatcher keyDispatcher, size *windowSize) hostModel {
	return hostModel{
		name: name,
		keys: dispatcher,
		size: size,
		log:  viewport.New(0, 0),
	}
}

func (m hostModel) Init() tea.Cmd {
	return nil
}

func (m hostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.size.set(yun.Dimensions{Width: msg.Width, Height: msg.Height})
		m.initialized = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.lines = nil
			m.refreshLog()
		case key.Matches(msg, keys.PageUp):
			m.log.PageUp()
		case key.Matches(msg, keys.PageDown):
			m.log.PageDown()
		default:
			m.lastKey = keyName(msg)
			m.keys.DispatchKey(m.lastKey)
		}
		return m, nil

	case outputMsg:
		m.appendLines(msg.text, lineOutput)
	case logMsg:
		m.appendLines(msg.text, lineLog)
	case renderMsg:
		m.payload = msg.doc
	case runStartedMsg:
		m.run = msg.run
		m.failure = ""
		m.layout()
	case failureMsg:
		m.failure = msg.report
		m.layout()
	case runnerDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// keyName maps a key press onto the name scripts pass to onKey.
func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

func (m *hostModel) appendLines(text string, kind lineKind) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		m.lines = append(m.lines, hostLine{text: line, kind: kind})
	}
	if extra := len(m.lines) - maxLogLines; extra > 0 {
		m.lines = append([]hostLine(nil), m.lines[extra:]...)
	}
	m.refreshLog()
}

func (m *hostModel) refreshLog() {
	follow := m.log.AtBottom()
	rendered := make([]string, len(m.lines))
	for i, line := range m.lines {
		if line.kind == lineLog {
			rendered[i] = mutedStyle.Render(line.text)
			continue
		}
		rendered[i] = line.text
	}
	m.log.SetContent(strings.Join(rendered, "\n"))
	if follow {
		m.log.GotoBottom()
	}
}

func (m *hostModel) layout() {
	if !m.initialized {
		return
	}
	failureHeight := 0
	if m.failure != "" {
		failureHeight = lipgloss.Height(m.failureView())
	}
	m.log.Width = max(m.width*3/5, 10)
	m.log.Height = max(m.height-chromeLines-failureHeight, 3)
	m.refreshLog()
}

func (m hostModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("yun") + " " + mutedStyle.Render(m.name) + "  " + m.statusView()
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(m.width-2, 1))) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.log.View(), m.payloadView()) + "\n")
	if m.failure != "" {
		b.WriteString(m.failureView() + "\n")
	}

	footer := ""
	for _, binding := range []key.Binding{keys.PageUp, keys.PageDown, keys.Clear, keys.Quit} {
		help := binding.Help()
		footer += helpKeyStyle.Render(help.Key) + helpDescStyle.Render(" "+help.Desc+"  ")
	}
	if m.lastKey != "" {
		footer += mutedStyle.Render("last key: " + m.lastKey)
	}
	b.WriteString(footer)

	return b.String()
}

func (m hostModel) statusView() string {
	switch {
	case m.failure != "":
		return errorStyle.Render(fmt.Sprintf("run %d failed, waiting for changes", m.run))
	case m.run == 0:
		return mutedStyle.Render("starting")
	default:
		return statusStyle.Render(fmt.Sprintf("run %d", m.run))
	}
}

func (m hostModel) payloadView() string {
	content := m.payload
	if content == "" {
		content = mutedStyle.Render("nothing rendered yet")
	}
	width := max(m.width-m.log.Width-4, 10)
	return borderStyle.
		Width(width).
		MaxHeight(max(m.log.Height, 3)).
		Render(content)
}

func (m hostModel) failureView() string {
	return failureStyle.Width(max(m.width-4, 10)).Render(m.failure)
}

// windowSize holds the terminal size for dimension queries from the
// script goroutine.
type windowSize struct {
	mu    sync.Mutex
	dims  yun.Dimensions
	known chan struct{}
	once  sync.Once
}

func newWindowSize() *windowSize {
	return &windowSize{known: make(chan struct{})}
}

func (s *windowSize) set(dims yun.Dimensions) {
	s.mu.Lock()
	s.dims = dims
	s.mu.Unlock()
	s.once.Do(func() { close(s.known) })
}

// wait returns the size once the terminal has reported one.
func (s *windowSize) wait(ctx context.Context) yun.Dimensions {
	select {
	case <-s.known:
	case <-ctx.Done():
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dims
}

type teaHost struct {
	send func(tea.Msg)
	size *windowSize
}

func (h teaHost) Output(text string) {
	h.send(outputMsg{text: text})
}

func (h teaHost) Render(payload yun.Value) {
	doc, err := renderYAML(payload)
	if err != nil {
		h.send(logMsg{text: "render failed: " + err.Error()})
		return
	}
	h.send(renderMsg{doc: doc})
}

func (h teaHost) Dimensions(ctx context.Context) yun.Dimensions {
	return h.size.wait(ctx)
}

// logQueue carries log records to the program without blocking the
// writer, since records may be written from inside Update. Records are
// dropped when the queue is full.
type logQueue chan string

func (q logQueue) Write(b []byte) (int, error) {
	select {
	case q <- string(b):
	default:
	}
	return len(b), nil
}

func (q logQueue) forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-q:
			send(logMsg{text: text})
		}
	}
}

// runInteractive runs the script under a full-screen host until the user
// quits or the script exits. Failures are shown and the script reruns
// when the file changes.
func runInteractive(ctx context.Context, script *scriptFile, stdin io.Reader, stdout io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program
	send := func(msg tea.Msg) { program.Send(msg) }

	logs := make(logQueue, 256)
	logger := newLogger(logs)
	size := newWindowSize()
	pump := newPump()

	interp, err := yun.NewInterpreter(yun.Config{
		Stdout: pump.Writer(),
		Logger: logger,
		Events: pump.events,
	})
	if err != nil {
		return err
	}

	program = tea.NewProgram(
		newHostModel(script.Name(), interp, size),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(stdin),
		tea.WithOutput(stdout),
	)

	changes := make(chan struct{})
	watcher, err := newScriptWatcher(script.path, logger)
	if err != nil {
		logger.Warn("live reload disabled", "error", err)
	}

	runner := yun.NewRunner(interp, yun.RunnerConfig{
		Load:   script.Load,
		Policy: yun.WaitForChange,
		Logger: logger,
		Report: func(err error) {
			send(failureMsg{report: yun.FormatError(err, script.Source())})
		},
		OnRun:     func(run int) { send(runStartedMsg{run: run}) },
		OnCompile: func(s *yun.Script) { logLint(logger, script.Name(), s) },
	})

	var runErr error
	var g errgroup.Group
	g.Go(func() error {
		logs.forward(ctx, send)
		return nil
	})
	g.Go(func() error {
		pump.serve(ctx, teaHost{send: send, size: size})
		return nil
	})
	if watcher != nil {
		g.Go(func() error {
			watcher.run(ctx, changes)
			return nil
		})
	}
	g.Go(func() error {
		runErr = runner.Run(ctx, changes)
		send(runnerDoneMsg{})
		return nil
	})

	_, err = program.Run()
	cancel()
	_ = g.Wait()

	if runErr != nil {
		return runErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal host: %w", err)
	}
	return nil
}
