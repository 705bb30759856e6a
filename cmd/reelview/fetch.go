package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchFunc performs one request and renders its result.
type fetchFunc func(ctx context.Context) (string, error)

// runFetch shows a spinner while fetch runs and prints the rendered result to out.
func runFetch(out io.Writer, label string, fetch fetchFunc) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return fetchAndPrint(ctx, out, label, fetch)
}

// fetchAndPrint runs the spinner program and writes the result once the
// program has exited. The renderer only keeps what fits on screen, so the
// result never goes through View.
func fetchAndPrint(ctx context.Context, out io.Writer, label string, fetch fetchFunc, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(newFetchModel(ctx, label, fetch), opts...)
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", label, err)
	}

	fm, ok := m.(fetchModel)
	if !ok {
		return fmt.Errorf("unexpected model type from tea program")
	}
	if fm.err != nil {
		return fm.err
	}
	if !fm.done {
		return fmt.Errorf("%s: interrupted", label)
	}
	if _, err := io.WriteString(out, fm.output); err != nil {
		return fmt.Errorf("write %s: %w", label, err)
	}
	return nil
}

// fetchResultMsg carries the rendered result back to the TUI.
type fetchResultMsg struct {
	output string
	err    error
}

// fetchModel is a one-shot spinner around a single request.
type fetchModel struct {
	ctx     context.Context
	label   string
	fetch   fetchFunc
	spinner spinner.Model
	output  string
	err     error
	done    bool
}

func newFetchModel(ctx context.Context, label string, fetch fetchFunc) fetchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return fetchModel{
		ctx:     ctx,
		label:   label,
		fetch:   fetch,
		spinner: s,
	}
}

func (m fetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run())
}

func (m fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case fetchResultMsg:
		m.output = msg.output
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m fetchModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + styleDim.Render(" Loading "+m.label+"...") + "\n"
}

func (m fetchModel) run() tea.Cmd {
	return func() tea.Msg {
		out, err := m.fetch(m.ctx)
		return fetchResultMsg{output: out, err: err}
	}
}
