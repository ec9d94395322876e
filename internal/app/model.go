// Package app bridges a Bubble Tea program to the UI layer stack: it
// adapts tea.Msg into the input package's event model, dispatches through
// the stack, and renders the stack's bottom-to-top composited frame.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tfm-go/tfm/internal/dialogs"
	"github.com/tfm-go/tfm/internal/diffviewer"
	"github.com/tfm-go/tfm/internal/input"
	"github.com/tfm-go/tfm/internal/render"
	"github.com/tfm-go/tfm/internal/uilayer"
)

// tickInterval drives redraws while background workers mutate state the
// stack has no other way to learn about (no tea.Msg is sent per scan/compare
// completion; the viewer just flips its dirty flag).
const tickInterval = 80 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the root Bubble Tea model. It owns the renderer and the layer
// stack; the viewer itself is just the bottom (and initially only) layer.
type Model struct {
	stack    *uilayer.Stack
	renderer *render.BubbleTeaRenderer
	viewer   *diffviewer.Viewer
	cancel   context.CancelFunc
	quitting bool
}

// New constructs the root model with a freshly built diff viewer as the
// base layer.
func New(viewer *diffviewer.Viewer, cancel context.CancelFunc) *Model {
	stack := uilayer.New()
	m := &Model{
		stack:    stack,
		renderer: render.NewBubbleTeaRenderer(24, 80),
		viewer:   viewer,
		cancel:   cancel,
	}

	viewer.SetCallbacks(
		func(left, right, relative string) {
			stack.Push(dialogs.NewFileDiffView(left, right, relative))
		},
		func() {
			stack.Push(dialogs.NewInfoDialog())
		},
	)

	stack.Push(viewer)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.viewer.Tick()
		m.stack.PopClosed()
		if m.stack.Len() == 0 {
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.renderer.Resize(msg.Height, msg.Width)
		m.stack.DispatchSystem(input.SystemEvent{Kind: input.SystemResize, Rows: msg.Height, Cols: msg.Width})
		return m, nil
	}

	ev, ok := input.FromTeaMsg(msg)
	if !ok {
		return m, nil
	}

	switch e := ev.(type) {
	case input.KeyEvent:
		m.stack.DispatchKey(e)
	case input.CharEvent:
		m.stack.DispatchChar(e)
	case input.MouseEvent:
		m.stack.DispatchMouse(e)
	case input.SystemEvent:
		m.stack.DispatchSystem(e)
	}

	m.stack.PopClosed()
	if m.stack.Len() == 0 {
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	m.stack.Render(m.renderer)
	return m.renderer.Render()
}
