// Package uilayer implements the UI Layer Stack: an ordered stack of
// UILayer objects that routes events top-down, renders bottom-up starting
// from the topmost full-screen layer, and honors each layer's dirty and
// should-close state between frames.
package uilayer

import (
	"github.com/tfm-go/tfm/internal/input"
	"github.com/tfm-go/tfm/internal/render"
)

// UILayer is the contract every pushed layer must satisfy.
type UILayer interface {
	HandleKeyEvent(input.KeyEvent) bool
	HandleCharEvent(input.CharEvent) bool
	HandleMouseEvent(input.MouseEvent) bool
	HandleSystemEvent(input.SystemEvent) bool
	Render(r render.Renderer)
	IsFullScreen() bool
	NeedsRedraw() bool
	MarkDirty()
	ClearDirty()
	ShouldClose() bool
	OnActivate()
	OnDeactivate()
}

// Stack is the ordered layer stack, bottom at index 0.
type Stack struct {
	layers []UILayer
}

// New returns an empty stack.
func New() *Stack { return &Stack{} }

// Push adds a new top layer and activates it (deactivating the previous
// top, if any).
func (s *Stack) Push(layer UILayer) {
	if len(s.layers) > 0 {
		s.layers[len(s.layers)-1].OnDeactivate()
	}
	s.layers = append(s.layers, layer)
	layer.OnActivate()
}

// Top returns the topmost layer, or nil if the stack is empty.
func (s *Stack) Top() UILayer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Len reports how many layers are on the stack.
func (s *Stack) Len() int { return len(s.layers) }

// DispatchKey offers the event to the topmost layer first, then the next
// layer down, until one returns true.
func (s *Stack) DispatchKey(ev input.KeyEvent) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].HandleKeyEvent(ev) {
			return true
		}
	}
	return false
}

// DispatchChar offers a char event top-down.
func (s *Stack) DispatchChar(ev input.CharEvent) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].HandleCharEvent(ev) {
			return true
		}
	}
	return false
}

// DispatchMouse offers a mouse event top-down.
func (s *Stack) DispatchMouse(ev input.MouseEvent) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].HandleMouseEvent(ev) {
			return true
		}
	}
	return false
}

// DispatchSystem is special: every layer receives it top-to-bottom, and
// afterward every layer is marked dirty regardless of its consumed flag.
func (s *Stack) DispatchSystem(ev input.SystemEvent) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		s.layers[i].HandleSystemEvent(ev)
	}
	for _, l := range s.layers {
		l.MarkDirty()
	}
}

// Render finds the topmost full-screen layer (or the bottom of the stack if
// none is full-screen) and renders upward from there, skipping a layer only
// if it needs no redraw and nothing below it redrew either. Every rendered
// layer has ClearDirty called afterward.
func (s *Stack) Render(r render.Renderer) {
	if len(s.layers) == 0 {
		return
	}
	start := 0
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i].IsFullScreen() {
			start = i
			break
		}
	}

	belowRedrew := false
	for i := start; i < len(s.layers); i++ {
		layer := s.layers[i]
		if !layer.NeedsRedraw() && !belowRedrew {
			continue
		}
		layer.Render(r)
		layer.ClearDirty()
		belowRedrew = true
	}
}

// PopClosed removes every layer whose ShouldClose is true, in LIFO order.
// Each pop calls OnDeactivate on the popped layer and OnActivate on the
// layer that becomes the new top (which may itself be popped on the next
// iteration if it also reports ShouldClose).
func (s *Stack) PopClosed() {
	for len(s.layers) > 0 && s.layers[len(s.layers)-1].ShouldClose() {
		top := s.layers[len(s.layers)-1]
		s.layers = s.layers[:len(s.layers)-1]
		top.OnDeactivate()
		if len(s.layers) > 0 {
			s.layers[len(s.layers)-1].OnActivate()
		}
	}
}
