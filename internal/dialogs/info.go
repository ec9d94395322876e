// Package dialogs holds the two concrete UILayer satellites pushed on top
// of the diff viewer: a help overlay and a file-content diff view.
package dialogs

import (
	"fmt"
	"strings"

	"github.com/tfm-go/tfm/internal/input"
	"github.com/tfm-go/tfm/internal/render"
)

var helpLines = []string{
	"↑/↓ or j/k    move cursor",
	"Shift+→       expand directory / go to first child",
	"enter         expand or collapse directory / open file diff",
	"Shift+←       collapse directory / go to parent",
	"PgUp/PgDn     page",
	"Home/End      jump to top/bottom",
	"Tab or ←/→    switch active pane",
	"i             toggle identical rows",
	"h             toggle hidden entries",
	"q or esc      close",
}

// InfoDialog is a small centered box, dismissed by any key. It is not
// full-screen: the diff viewer beneath it keeps rendering.
type InfoDialog struct {
	closed bool
	dirty  bool
}

// NewInfoDialog creates the help dialog.
func NewInfoDialog() *InfoDialog {
	return &InfoDialog{dirty: true}
}

func (d *InfoDialog) HandleKeyEvent(input.KeyEvent) bool {
	d.closed = true
	return true
}

func (d *InfoDialog) HandleCharEvent(input.CharEvent) bool  { return false }
func (d *InfoDialog) HandleMouseEvent(input.MouseEvent) bool { return false }
func (d *InfoDialog) HandleSystemEvent(input.SystemEvent) bool {
	d.dirty = true
	return true
}

func (d *InfoDialog) Render(r render.Renderer) {
	if r == nil {
		return
	}
	rows, cols := r.Dimensions()

	width := 0
	for _, line := range helpLines {
		if len(line) > width {
			width = len(line)
		}
	}
	width += 4
	height := len(helpLines) + 2

	y := (rows - height) / 2
	x := (cols - width) / 2
	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}

	r.DrawText(y, x, "╭"+strings.Repeat("─", width-2)+"╮", render.DefaultColorPair, render.AttrNormal)
	for i, line := range helpLines {
		r.DrawText(y+1+i, x, fmt.Sprintf("│ %-*s │", width-4, line), render.DefaultColorPair, render.AttrNormal)
	}
	r.DrawText(y+height-1, x, "╰"+strings.Repeat("─", width-2)+"╯", render.DefaultColorPair, render.AttrNormal)
}

func (d *InfoDialog) IsFullScreen() bool { return false }
func (d *InfoDialog) NeedsRedraw() bool  { return d.dirty }
func (d *InfoDialog) MarkDirty()         { d.dirty = true }
func (d *InfoDialog) ClearDirty()        { d.dirty = false }
func (d *InfoDialog) ShouldClose() bool  { return d.closed }
func (d *InfoDialog) OnActivate()        { d.dirty = true }
func (d *InfoDialog) OnDeactivate()      {}
