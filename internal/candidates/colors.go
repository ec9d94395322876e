package candidates

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tfm-go/tfm/internal/render"
	"github.com/tfm-go/tfm/internal/style"
)

// Color pair IDs start at an offset clear of internal/diffviewer's 1-9
// range, since an Overlay can be composited on the same Renderer instance
// as the viewer that anchors it and pair IDs are global to that renderer.
const (
	pairBorder render.ColorPair = iota + 100
	pairFocused
)

var colorsReady bool

// initColors registers this package's palette entries once per process,
// matching the guard internal/diffviewer uses for its own pair IDs.
func initColors(r render.Renderer) {
	if colorsReady {
		return
	}
	colorsReady = true
	register := func(id render.ColorPair, c lipgloss.Color) {
		if v, ok := style.ParseHexColor(c); ok {
			r.InitColorPair(id, v, 0)
		}
	}
	register(pairBorder, style.ColorBorder)
	register(pairFocused, style.ColorSelected)
}
