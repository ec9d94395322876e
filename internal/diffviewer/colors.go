package diffviewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tfm-go/tfm/internal/difftree"
	"github.com/tfm-go/tfm/internal/render"
	"github.com/tfm-go/tfm/internal/style"
)

// Color pair IDs initialized once against whatever Renderer the viewer is
// handed. 0 is reserved as the renderer's default pair.
const (
	pairIdentical render.ColorPair = iota + 1
	pairOnlyLeft
	pairOnlyRight
	pairDiffer
	pairPending
	pairBorder
	pairSelected
	pairMuted
	pairTitle
)

// initColors registers every palette entry the viewer draws with.
func initColors(r render.Renderer) {
	register := func(id render.ColorPair, c lipgloss.Color) {
		if v, ok := style.ParseHexColor(c); ok {
			r.InitColorPair(id, v, 0)
		}
	}
	register(pairIdentical, style.ColorIdentical)
	register(pairOnlyLeft, style.ColorOnlyLeft)
	register(pairOnlyRight, style.ColorOnlyRight)
	register(pairDiffer, style.ColorDiffer)
	register(pairPending, style.ColorPending)
	register(pairBorder, style.ColorBorder)
	register(pairSelected, style.ColorSelected)
	register(pairMuted, style.ColorMuted)
	register(pairTitle, style.ColorTitle)
}

// colorForDifference maps a classification to its registered color pair.
func colorForDifference(d difftree.DifferenceType) render.ColorPair {
	switch d {
	case difftree.OnlyLeft:
		return pairOnlyLeft
	case difftree.OnlyRight:
		return pairOnlyRight
	case difftree.ContentDifferent, difftree.ContainsDifference:
		return pairDiffer
	case difftree.Pending:
		return pairPending
	default:
		return pairIdentical
	}
}
