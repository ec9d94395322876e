// Package candidates implements the bordered completion-candidate popup
// anchored to a text-edit field: candidate list, wrap-around focus,
// auto-scroll, and sizing/placement against the screen.
//
// Overlay is a reusable component, not itself a UILayer — it has no
// Init/Update/View of its own. Whichever text-edit-bearing layer owns a
// completion field (a jump-to-path box, a search field, and similar) embeds
// an Overlay, forwards key events to it while it is visible, and draws it
// last so it paints over whatever sits beneath the anchor point.
package candidates

import (
	"github.com/tfm-go/tfm/internal/input"
	"github.com/tfm-go/tfm/internal/render"
	"github.com/tfm-go/tfm/internal/width"
)

// maxVisibleCandidates caps how many rows the popup ever shows at once;
// beyond this a scrollbar appears instead of growing the popup further.
const maxVisibleCandidates = 10

// Overlay holds the candidate set and the popup's focus/scroll/anchor state.
type Overlay struct {
	Candidates   []string
	Visible      bool
	HasFocus     bool
	FocusedIndex int
	ScrollOffset int

	TextEditY, TextEditX int
	CompletionStartX     int
	ShowAbove            bool

	// MaxVisible, when non-zero, replaces maxVisibleCandidates as the
	// visible-window size used by scrolling, Dimensions and Render. The
	// scrollbar threshold stays maxVisibleCandidates. Tests use this to
	// exercise the scroll/clamp arithmetic at a small window size without
	// needing dozens of candidates.
	MaxVisible int
}

// Show makes the overlay visible with a fresh candidate set, anchored at the
// given text-edit position. Focus starts cleared: the first DOWN or UP moves
// it onto a candidate rather than jumping straight past one.
func (o *Overlay) Show(candidateList []string, textEditY, textEditX, completionStartX int, showAbove bool) {
	o.Candidates = candidateList
	o.Visible = len(candidateList) > 0
	o.HasFocus = false
	o.FocusedIndex = 0
	o.ScrollOffset = 0
	o.TextEditY, o.TextEditX = textEditY, textEditX
	o.CompletionStartX = completionStartX
	o.ShowAbove = showAbove
}

// Hide dismisses the overlay without applying a selection and clears focus.
func (o *Overlay) Hide() {
	o.Visible = false
	o.HasFocus = false
	o.FocusedIndex = 0
	o.ScrollOffset = 0
}

// HandleKeyEvent implements the DOWN/UP wrap-and-autoscroll contract plus
// ENTER/ESCAPE. consumed reports whether the overlay used the event at all;
// hasSelection is true only on ENTER with a focused candidate, in which case
// selected holds it. The host decides whether to hide the overlay or reopen
// it with a narrowed candidate set after a selection — Overlay itself never
// hides on ENTER.
func (o *Overlay) HandleKeyEvent(ev input.KeyEvent) (consumed bool, selected string, hasSelection bool) {
	if !o.Visible || len(o.Candidates) == 0 {
		return false, "", false
	}

	switch ev.KeyCode {
	case input.KeyDown:
		if !o.HasFocus {
			o.HasFocus = true
			o.FocusedIndex = 0
		} else if o.FocusedIndex == len(o.Candidates)-1 {
			o.FocusedIndex = 0
		} else {
			o.FocusedIndex++
		}
		o.autoScroll()
		return true, "", false

	case input.KeyUp:
		if !o.HasFocus {
			o.HasFocus = true
			o.FocusedIndex = len(o.Candidates) - 1
		} else if o.FocusedIndex == 0 {
			o.FocusedIndex = len(o.Candidates) - 1
		} else {
			o.FocusedIndex--
		}
		o.autoScroll()
		return true, "", false

	case input.KeyEnter:
		if o.HasFocus && o.FocusedIndex < len(o.Candidates) {
			return true, o.Candidates[o.FocusedIndex], true
		}
		return true, "", false

	case input.KeyEscape:
		o.Hide()
		return true, "", false
	}
	return false, "", false
}

// autoScroll clamps ScrollOffset so the focused row stays within the
// max-visible window, then clamps the offset itself to [0, len-maxVisible].
func (o *Overlay) autoScroll() {
	maxVisible := o.maxVisible()

	if o.FocusedIndex < o.ScrollOffset {
		o.ScrollOffset = o.FocusedIndex
	} else if o.FocusedIndex >= o.ScrollOffset+maxVisible {
		o.ScrollOffset = o.FocusedIndex - maxVisible + 1
	}

	maxOffset := len(o.Candidates) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if o.ScrollOffset < 0 {
		o.ScrollOffset = 0
	}
	if o.ScrollOffset > maxOffset {
		o.ScrollOffset = maxOffset
	}
}

func (o *Overlay) maxVisible() int {
	limit := maxVisibleCandidates
	if o.MaxVisible > 0 {
		limit = o.MaxVisible
	}
	if len(o.Candidates) < limit {
		return len(o.Candidates)
	}
	return limit
}

// Dimensions computes the popup's width and height: width is the longest
// candidate's display width plus 4 (the border columns and one cell of
// padding on each side), clamped to the screen; height is min(len,10)+2 for
// the top/bottom border.
func (o *Overlay) Dimensions(screenCols int) (w, h int) {
	longest := 0
	for _, c := range o.Candidates {
		if cw := width.DisplayWidth(c); cw > longest {
			longest = cw
		}
	}
	w = longest + 4
	if w > screenCols {
		w = screenCols
	}
	if w < 3 {
		w = 3
	}
	h = o.maxVisible() + 2
	return w, h
}

// Placement computes the top-left screen coordinate for the popup, flipping
// above the anchor when ShowAbove is set, and clamping to the screen so the
// popup never draws off-grid near an edge.
func (o *Overlay) Placement(screenRows, screenCols int) (y, x int) {
	w, h := o.Dimensions(screenCols)

	if o.ShowAbove {
		y = o.TextEditY - h
	} else {
		y = o.TextEditY + 1
	}
	if y < 0 {
		y = 0
	}
	if y+h > screenRows {
		y = screenRows - h
	}
	if y < 0 {
		y = 0
	}

	x = o.CompletionStartX
	if x < 0 {
		x = 0
	}
	if x+w > screenCols {
		x = screenCols - w
	}
	if x < 0 {
		x = 0
	}
	return y, x
}

// Render draws the bordered candidate list, with the focused row highlighted
// and a scrollbar along the right interior column when the candidate count
// exceeds maxVisibleCandidates.
func (o *Overlay) Render(r render.Renderer, screenRows, screenCols int) {
	if !o.Visible || r == nil || len(o.Candidates) == 0 {
		return
	}
	initColors(r)

	w, h := o.Dimensions(screenCols)
	y, x := o.Placement(screenRows, screenCols)

	r.DrawText(y, x, "╭"+repeatRune('─', w-2)+"╮", pairBorder, render.AttrNormal)
	for row := 1; row < h-1; row++ {
		r.DrawText(y+row, x, "│", pairBorder, render.AttrNormal)
		r.DrawText(y+row, x+w-1, "│", pairBorder, render.AttrNormal)
	}
	r.DrawText(y+h-1, x, "╰"+repeatRune('─', w-2)+"╯", pairBorder, render.AttrNormal)

	maxVisible := o.maxVisible()
	hasScrollbar := len(o.Candidates) > maxVisibleCandidates

	for row := 0; row < maxVisible; row++ {
		idx := o.ScrollOffset + row
		if idx >= len(o.Candidates) {
			break
		}
		pair := render.DefaultColorPair
		attrs := render.AttrNormal
		if o.HasFocus && idx == o.FocusedIndex {
			pair = pairFocused
			attrs = render.AttrReverse
		}

		innerWidth := w - 2
		if hasScrollbar {
			innerWidth--
		}
		label := width.ReduceWidth(o.Candidates[idx], innerWidth, nil, width.StrategyTruncate, width.PosRight)
		r.DrawText(y+1+row, x+1, label, pair, attrs)

		if hasScrollbar {
			ch := scrollbarGlyph(row, maxVisible, o.ScrollOffset, len(o.Candidates))
			r.DrawText(y+1+row, x+w-2, string(ch), pairBorder, render.AttrNormal)
		}
	}
}

// scrollbarGlyph picks the thumb or track character for one interior row of
// the scrollbar column, given the current scroll window.
func scrollbarGlyph(row, maxVisible, scrollOffset, total int) rune {
	thumbSize := maxVisible * maxVisible / total
	if thumbSize < 1 {
		thumbSize = 1
	}
	maxOffset := total - maxVisible
	thumbStart := 0
	if maxOffset > 0 {
		thumbStart = scrollOffset * (maxVisible - thumbSize) / maxOffset
	}
	if row >= thumbStart && row < thumbStart+thumbSize {
		return '█'
	}
	return '│'
}

func repeatRune(ch rune, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = ch
	}
	return string(out)
}
