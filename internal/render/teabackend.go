package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tfm-go/tfm/internal/width"
)

type cell struct {
	r     rune
	pair  ColorPair
	attrs TextAttribute
}

// BubbleTeaRenderer accumulates cell writes into an in-memory grid that a
// tea.Model's View() composites with lipgloss. It is the one concrete
// Renderer backend this core ships; everything else in the interface
// exists for hypothetical curses/CoreGraphics backends outside this
// module's scope.
type BubbleTeaRenderer struct {
	rows, cols int
	grid       [][]cell
	colors     map[ColorPair]lipgloss.Style
}

// NewBubbleTeaRenderer allocates a renderer sized to rows x cols.
func NewBubbleTeaRenderer(rows, cols int) *BubbleTeaRenderer {
	r := &BubbleTeaRenderer{colors: map[ColorPair]lipgloss.Style{DefaultColorPair: lipgloss.NewStyle()}}
	r.Resize(rows, cols)
	return r
}

// Resize reallocates the grid, preserving nothing (a full redraw always
// follows a resize per the UILayer stack's resize-broadcast rule).
func (r *BubbleTeaRenderer) Resize(rows, cols int) {
	r.rows, r.cols = rows, cols
	r.grid = make([][]cell, rows)
	for y := range r.grid {
		r.grid[y] = make([]cell, cols)
		for x := range r.grid[y] {
			r.grid[y][x] = cell{r: ' '}
		}
	}
}

func (r *BubbleTeaRenderer) Dimensions() (rows, cols int) { return r.rows, r.cols }

func (r *BubbleTeaRenderer) Clear() {
	for y := range r.grid {
		for x := range r.grid[y] {
			r.grid[y][x] = cell{r: ' '}
		}
	}
}

// DrawText writes text starting at (y,x), clamping silently at the right
// edge; it never writes outside the grid bounds even for a malformed call.
func (r *BubbleTeaRenderer) DrawText(y, x int, text string, pair ColorPair, attrs TextAttribute) {
	if y < 0 || y >= r.rows || x >= r.cols {
		return
	}
	col := x
	for _, ch := range text {
		if col < 0 {
			col++
			continue
		}
		if col >= r.cols {
			break
		}
		w := width.DisplayWidth(string(ch))
		if w == 0 {
			w = 1
		}
		r.grid[y][col] = cell{r: ch, pair: pair, attrs: attrs}
		col += w
	}
}

func (r *BubbleTeaRenderer) DrawHLine(y, x int, ch rune, count int, pair ColorPair) {
	if y < 0 || y >= r.rows {
		return
	}
	for i := 0; i < count; i++ {
		col := x + i
		if col < 0 || col >= r.cols {
			continue
		}
		r.grid[y][col] = cell{r: ch, pair: pair}
	}
}

func (r *BubbleTeaRenderer) Refresh() {
	// the tea.Model's View() reads the grid directly; nothing to flush here.
}

func (r *BubbleTeaRenderer) InitColorPair(id ColorPair, fgRGB, bgRGB uint32) {
	style := lipgloss.NewStyle()
	if fgRGB != 0 {
		style = style.Foreground(lipgloss.Color(rgbHex(fgRGB)))
	}
	if bgRGB != 0 {
		style = style.Background(lipgloss.Color(rgbHex(bgRGB)))
	}
	r.colors[id] = style
}

func rgbHex(rgb uint32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 7)
	b[0] = '#'
	for i := 5; i >= 0; i-- {
		b[1+i] = hexDigits[rgb&0xf]
		rgb >>= 4
	}
	return string(b)
}

// Render composites the accumulated grid into a single string suitable for
// a tea.Model's View().
func (r *BubbleTeaRenderer) Render() string {
	var b strings.Builder
	for y, row := range r.grid {
		for _, c := range row {
			style := r.colors[c.pair]
			if c.attrs&AttrBold != 0 {
				style = style.Bold(true)
			}
			if c.attrs&AttrReverse != 0 {
				style = style.Reverse(true)
			}
			if c.attrs&AttrUnderline != 0 {
				style = style.Underline(true)
			}
			if c.attrs&AttrItalic != 0 {
				style = style.Italic(true)
			}
			if c.attrs&AttrDim != 0 {
				style = style.Faint(true)
			}
			b.WriteString(style.Render(string(c.r)))
		}
		if y < len(r.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
