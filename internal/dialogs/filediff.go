package dialogs

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tfm-go/tfm/internal/input"
	"github.com/tfm-go/tfm/internal/render"
)

// lineOp tags one row of a computed line diff.
type lineOp int

const (
	opEqual lineOp = iota
	opDelete
	opInsert
)

type diffRow struct {
	op   lineOp
	text string
}

// FileDiffView is the full-screen layer ENTER pushes for any two-sided
// file, whatever its classification. It reads both files once at construction and
// keeps the result in memory; reopening it re-reads from disk.
type FileDiffView struct {
	leftPath, rightPath string
	relativePath        string
	rows                []diffRow
	scrollOffset        int
	displayHeight       int
	closed              bool
	dirty               bool
	loadErr             error
}

// NewFileDiffView reads both files and computes a line-level diff.
func NewFileDiffView(leftPath, rightPath, relativePath string) *FileDiffView {
	v := &FileDiffView{leftPath: leftPath, rightPath: rightPath, relativePath: relativePath, displayHeight: 20, dirty: true}

	leftLines, err := readLines(leftPath)
	if err != nil {
		v.loadErr = err
		return v
	}
	rightLines, err := readLines(rightPath)
	if err != nil {
		v.loadErr = err
		return v
	}
	v.rows = diffLines(leftLines, rightLines)
	return v
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// diffLines computes a minimal-edit-script line diff using the standard
// longest-common-subsequence backtrace, then walks the LCS table to emit
// equal/delete/insert rows in original order.
func diffLines(a, b []string) []diffRow {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var rows []diffRow
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			rows = append(rows, diffRow{opEqual, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			rows = append(rows, diffRow{opDelete, a[i]})
			i++
		default:
			rows = append(rows, diffRow{opInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		rows = append(rows, diffRow{opDelete, a[i]})
	}
	for ; j < m; j++ {
		rows = append(rows, diffRow{opInsert, b[j]})
	}
	return rows
}

func (v *FileDiffView) HandleKeyEvent(ev input.KeyEvent) bool {
	switch ev.KeyCode {
	case input.KeyUp:
		v.scroll(-1)
		return true
	case input.KeyDown:
		v.scroll(1)
		return true
	case input.KeyPageUp:
		v.scroll(-v.displayHeight)
		return true
	case input.KeyPageDown:
		v.scroll(v.displayHeight)
		return true
	case input.KeyHome:
		v.scrollOffset = 0
		v.dirty = true
		return true
	case input.KeyEnd:
		v.scrollOffset = len(v.rows)
		v.dirty = true
		return true
	case input.KeyEscape:
		v.closed = true
		return true
	case input.KeyRune:
		if ev.Char == 'q' {
			v.closed = true
			return true
		}
	}
	return false
}

func (v *FileDiffView) scroll(delta int) {
	v.scrollOffset += delta
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	maxOffset := len(v.rows) - v.displayHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	v.dirty = true
}

func (v *FileDiffView) HandleCharEvent(input.CharEvent) bool  { return false }
func (v *FileDiffView) HandleMouseEvent(input.MouseEvent) bool { return false }
func (v *FileDiffView) HandleSystemEvent(ev input.SystemEvent) bool {
	if ev.Kind == input.SystemResize {
		v.displayHeight = ev.Rows - 2
		if v.displayHeight < 1 {
			v.displayHeight = 1
		}
	}
	v.dirty = true
	return true
}

func (v *FileDiffView) Render(r render.Renderer) {
	if r == nil {
		return
	}
	rows, cols := r.Dimensions()
	r.Clear()
	r.DrawText(0, 0, v.relativePath, render.DefaultColorPair, render.AttrBold)

	if v.loadErr != nil {
		r.DrawText(2, 0, v.loadErr.Error(), render.DefaultColorPair, render.AttrNormal)
		return
	}

	end := v.scrollOffset + v.displayHeight
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.scrollOffset; i < end; i++ {
		row := v.rows[i]
		y := 1 + (i - v.scrollOffset)
		if y >= rows-1 {
			break
		}
		prefix := "  "
		attrs := render.AttrNormal
		switch row.op {
		case opDelete:
			prefix = "- "
			attrs = render.AttrDim
		case opInsert:
			prefix = "+ "
			attrs = render.AttrBold
		}
		line := prefix + row.text
		if len(line) > cols {
			line = line[:cols]
		}
		r.DrawText(y, 0, line, render.DefaultColorPair, attrs)
	}
}

func (v *FileDiffView) IsFullScreen() bool { return true }
func (v *FileDiffView) NeedsRedraw() bool  { return v.dirty }
func (v *FileDiffView) MarkDirty()         { v.dirty = true }
func (v *FileDiffView) ClearDirty()        { v.dirty = false }
func (v *FileDiffView) ShouldClose() bool  { return v.closed }
func (v *FileDiffView) OnActivate()        { v.dirty = true }
func (v *FileDiffView) OnDeactivate()      {}
