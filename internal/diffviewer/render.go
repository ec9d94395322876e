package diffviewer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/tfm-go/tfm/internal/difftree"
	"github.com/tfm-go/tfm/internal/render"
	"github.com/tfm-go/tfm/internal/width"
)

var colorsReady bool

// Render draws the header, the two-pane tree listing, and the status bar.
// It is a full-screen layer: it always owns the entire grid.
func (v *Viewer) Render(r render.Renderer) {
	if r == nil {
		return
	}
	if !colorsReady {
		initColors(r)
		colorsReady = true
	}

	// Background scanner/comparator workers mutate the tree without ever
	// touching visibleNodes directly; re-flatten on every draw so newly
	// discovered children and updated classifications show up promptly.
	v.reflatten()

	rows, cols := r.Dimensions()
	r.Clear()

	left := v.leftRoot
	right := v.rightRoot
	header := fmt.Sprintf("%s  vs  %s", left, right)
	r.DrawText(0, 0, width.ReduceWidth(header, cols, nil, width.StrategyTruncate, width.PosRight), pairTitle, render.AttrBold)

	v.mu.Lock()
	start := v.scrollOffset
	end := start + v.displayHeight
	if end > len(v.visibleNodes) {
		end = len(v.visibleNodes)
	}
	cursor := v.cursor
	rowsToShow := append([]*difftree.TreeNode(nil), v.visibleNodes[start:end]...)
	v.mu.Unlock()

	for i, node := range rowsToShow {
		y := 1 + i
		if y >= rows-1 {
			break
		}
		v.renderRow(r, y, cols, node, start+i == cursor)
	}

	v.renderStatusBar(r, rows-1, cols)
}

func (v *Viewer) renderRow(r render.Renderer, y, cols int, node *difftree.TreeNode, selected bool) {
	indent := node.Depth * 2
	marker := " "
	if node.IsDirectory {
		if node.IsExpanded {
			marker = "▾"
		} else {
			marker = "▸"
		}
	}

	label := fmt.Sprintf("%*s%s %s", indent, "", marker, node.Name)
	sideMarker := sideIndicator(node)
	label = label + sideMarker

	attrs := render.AttrNormal
	pair := colorForDifference(node.DifferenceType)
	if selected {
		attrs |= render.AttrReverse
		pair = pairSelected
	}

	shortened := width.ReduceWidth(label, cols, nil, width.StrategyTruncate, width.PosRight)
	r.DrawText(y, 0, shortened, pair, attrs)
}

func sideIndicator(node *difftree.TreeNode) string {
	switch node.DifferenceType {
	case difftree.OnlyLeft:
		return "  <"
	case difftree.OnlyRight:
		return "  >"
	case difftree.ContentDifferent:
		return "  *"
	case difftree.Pending:
		return "  …"
	default:
		return ""
	}
}

func (v *Viewer) renderStatusBar(r render.Renderer, y, cols int) {
	state := "scanning"
	if v.status_() == statusScanning {
		frames := spinner.Dot.Frames
		state = frames[v.spinnerFrame%len(frames)] + " scanning"
	}
	switch v.status_() {
	case statusIdle:
		state = "idle"
	case statusCancelling:
		state = "closing"
	case statusError:
		state = "error"
	}

	pane := "left"
	if v.activePane == PaneRight {
		pane = "right"
	}

	status := fmt.Sprintf(" %s | pane:%s | Errors: %d | scan:%d compare:%d ",
		state, pane, v.ErrorCount(), v.scanQueue.Len(), v.comparisonQueue.Len())
	if msg := v.scanErr.Load(); msg != nil {
		status = fmt.Sprintf(" error: %s ", *msg)
	}

	shortened := width.ReduceWidth(status, cols, nil, width.StrategyTruncate, width.PosRight)
	r.DrawText(y, 0, shortened, pairMuted, render.AttrDim)
}

func (v *Viewer) IsFullScreen() bool { return true }

func (v *Viewer) NeedsRedraw() bool { return v.dirty.Load() }

func (v *Viewer) MarkDirty() { v.dirty.Store(true) }

func (v *Viewer) ClearDirty() { v.dirty.Store(false) }

func (v *Viewer) ShouldClose() bool { return v.closeRequest.Load() }

func (v *Viewer) OnActivate() { v.dirty.Store(true) }

func (v *Viewer) OnDeactivate() {}
