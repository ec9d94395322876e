package diffviewer

import (
	"github.com/tfm-go/tfm/internal/difftree"
)

// reflatten rebuilds visibleNodes from the current expansion state. It
// takes the tree read lock itself (flattening only reads), so callers must
// not already hold the tree lock.
func (v *Viewer) reflatten() {
	v.mu.Lock()
	defer v.mu.Unlock()

	showIdentical := v.showIdentical
	var flat []*difftree.TreeNode
	v.tree.WithRLock(func(root *difftree.TreeNode) {
		flat = flattenVisible(root, flat, showIdentical)
	})

	v.visibleNodes = flat
	v.nodeIndex = make(map[*difftree.TreeNode]int, len(flat))
	for i, n := range flat {
		v.nodeIndex[n] = i
	}
	if v.cursor >= len(v.visibleNodes) {
		v.cursor = len(v.visibleNodes) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// flattenVisible appends every child of node that should currently be drawn:
// every child is visible, but a child's own children only appear if that
// child is a directory and expanded. When showIdentical is false, rows
// classified Identical are skipped entirely — an identical directory's
// descendants are all identical too, so nothing beneath it is lost.
func flattenVisible(node *difftree.TreeNode, out []*difftree.TreeNode, showIdentical bool) []*difftree.TreeNode {
	for _, child := range node.Children {
		if !showIdentical && child.DifferenceType == difftree.Identical {
			continue
		}
		out = append(out, child)
		if child.IsDirectory && child.IsExpanded {
			out = flattenVisible(child, out, showIdentical)
		}
	}
	return out
}

// CurrentNode returns the node at the cursor, or nil if the tree is empty.
func (v *Viewer) CurrentNode() *difftree.TreeNode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cursor < 0 || v.cursor >= len(v.visibleNodes) {
		return nil
	}
	return v.visibleNodes[v.cursor]
}

// moveCursor shifts the cursor by delta, clamped to the visible range, and
// keeps it within the scroll window.
func (v *Viewer) moveCursor(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(v.visibleNodes) {
		v.cursor = len(v.visibleNodes) - 1
	}
	v.clampScroll()
}

func (v *Viewer) clampScroll() {
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	} else if v.cursor >= v.scrollOffset+v.displayHeight {
		v.scrollOffset = v.cursor - v.displayHeight + 1
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// expandCurrent opens the node at the cursor. If its children have not been
// scanned yet, that one level is scanned synchronously (after the tree lock
// is released, since processScanTask takes it itself); the entries found are
// queued for the background workers as usual. It then queues priority scans
// for the visible directories that are still unscanned.
func (v *Viewer) expandCurrent() {
	node := v.CurrentNode()
	if node == nil || !node.IsDirectory || node.IsExpanded {
		return
	}

	var needsScan bool
	v.tree.WithLock(func(root *difftree.TreeNode) {
		node.IsExpanded = true
		needsScan = !node.ChildrenScanned && !node.ScanInProgress
		if needsScan {
			node.ScanInProgress = true
		}
	})

	if needsScan {
		v.processScanTask(difftree.ScanTask{
			LeftPath: node.LeftPath, RightPath: node.RightPath,
			RelativePath: node.RelativePath, Priority: difftree.PriorityImmediate, IsVisible: true,
		})
	}

	v.reflatten()
	v.promotePriorityForVisible()
	v.dirty.Store(true)
}

// collapseDirectory closes an already-expanded directory node in place,
// without moving the cursor.
func (v *Viewer) collapseDirectory(node *difftree.TreeNode) {
	v.tree.WithLock(func(*difftree.TreeNode) {
		node.IsExpanded = false
	})
	v.reflatten()
	v.dirty.Store(true)
}

// collapseCurrent closes the node at the cursor. If it is already collapsed
// (or a leaf), it moves the cursor to the parent instead, matching common
// file-manager left-arrow behavior.
func (v *Viewer) collapseCurrent() {
	node := v.CurrentNode()
	if node == nil {
		return
	}

	if node.IsDirectory && node.IsExpanded {
		v.collapseDirectory(node)
		return
	}

	if node.Parent != nil && node.Parent.Depth > 0 {
		v.mu.Lock()
		if idx, ok := v.nodeIndex[node.Parent]; ok {
			v.cursor = idx
			v.clampScroll()
		}
		v.mu.Unlock()
		v.dirty.Store(true)
	}
}

// expandOrDescend implements Shift+RIGHT: expand a collapsed directory, or
// move the cursor to its first visible child if it is already expanded.
func (v *Viewer) expandOrDescend() {
	node := v.CurrentNode()
	if node == nil || !node.IsDirectory {
		return
	}
	if !node.IsExpanded {
		v.expandCurrent()
		return
	}

	var firstChild *difftree.TreeNode
	v.mu.Lock()
	for _, c := range node.Children {
		if _, ok := v.nodeIndex[c]; ok {
			firstChild = c
			break
		}
	}
	if firstChild != nil {
		v.cursor = v.nodeIndex[firstChild]
		v.clampScroll()
	}
	v.mu.Unlock()
	v.dirty.Store(true)
}

// switchPane toggles which side has keyboard focus; it never moves the
// cursor or touches the tree.
func (v *Viewer) switchPane() {
	if v.activePane == PaneLeft {
		v.activePane = PaneRight
	} else {
		v.activePane = PaneLeft
	}
	v.dirty.Store(true)
}

// jumpToNonIdentical moves the cursor in the given direction (+1/-1) to the
// nearest visible node whose classification is not Identical, implementing
// Shift+UP/Shift+DOWN. It does not wrap, and leaves the cursor unchanged if
// no such node exists in that direction.
func (v *Viewer) jumpToNonIdentical(direction int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx := v.cursor
	for {
		idx += direction
		if idx < 0 || idx >= len(v.visibleNodes) {
			return
		}
		if v.visibleNodes[idx].DifferenceType != difftree.Identical {
			v.cursor = idx
			v.clampScroll()
			return
		}
	}
}

// promotePriorityForVisible pushes a scan task at visible priority onto the
// priority queue for every directory in the viewport whose children have not
// been scanned yet, implementing the viewport-priority rule
// from the concurrency model: what the user can currently see should finish
// scanning first.
func (v *Viewer) promotePriorityForVisible() {
	v.mu.Lock()
	start := v.scrollOffset
	end := start + v.displayHeight
	if end > len(v.visibleNodes) {
		end = len(v.visibleNodes)
	}
	if start > end {
		start = end
	}
	visible := append([]*difftree.TreeNode(nil), v.visibleNodes[start:end]...)
	v.mu.Unlock()

	for _, node := range visible {
		if !node.IsDirectory || node.ChildrenScanned {
			continue
		}
		v.priorityQueue.Push(difftree.ScanTask{
			LeftPath: node.LeftPath, RightPath: node.RightPath,
			RelativePath: node.RelativePath, Priority: difftree.PriorityVisible, IsVisible: true,
		}, difftree.PriorityVisible)
	}
}
