package diffviewer

import (
	"context"

	"github.com/tfm-go/tfm/internal/diffscan"
	"github.com/tfm-go/tfm/internal/difftree"
	"github.com/tfm-go/tfm/internal/input"
)

// HandleKeyEvent implements the keyboard contract: UP/DOWN navigate,
// Shift+UP/DOWN jump across non-identical nodes, PageUp/PageDown/Home/End
// navigate by page/edge, plain TAB or LEFT/RIGHT (no modifier) switch the
// active pane, Shift+RIGHT/LEFT expand-or-descend / collapse-or-ascend,
// Enter expands a directory or opens a file diff, 'i' toggles identical
// rows, 'h' toggles hidden entries, '?' opens help, 'q'/Esc request close.
func (v *Viewer) HandleKeyEvent(ev input.KeyEvent) bool {
	shift := ev.Modifiers.Has(input.ModShift)

	switch ev.KeyCode {
	case input.KeyUp:
		if shift {
			v.jumpToNonIdentical(-1)
		} else {
			v.moveCursor(-1)
		}
		v.dirty.Store(true)
		return true
	case input.KeyDown:
		if shift {
			v.jumpToNonIdentical(1)
		} else {
			v.moveCursor(1)
		}
		v.dirty.Store(true)
		return true
	case input.KeyPageUp:
		v.moveCursor(-v.displayHeight)
		v.dirty.Store(true)
		return true
	case input.KeyPageDown:
		v.moveCursor(v.displayHeight)
		v.dirty.Store(true)
		return true
	case input.KeyHome:
		v.moveCursor(-len(v.visibleNodes))
		v.dirty.Store(true)
		return true
	case input.KeyEnd:
		v.moveCursor(len(v.visibleNodes))
		v.dirty.Store(true)
		return true
	case input.KeyRight:
		if shift {
			v.expandOrDescend()
		} else {
			v.switchPane()
		}
		return true
	case input.KeyLeft:
		if shift {
			v.collapseCurrent()
		} else {
			v.switchPane()
		}
		return true
	case input.KeyEnter:
		v.activateCurrent()
		return true
	case input.KeyTab:
		v.switchPane()
		return true
	case input.KeyEscape:
		v.closeRequest.Store(true)
		return true
	case input.KeyRune:
		switch ev.Char {
		case 'q':
			v.closeRequest.Store(true)
			return true
		case 'i':
			v.showIdentical = !v.showIdentical
			v.reflatten()
			v.dirty.Store(true)
			return true
		case 'h':
			v.showHidden = !v.showHidden
			v.scanner.Store(diffscan.NewScanner(v.showHidden))
			v.dirty.Store(true)
			return true
		case '?':
			if v.onPushHelp != nil {
				v.onPushHelp()
			}
			return true
		case 'j':
			v.moveCursor(1)
			v.dirty.Store(true)
			return true
		case 'k':
			v.moveCursor(-1)
			v.dirty.Store(true)
			return true
		}
	}
	return false
}

// activateCurrent implements ENTER: a directory toggles expand/collapse; a
// two-sided file opens the file diff view. A file still classified Pending
// is first compared synchronously, so its row is classified before the view
// opens.
func (v *Viewer) activateCurrent() {
	node := v.CurrentNode()
	if node == nil {
		return
	}
	if node.IsDirectory {
		if node.IsExpanded {
			v.collapseDirectory(node)
		} else {
			v.expandCurrent()
		}
		return
	}
	if node.OneSided() || v.onOpenFileDiff == nil {
		return
	}
	if node.DifferenceType == difftree.Pending {
		v.processComparisonTask(context.Background(), difftree.ComparisonTask{
			LeftPath: *node.LeftPath, RightPath: *node.RightPath, RelativePath: node.RelativePath,
		})
	}
	v.onOpenFileDiff(*node.LeftPath, *node.RightPath, node.RelativePath)
}

func (v *Viewer) HandleCharEvent(input.CharEvent) bool { return false }

func (v *Viewer) HandleMouseEvent(ev input.MouseEvent) bool {
	if ev.EventType != input.MouseButtonDown {
		return false
	}
	v.mu.Lock()
	row := ev.Row - 1 // header row occupies row 0
	idx := v.scrollOffset + row
	if idx >= 0 && idx < len(v.visibleNodes) {
		v.cursor = idx
	}
	v.mu.Unlock()
	v.dirty.Store(true)
	return true
}

func (v *Viewer) HandleSystemEvent(ev input.SystemEvent) bool {
	if ev.Kind == input.SystemResize {
		v.displayHeight = ev.Rows - 3
		if v.displayHeight < 1 {
			v.displayHeight = 1
		}
		v.mu.Lock()
		v.clampScroll()
		v.mu.Unlock()
	}
	v.dirty.Store(true)
	return true
}
