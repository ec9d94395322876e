package diffviewer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tfm-go/tfm/internal/difftree"
	"github.com/tfm-go/tfm/internal/input"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	mustMkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestViewer(t *testing.T, left, right string) *Viewer {
	t.Helper()
	v := New(nil, left, right, false)
	if err := v.StartScan(context.Background()); err != nil {
		t.Fatalf("StartScan: %v", err)
	}
	t.Cleanup(v.Shutdown)
	return v
}

func waitUntilIdle(t *testing.T, v *Viewer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v.scanQueue.Len() == 0 && v.comparisonQueue.Len() == 0 && v.priorityQueue.Len() == 0 {
			time.Sleep(20 * time.Millisecond) // let the last dequeued task finish classifying
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("viewer did not drain its queues in time")
}

func TestStartScanClassifiesTopLevelEntries(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "only_left.txt"), "a")
	mustWriteFile(t, filepath.Join(right, "only_right.txt"), "b")
	mustWriteFile(t, filepath.Join(left, "shared.txt"), "same")
	mustWriteFile(t, filepath.Join(right, "shared.txt"), "same")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.reflatten()

	byName := map[string]*difftree.TreeNode{}
	for _, n := range v.visibleNodes {
		byName[n.Name] = n
	}

	if byName["only_left.txt"].DifferenceType != difftree.OnlyLeft {
		t.Errorf("only_left.txt = %v, want OnlyLeft", byName["only_left.txt"].DifferenceType)
	}
	if byName["only_right.txt"].DifferenceType != difftree.OnlyRight {
		t.Errorf("only_right.txt = %v, want OnlyRight", byName["only_right.txt"].DifferenceType)
	}
	if byName["shared.txt"].DifferenceType != difftree.Identical {
		t.Errorf("shared.txt = %v, want Identical", byName["shared.txt"].DifferenceType)
	}
}

func TestShowIdenticalToggleHidesAndRevealsIdenticalRows(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "shared.txt"), "same")
	mustWriteFile(t, filepath.Join(right, "shared.txt"), "same")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyRune, Char: 'i'})
	if len(v.visibleNodes) != 1 {
		t.Fatalf("after enabling show-identical, visibleNodes = %d, want 1", len(v.visibleNodes))
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyRune, Char: 'i'})
	if len(v.visibleNodes) != 0 {
		t.Fatalf("after disabling show-identical, visibleNodes = %d, want 0", len(v.visibleNodes))
	}
}

func TestExpandCurrentScansSubdirectoryAndReclassifies(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "sub", "a.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "sub", "a.txt"), "2")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.SetShowIdentical(true)

	v.moveCursor(0)
	node := v.CurrentNode()
	if node == nil || node.Name != "sub" {
		t.Fatalf("expected cursor on 'sub', got %+v", node)
	}
	if !node.IsDirectory {
		t.Fatal("'sub' should be a directory")
	}

	v.expandCurrent()
	waitUntilIdle(t, v)
	v.reflatten()

	if !node.IsExpanded {
		t.Error("expandCurrent should mark the node expanded")
	}
	if len(node.Children) != 1 || node.Children[0].Name != "a.txt" {
		t.Fatalf("expected one child 'a.txt', got %+v", node.Children)
	}
	if node.Children[0].DifferenceType != difftree.ContentDifferent {
		t.Errorf("a.txt classification = %v, want ContentDifferent", node.Children[0].DifferenceType)
	}
	if node.DifferenceType != difftree.ContainsDifference {
		t.Errorf("sub classification = %v, want ContainsDifference", node.DifferenceType)
	}
}

func TestCollapseCurrentMovesToParentWhenAlreadyCollapsed(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "sub", "a.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "sub", "a.txt"), "1")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.SetShowIdentical(true)
	v.reflatten()

	v.expandCurrent()
	waitUntilIdle(t, v)
	v.reflatten()

	if len(v.visibleNodes) != 2 {
		t.Fatalf("expected sub + a.txt visible, got %d", len(v.visibleNodes))
	}

	v.moveCursor(1) // onto a.txt, a leaf
	v.collapseCurrent()

	node := v.CurrentNode()
	if node == nil || node.Name != "sub" {
		t.Fatalf("collapsing a leaf should move the cursor to its parent, got %+v", node)
	}
}

func TestPlainLeftRightSwitchesActivePaneWithoutTouchingTree(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "sub", "a.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "sub", "a.txt"), "2")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.reflatten()

	if v.activePane != PaneLeft {
		t.Fatalf("activePane = %v, want PaneLeft initially", v.activePane)
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyRight})
	if v.activePane != PaneRight {
		t.Fatalf("plain RIGHT should switch panes; activePane = %v", v.activePane)
	}
	node := v.CurrentNode()
	if node.IsExpanded {
		t.Fatal("plain RIGHT must not expand the current node")
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyLeft})
	if v.activePane != PaneLeft {
		t.Fatalf("plain LEFT should switch back; activePane = %v", v.activePane)
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyTab})
	if v.activePane != PaneRight {
		t.Fatalf("TAB should also switch panes; activePane = %v", v.activePane)
	}
}

func TestShiftRightExpandsThenDescendsToFirstChild(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "sub", "a.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "sub", "a.txt"), "2")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.SetShowIdentical(true)
	v.reflatten()

	node := v.CurrentNode()
	if node == nil || node.Name != "sub" {
		t.Fatalf("expected cursor on 'sub', got %+v", node)
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyRight, Modifiers: input.ModShift})
	waitUntilIdle(t, v)
	v.reflatten()
	if !node.IsExpanded {
		t.Fatal("Shift+RIGHT on a collapsed directory should expand it")
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyRight, Modifiers: input.ModShift})
	descended := v.CurrentNode()
	if descended == nil || descended.Name != "a.txt" {
		t.Fatalf("Shift+RIGHT on an expanded directory should move to its first child, got %+v", descended)
	}
}

func TestShiftLeftCollapsesThenAscendsToParent(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "sub", "a.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "sub", "a.txt"), "1")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.SetShowIdentical(true)
	v.reflatten()

	v.expandCurrent()
	waitUntilIdle(t, v)
	v.reflatten()

	v.moveCursor(1) // onto a.txt, a leaf
	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyLeft, Modifiers: input.ModShift})

	parent := v.CurrentNode()
	if parent == nil || parent.Name != "sub" {
		t.Fatalf("Shift+LEFT on a leaf should move to its parent, got %+v", parent)
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyLeft, Modifiers: input.ModShift})
	if parent.IsExpanded {
		t.Fatal("Shift+LEFT on an expanded directory should collapse it")
	}
}

func TestShiftUpDownJumpOverIdenticalNodes(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	mustWriteFile(t, filepath.Join(left, "a_identical.txt"), "same")
	mustWriteFile(t, filepath.Join(right, "a_identical.txt"), "same")
	mustWriteFile(t, filepath.Join(left, "b_differs.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "b_differs.txt"), "2")
	mustWriteFile(t, filepath.Join(left, "c_identical.txt"), "same")
	mustWriteFile(t, filepath.Join(right, "c_identical.txt"), "same")
	mustWriteFile(t, filepath.Join(left, "d_differs.txt"), "1")
	mustWriteFile(t, filepath.Join(right, "d_differs.txt"), "2")

	v := newTestViewer(t, left, right)
	waitUntilIdle(t, v)
	v.SetShowIdentical(true)
	v.reflatten()

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyDown, Modifiers: input.ModShift})
	node := v.CurrentNode()
	if node == nil || node.DifferenceType == difftree.Identical {
		t.Fatalf("Shift+DOWN should land on a non-identical node, got %+v", node)
	}
	first := node.Name

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyDown, Modifiers: input.ModShift})
	node = v.CurrentNode()
	if node == nil || node.DifferenceType == difftree.Identical || node.Name == first {
		t.Fatalf("second Shift+DOWN should land on the next distinct non-identical node, got %+v", node)
	}

	v.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyUp, Modifiers: input.ModShift})
	node = v.CurrentNode()
	if node == nil || node.Name != first {
		t.Fatalf("Shift+UP should return to the previous non-identical node %q, got %+v", first, node)
	}
}

func TestErrorCountReflectsComparisonErrors(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	v := New(nil, left, right, false)
	v.fileMaps.ComparisonErrors.Store("a|b", "boom")

	if got := v.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() = %d, want 1", got)
	}
}
