package candidates

import (
	"testing"

	"github.com/tfm-go/tfm/internal/input"
)

func down(o *Overlay) { o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyDown}) }
func up(o *Overlay)   { o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyUp}) }

// TestScenarioS7WrapAroundFocusAndAutoScroll: an overlay with 5 candidates,
// max_visible clamped to 3, and no initial focus. Down focuses candidate 0
// (scroll 0). Up from there wraps to candidate 4 (scroll 2). A second Up
// moves to candidate 3, which is still inside the 2..4 window, so the scroll
// offset stays 2. Down moves to candidate 4, a further Down wraps back to
// candidate 0, and the scroll offset returns to 0.
func TestScenarioS7WrapAroundFocusAndAutoScroll(t *testing.T) {
	o := &Overlay{MaxVisible: 3}
	o.Show([]string{"alpha", "bravo", "charlie", "delta", "echo"}, 5, 2, 2, false)

	down(o)
	if !o.HasFocus || o.FocusedIndex != 0 {
		t.Fatalf("after Down: HasFocus=%v FocusedIndex=%d, want true/0", o.HasFocus, o.FocusedIndex)
	}
	if o.ScrollOffset != 0 {
		t.Fatalf("scroll offset at focus 0 = %d, want 0", o.ScrollOffset)
	}

	up(o)
	if o.FocusedIndex != 4 {
		t.Fatalf("after Up from 0: FocusedIndex=%d, want 4 (wrap)", o.FocusedIndex)
	}

	up(o)
	if o.FocusedIndex != 3 {
		t.Fatalf("after second Up: FocusedIndex=%d, want 3", o.FocusedIndex)
	}
	if o.ScrollOffset != 2 {
		t.Fatalf("scroll offset at focus 3 (max_visible=3) = %d, want 2", o.ScrollOffset)
	}

	down(o)
	if o.FocusedIndex != 4 {
		t.Fatalf("after Down from 3: FocusedIndex=%d, want 4", o.FocusedIndex)
	}
	down(o)
	if o.FocusedIndex != 0 {
		t.Fatalf("after Down from 4: FocusedIndex=%d, want 0 (wrap)", o.FocusedIndex)
	}
	if o.ScrollOffset != 0 {
		t.Fatalf("scroll offset after wrap back to focus 0 = %d, want 0", o.ScrollOffset)
	}
}

func TestShowResetsFocusAndScroll(t *testing.T) {
	o := &Overlay{FocusedIndex: 3, HasFocus: true, ScrollOffset: 2}
	o.Show([]string{"one", "two"}, 1, 1, 1, true)

	if !o.Visible {
		t.Fatal("Show with non-empty candidates should set Visible")
	}
	if o.HasFocus || o.FocusedIndex != 0 || o.ScrollOffset != 0 {
		t.Fatalf("Show did not reset focus/scroll: HasFocus=%v FocusedIndex=%d ScrollOffset=%d",
			o.HasFocus, o.FocusedIndex, o.ScrollOffset)
	}
	if !o.ShowAbove {
		t.Fatal("ShowAbove should carry through from Show's argument")
	}
}

func TestShowWithNoCandidatesStaysHidden(t *testing.T) {
	o := &Overlay{}
	o.Show(nil, 0, 0, 0, false)
	if o.Visible {
		t.Fatal("Show with an empty candidate list must not become visible")
	}
}

func TestEscapeHidesAndClearsFocus(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"a", "b"}, 0, 0, 0, false)
	down(o)

	consumed, _, hasSelection := o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyEscape})
	if !consumed || hasSelection {
		t.Fatalf("Escape: consumed=%v hasSelection=%v, want true/false", consumed, hasSelection)
	}
	if o.Visible || o.HasFocus {
		t.Fatal("Escape must hide the overlay and clear focus")
	}
}

func TestEnterReturnsFocusedCandidateWithoutHiding(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"one", "two", "three"}, 0, 0, 0, false)
	down(o)
	down(o)

	consumed, selected, hasSelection := o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyEnter})
	if !consumed || !hasSelection {
		t.Fatalf("Enter with focus: consumed=%v hasSelection=%v, want true/true", consumed, hasSelection)
	}
	if selected != "two" {
		t.Fatalf("selected = %q, want %q", selected, "two")
	}
	if !o.Visible {
		t.Fatal("Enter must not itself hide the overlay; the host decides")
	}
}

func TestEnterWithoutFocusIsConsumedButSelectsNothing(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"one", "two"}, 0, 0, 0, false)

	consumed, selected, hasSelection := o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyEnter})
	if !consumed || hasSelection || selected != "" {
		t.Fatalf("Enter w/o focus: consumed=%v selected=%q hasSelection=%v", consumed, selected, hasSelection)
	}
}

func TestHiddenOverlayIgnoresKeys(t *testing.T) {
	o := &Overlay{}
	consumed, _, _ := o.HandleKeyEvent(input.KeyEvent{KeyCode: input.KeyDown})
	if consumed {
		t.Fatal("a hidden overlay must not consume key events")
	}
}

func TestDimensionsWidthIsLongestCandidatePlusFour(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"a", "abcdefgh", "ab"}, 0, 0, 0, false)

	w, h := o.Dimensions(80)
	if w != len("abcdefgh")+4 {
		t.Fatalf("width = %d, want %d", w, len("abcdefgh")+4)
	}
	if h != len(o.Candidates)+2 {
		t.Fatalf("height = %d, want %d", h, len(o.Candidates)+2)
	}
}

func TestDimensionsClampsToScreenWidth(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"a very long candidate string indeed"}, 0, 0, 0, false)

	w, _ := o.Dimensions(10)
	if w != 10 {
		t.Fatalf("width = %d, want clamped to 10", w)
	}
}

func TestDimensionsCapsHeightAtTenVisibleRows(t *testing.T) {
	candidateList := make([]string, 25)
	for i := range candidateList {
		candidateList[i] = "x"
	}
	o := &Overlay{}
	o.Show(candidateList, 0, 0, 0, false)

	_, h := o.Dimensions(80)
	if h != maxVisibleCandidates+2 {
		t.Fatalf("height = %d, want %d", h, maxVisibleCandidates+2)
	}
}

func TestPlacementShowsAboveAnchorWhenRequested(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"a", "b"}, 10, 5, 5, true)

	_, h := o.Dimensions(80)
	y, _ := o.Placement(24, 80)
	if y != 10-h {
		t.Fatalf("y = %d, want %d (anchor - height)", y, 10-h)
	}
}

func TestPlacementClampsToScreenBounds(t *testing.T) {
	o := &Overlay{}
	o.Show([]string{"a"}, 22, 78, 78, false)

	y, x := o.Placement(24, 80)
	w, h := o.Dimensions(80)
	if y+h > 24 {
		t.Fatalf("y+h = %d, exceeds screen rows 24", y+h)
	}
	if x+w > 80 {
		t.Fatalf("x+w = %d, exceeds screen cols 80", x+w)
	}
}

func TestScrollbarThresholdIsTenCandidates(t *testing.T) {
	if maxVisibleCandidates != 10 {
		t.Fatalf("maxVisibleCandidates = %d, want 10", maxVisibleCandidates)
	}
	o := &Overlay{}
	o.Show([]string{"a", "b", "c"}, 0, 0, 0, false)
	if len(o.Candidates) > maxVisibleCandidates {
		t.Fatal("test setup: expected candidate count under the scrollbar threshold")
	}

	candidateList := make([]string, maxVisibleCandidates+1)
	for i := range candidateList {
		candidateList[i] = "x"
	}
	o.Show(candidateList, 0, 0, 0, false)
	if len(o.Candidates) <= maxVisibleCandidates {
		t.Fatal("test setup: expected candidate count over the scrollbar threshold")
	}
}
