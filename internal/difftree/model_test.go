package difftree

import "testing"

func strp(s string) *string { return &s }

func TestClassifyOneSided(t *testing.T) {
	n := &TreeNode{Name: "a", LeftPath: strp("/l/a")}
	if got := Classify(n); got != OnlyLeft {
		t.Errorf("Classify(one-sided left) = %v, want OnlyLeft", got)
	}
	n2 := &TreeNode{Name: "b", RightPath: strp("/r/b")}
	if got := Classify(n2); got != OnlyRight {
		t.Errorf("Classify(one-sided right) = %v, want OnlyRight", got)
	}
}

func TestClassifyTwoSidedFilePendingUntilCompared(t *testing.T) {
	n := &TreeNode{Name: "f", LeftPath: strp("/l/f"), RightPath: strp("/r/f")}
	if got := Classify(n); got != Pending {
		t.Errorf("uncompared two-sided file = %v, want Pending", got)
	}
	n.ContentCompared = true
	n.DifferenceType = Identical
	if got := Classify(n); got != Identical {
		t.Errorf("compared identical file = %v, want Identical", got)
	}
}

func TestClassifyDirectoryShortCircuitsToContainsDifference(t *testing.T) {
	dir := &TreeNode{
		Name: "d", IsDirectory: true, ChildrenScanned: true,
		LeftPath: strp("/l/d"), RightPath: strp("/r/d"),
	}
	identicalChild := &TreeNode{Name: "x", LeftPath: strp("/l/d/x"), RightPath: strp("/r/d/x"), ContentCompared: true, DifferenceType: Identical}
	onlyLeftChild := &TreeNode{Name: "y", LeftPath: strp("/l/d/y")}
	dir.Children = []*TreeNode{identicalChild, onlyLeftChild}
	onlyLeftChild.DifferenceType = Classify(onlyLeftChild)

	if got := Classify(dir); got != ContainsDifference {
		t.Errorf("directory with a one-sided child = %v, want ContainsDifference", got)
	}
}

func TestClassifyDirectoryPendingWhenChildPending(t *testing.T) {
	dir := &TreeNode{
		Name: "d", IsDirectory: true, ChildrenScanned: true,
		LeftPath: strp("/l/d"), RightPath: strp("/r/d"),
	}
	pendingChild := &TreeNode{Name: "p", LeftPath: strp("/l/d/p"), RightPath: strp("/r/d/p")}
	identicalChild := &TreeNode{Name: "x", LeftPath: strp("/l/d/x"), RightPath: strp("/r/d/x"), ContentCompared: true, DifferenceType: Identical}
	dir.Children = []*TreeNode{identicalChild, pendingChild}

	if got := Classify(dir); got != Pending {
		t.Errorf("directory with a pending child = %v, want Pending", got)
	}
}

func TestClassifyDirectoryIdenticalWhenAllChildrenIdentical(t *testing.T) {
	dir := &TreeNode{
		Name: "d", IsDirectory: true, ChildrenScanned: true,
		LeftPath: strp("/l/d"), RightPath: strp("/r/d"),
	}
	dir.Children = []*TreeNode{
		{Name: "x", LeftPath: strp("/l/d/x"), RightPath: strp("/r/d/x"), ContentCompared: true, DifferenceType: Identical},
		{Name: "y", LeftPath: strp("/l/d/y"), RightPath: strp("/r/d/y"), ContentCompared: true, DifferenceType: Identical},
	}
	if got := Classify(dir); got != Identical {
		t.Errorf("directory with all-identical children = %v, want Identical", got)
	}
}

func TestPropagateUpSetsAncestorsToContainsDifference(t *testing.T) {
	root := &TreeNode{Name: "", IsDirectory: true, ChildrenScanned: true}
	mid := &TreeNode{Name: "mid", IsDirectory: true, ChildrenScanned: true, Parent: root, LeftPath: strp("/l/mid"), RightPath: strp("/r/mid")}
	leaf := &TreeNode{Name: "leaf", Parent: mid, LeftPath: strp("/l/mid/leaf")}
	root.Children = []*TreeNode{mid}
	mid.Children = []*TreeNode{leaf}

	leaf.DifferenceType = Classify(leaf)
	PropagateUp(mid)

	if mid.DifferenceType != ContainsDifference {
		t.Errorf("mid classification = %v, want ContainsDifference", mid.DifferenceType)
	}
	if root.DifferenceType != ContainsDifference {
		t.Errorf("root classification = %v, want ContainsDifference", root.DifferenceType)
	}
}

func TestSortChildrenDirectoriesFirstCaseInsensitive(t *testing.T) {
	children := []*TreeNode{
		{Name: "zebra.txt", IsDirectory: false},
		{Name: "Banana", IsDirectory: true},
		{Name: "apple", IsDirectory: true},
		{Name: "Alpha.txt", IsDirectory: false},
	}
	SortChildren(children)

	want := []string{"apple", "Banana", "Alpha.txt", "zebra.txt"}
	for i, name := range want {
		if children[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, children[i].Name, name)
		}
	}
}

func TestFindByRelativePath(t *testing.T) {
	root := &TreeNode{Name: ""}
	child := &TreeNode{Name: "a", Parent: root}
	grandchild := &TreeNode{Name: "b", Parent: child}
	root.Children = []*TreeNode{child}
	child.Children = []*TreeNode{grandchild}

	if got := FindByRelativePath(root, "a/b"); got != grandchild {
		t.Errorf("FindByRelativePath did not find grandchild, got %v", got)
	}
	if got := FindByRelativePath(root, "a/missing"); got != nil {
		t.Errorf("expected nil for missing path, got %v", got)
	}
	if got := FindByRelativePath(root, ""); got != root {
		t.Errorf("FindByRelativePath(\"\") should return root")
	}
}
