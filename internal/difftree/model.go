// Package difftree holds the tree data model for the directory diff core:
// FileInfo, TreeNode, DifferenceType, the work task shapes, and the
// classification rules that keep a directory's status consistent with its
// descendants.
package difftree

import (
	"sort"
	"strings"
	"sync"
)

// DifferenceType classifies a node relative to its left/right counterpart.
type DifferenceType int

const (
	Pending DifferenceType = iota
	Identical
	OnlyLeft
	OnlyRight
	ContentDifferent
	ContainsDifference
)

func (d DifferenceType) String() string {
	switch d {
	case Identical:
		return "identical"
	case OnlyLeft:
		return "only_left"
	case OnlyRight:
		return "only_right"
	case ContentDifferent:
		return "content_different"
	case ContainsDifference:
		return "contains_difference"
	default:
		return "pending"
	}
}

// FileInfo is immutable metadata for one directory entry on one side.
type FileInfo struct {
	Path         string
	RelativePath string
	IsDirectory  bool
	Size         int64
	MTime        float64
	IsAccessible bool
	ErrorMessage string
}

// TreeNode is a mutable node in the comparison tree. Children is the sole
// owner of its elements; Parent is a non-owning back-reference.
type TreeNode struct {
	Name            string
	LeftPath        *string
	RightPath       *string
	IsDirectory     bool
	DifferenceType  DifferenceType
	Depth           int
	IsExpanded      bool
	Children        []*TreeNode
	Parent          *TreeNode
	ChildrenScanned bool
	ContentCompared bool
	ScanInProgress  bool
	RelativePath    string
}

// OneSided reports whether the node exists on only one side.
func (n *TreeNode) OneSided() bool {
	return (n.LeftPath == nil) != (n.RightPath == nil)
}

// ScanTask asks the scanner worker to single-level-list one directory pair.
type ScanTask struct {
	LeftPath     *string
	RightPath    *string
	RelativePath string
	Priority     int
	IsVisible    bool
}

// ComparisonTask asks the comparator worker to byte-compare one file pair.
type ComparisonTask struct {
	LeftPath     string
	RightPath    string
	RelativePath string
	Priority     int
}

// Priority constants from the viewport-priority scheme.
const (
	PriorityImmediate = 1000
	PriorityVisible   = 100
	PriorityExpanded  = 50
	PriorityNormal    = 10
	PriorityLow       = 1
)

// Tree owns the root node and the lock that guards every structural change:
// new children, re-sorts, classification updates, children_scanned, and
// scan_in_progress flags.
type Tree struct {
	mu   sync.RWMutex
	Root *TreeNode
}

// NewTree creates a tree with an empty root (name "", depth 0).
func NewTree() *Tree {
	return &Tree{Root: &TreeNode{Name: "", Depth: 0, IsDirectory: true, IsExpanded: true}}
}

// WithLock runs fn with the tree write-locked, the sole sanctioned way to
// touch node fields from outside this package.
func (t *Tree) WithLock(fn func(root *TreeNode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.Root)
}

// WithRLock runs fn with the tree read-locked.
func (t *Tree) WithRLock(fn func(root *TreeNode)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.Root)
}

// FindByRelativePath walks the tree looking for the node at relativePath.
// Caller must already hold the tree lock (read or write).
func FindByRelativePath(root *TreeNode, relativePath string) *TreeNode {
	if relativePath == "" {
		return root
	}
	parts := strings.Split(relativePath, "/")
	cur := root
	for _, part := range parts {
		found := false
		for _, child := range cur.Children {
			if child.Name == part {
				cur = child
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return cur
}

// SortChildren orders children directories-first, then case-insensitive
// name, stably so repeated sorts never reorder equal keys.
func SortChildren(children []*TreeNode) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsDirectory != b.IsDirectory {
			return a.IsDirectory
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// Classify computes a node's DifferenceType from its own state and its
// children's current classification, per the bottom-up rule: one-sided
// nodes are terminal; a two-sided file depends on ContentCompared; a
// two-sided directory short-circuits to ContainsDifference as soon as any
// child is not Identical/Pending, else is Pending if any child is Pending,
// else Identical.
func Classify(node *TreeNode) DifferenceType {
	if node.OneSided() {
		if node.LeftPath == nil {
			return OnlyRight
		}
		return OnlyLeft
	}

	if !node.IsDirectory {
		if !node.ContentCompared {
			return Pending
		}
		return node.DifferenceType
	}

	if node.IsDirectory && node.Depth > 0 && !node.ChildrenScanned {
		return Pending
	}

	hasPending := false
	for _, child := range node.Children {
		switch child.DifferenceType {
		case OnlyLeft, OnlyRight, ContentDifferent, ContainsDifference:
			return ContainsDifference
		case Pending:
			hasPending = true
		}
	}
	if hasPending {
		return Pending
	}
	return Identical
}

// PropagateUp re-classifies node and walks upward re-classifying ancestors,
// stopping early once an ancestor is already ContainsDifference and its
// classification would not change by recomputation.
func PropagateUp(node *TreeNode) {
	for n := node; n != nil; n = n.Parent {
		newClass := Classify(n)
		unchanged := n.DifferenceType == newClass
		n.DifferenceType = newClass
		if unchanged && newClass == ContainsDifference {
			break
		}
	}
}
