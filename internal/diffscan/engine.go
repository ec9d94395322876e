package diffscan

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/tfm-go/tfm/internal/difftree"
)

// compareChunkSize matches the spec's 8 KiB byte-comparison window.
const compareChunkSize = 8 * 1024

// DiffEngine provides the byte-for-byte file comparison used by the
// comparator worker and by a synchronous compare when ENTER opens a file
// that is still Pending. Initial tree seeding is the package-level
// BuildInitialTree, not a DiffEngine method.
type DiffEngine struct{}

// CompareFiles reports whether two files are identical: same size and every
// 8 KiB chunk read from them is byte-equal. Any I/O error is returned and
// the caller must treat the pair as different.
func (DiffEngine) CompareFiles(ctx context.Context, leftPath, rightPath string) (difftree.DifferenceType, error) {
	leftInfo, err := os.Stat(leftPath)
	if err != nil {
		return difftree.ContentDifferent, err
	}
	rightInfo, err := os.Stat(rightPath)
	if err != nil {
		return difftree.ContentDifferent, err
	}
	if leftInfo.Size() != rightInfo.Size() {
		return difftree.ContentDifferent, nil
	}

	lf, err := os.Open(leftPath)
	if err != nil {
		return difftree.ContentDifferent, err
	}
	defer lf.Close()
	rf, err := os.Open(rightPath)
	if err != nil {
		return difftree.ContentDifferent, err
	}
	defer rf.Close()

	lbuf := make([]byte, compareChunkSize)
	rbuf := make([]byte, compareChunkSize)
	for {
		select {
		case <-ctx.Done():
			return difftree.ContentDifferent, ctx.Err()
		default:
		}

		ln, lerr := io.ReadFull(lf, lbuf)
		rn, rerr := io.ReadFull(rf, rbuf)
		if ln != rn || !bytes.Equal(lbuf[:ln], rbuf[:rn]) {
			return difftree.ContentDifferent, nil
		}
		if lerr == io.EOF && rerr == io.EOF {
			return difftree.Identical, nil
		}
		if lerr != nil && lerr != io.ErrUnexpectedEOF && lerr != io.EOF {
			return difftree.ContentDifferent, lerr
		}
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return difftree.ContentDifferent, rerr
		}
		if lerr == io.ErrUnexpectedEOF || rerr == io.ErrUnexpectedEOF {
			return difftree.Identical, nil
		}
	}
}

// BuildInitialTree seeds the root's top-level children from a one-level
// scan of both roots, applying the initial-open classification rule:
// one-sided entries are terminal, two-sided directories are Pending
// awaiting a child scan, two-sided files are Pending awaiting comparison.
func BuildInitialTree(ctx context.Context, tree *difftree.Tree, leftRoot, rightRoot string, scanner *Scanner) ([]difftree.ScanTask, []difftree.ComparisonTask, error) {
	leftEntries, leftErr := scanner.ScanSingleLevel(ctx, leftRoot, "")
	if leftErr != nil && !os.IsNotExist(leftErr) {
		return nil, nil, leftErr
	}
	rightEntries, rightErr := scanner.ScanSingleLevel(ctx, rightRoot, "")
	if rightErr != nil && !os.IsNotExist(rightErr) {
		return nil, nil, rightErr
	}

	byName := map[string]*difftree.FileInfo{}
	order := []string{}
	for i := range leftEntries {
		e := leftEntries[i]
		name := baseName(e.RelativePath)
		byName[name+"\x00L"] = &leftEntries[i]
		order = append(order, name)
	}
	for i := range rightEntries {
		e := rightEntries[i]
		name := baseName(e.RelativePath)
		if _, ok := byName[name+"\x00L"]; !ok {
			order = append(order, name)
		}
		byName[name+"\x00R"] = &rightEntries[i]
	}

	var scanTasks []difftree.ScanTask
	var compareTasks []difftree.ComparisonTask

	var children []*difftree.TreeNode
	seen := map[string]bool{}
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true

		left := byName[name+"\x00L"]
		right := byName[name+"\x00R"]

		node := &difftree.TreeNode{Name: name, Parent: tree.Root, Depth: 1, RelativePath: name}
		if left != nil {
			p := left.Path
			node.LeftPath = &p
			node.IsDirectory = left.IsDirectory
		}
		if right != nil {
			p := right.Path
			node.RightPath = &p
			node.IsDirectory = right.IsDirectory
		}

		switch {
		case left == nil:
			node.DifferenceType = difftree.OnlyRight
			node.ContentCompared = true
		case right == nil:
			node.DifferenceType = difftree.OnlyLeft
			node.ContentCompared = true
		case node.IsDirectory:
			node.DifferenceType = difftree.Pending
			node.ChildrenScanned = false
			scanTasks = append(scanTasks, difftree.ScanTask{
				LeftPath: node.LeftPath, RightPath: node.RightPath,
				RelativePath: name, Priority: difftree.PriorityNormal,
			})
		default:
			node.DifferenceType = difftree.Pending
			node.ContentCompared = false
			compareTasks = append(compareTasks, difftree.ComparisonTask{
				LeftPath: *node.LeftPath, RightPath: *node.RightPath,
				RelativePath: name, Priority: difftree.PriorityNormal,
			})
		}

		children = append(children, node)
	}

	difftree.SortChildren(children)
	tree.Root.Children = children
	tree.Root.ChildrenScanned = true

	return scanTasks, compareTasks, nil
}

func baseName(relativePath string) string {
	for i := len(relativePath) - 1; i >= 0; i-- {
		if relativePath[i] == '/' {
			return relativePath[i+1:]
		}
	}
	return relativePath
}
