// Package diffviewer implements DirectoryDiffViewer, the UILayer that owns
// the comparison tree, the file maps, the three work queues, and the
// scanner/comparator/priority-handler worker goroutines. It is the single
// largest component of the core.
package diffviewer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tfm-go/tfm/internal/difftree"
	"github.com/tfm-go/tfm/internal/diffqueue"
	"github.com/tfm-go/tfm/internal/diffscan"
	"github.com/tfm-go/tfm/internal/uilayer"
)

// Pane names which side has keyboard focus. It is UI-only state; it never
// affects cursor position or tree data.
type Pane int

const (
	PaneLeft Pane = iota
	PaneRight
)

// scanStatus tracks the viewer's own lifecycle, independent of any single
// node's classification.
type scanStatus int

const (
	statusScanning scanStatus = iota
	statusIdle
	statusCancelling
	statusError
)

// dequeueTimeout matches the 100ms re-check-cancelled cadence from the
// concurrency model.
const dequeueTimeout = 100 * time.Millisecond

// workerJoinTimeout bounds how long shutdown waits for a worker goroutine.
const workerJoinTimeout = 2 * time.Second

// Viewer is the DirectoryDiffViewer UILayer implementation.
type Viewer struct {
	logger *slog.Logger

	leftRoot, rightRoot string
	showHidden          bool
	showIdentical       bool

	tree     *difftree.Tree
	fileMaps *difftree.FileMaps

	scanQueue       *diffqueue.Queue[difftree.ScanTask]
	priorityQueue   *diffqueue.PriorityQueue[difftree.ScanTask]
	comparisonQueue *diffqueue.Queue[difftree.ComparisonTask]

	scanner atomic.Pointer[diffscan.Scanner] // swapped by the 'h' hidden-files toggle, read by scannerLoop
	engine  diffscan.DiffEngine

	visibleNodes  []*difftree.TreeNode
	nodeIndex     map[*difftree.TreeNode]int
	cursor        int
	activePane    Pane
	scrollOffset  int
	displayHeight int
	spinnerFrame  int // advanced once per UI tick while status is statusScanning (from New until StartScan seeds the queues)

	status       atomic.Int32
	cancelled    atomic.Bool
	workerErr    atomic.Pointer[string]
	scanErr      atomic.Pointer[string]
	dirty        atomic.Bool
	closeRequest atomic.Bool

	wg sync.WaitGroup

	onOpenFileDiff func(leftPath, rightPath, relativePath string)
	onPushHelp     func()

	mu sync.Mutex // guards visibleNodes/nodeIndex/cursor/scrollOffset against concurrent render+key dispatch
}

// New constructs a viewer. Workers are not started until StartScan runs.
func New(logger *slog.Logger, leftRoot, rightRoot string, showHidden bool) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Viewer{
		logger:          logger,
		leftRoot:        leftRoot,
		rightRoot:       rightRoot,
		showHidden:      showHidden,
		tree:            difftree.NewTree(),
		fileMaps:        difftree.NewFileMaps(),
		scanQueue:       diffqueue.New[difftree.ScanTask](),
		priorityQueue:   diffqueue.NewPriorityQueue[difftree.ScanTask](),
		comparisonQueue: diffqueue.New[difftree.ComparisonTask](),
		nodeIndex:       make(map[*difftree.TreeNode]int),
		displayHeight:   20,
	}
	v.scanner.Store(diffscan.NewScanner(showHidden))
	v.status.Store(int32(statusScanning))
	v.dirty.Store(true)
	return v
}

// SetCallbacks wires the two concrete UILayer satellites this core ships:
// the help info-dialog pushed by "?" and the file-diff viewer pushed by
// ENTER on a file.
func (v *Viewer) SetCallbacks(onOpenFileDiff func(left, right, relative string), onPushHelp func()) {
	v.onOpenFileDiff = onOpenFileDiff
	v.onPushHelp = onPushHelp
}

func (v *Viewer) status_() scanStatus { return scanStatus(v.status.Load()) }

// SetShowIdentical sets the initial identical-row visibility; the 'i' key
// toggles it afterward.
func (v *Viewer) SetShowIdentical(show bool) {
	v.showIdentical = show
	v.dirty.Store(true)
}

// Tick advances the scanning spinner by one frame. Called once per UI tick
// from the root model; it is a no-op in terms of correctness, just animation.
func (v *Viewer) Tick() {
	if v.status_() == statusScanning {
		v.spinnerFrame++
		v.dirty.Store(true)
	}
}

// StartScan implements the synchronous initial-open sequence: a one-level
// scan of both roots, initial tree construction and classification, queue
// seeding, then starting the three worker goroutines.
func (v *Viewer) StartScan(ctx context.Context) error {
	scanTasks, compareTasks, err := diffscan.BuildInitialTree(ctx, v.tree, v.leftRoot, v.rightRoot, v.scanner.Load())
	if err != nil {
		msg := err.Error()
		v.scanErr.Store(&msg)
		v.status.Store(int32(statusError))
		v.dirty.Store(true)
		return fmt.Errorf("cannot scan root directories: %w", err)
	}

	v.tree.WithLock(func(root *difftree.TreeNode) {
		for _, child := range root.Children {
			difftree.PropagateUp(child)
		}
	})

	for _, t := range scanTasks {
		v.scanQueue.Push(t)
	}
	for _, t := range compareTasks {
		v.comparisonQueue.Push(t)
	}

	v.reflatten()
	v.status.Store(int32(statusIdle))
	v.dirty.Store(true)

	v.wg.Add(3)
	go v.scannerLoop()
	go v.comparatorLoop()
	go v.priorityLoop()

	return nil
}

// scannerLoop implements §4.F.4: dequeue a ScanTask, scan each present
// side at a single level, merge into the maps and tree, queue follow-up
// work, re-classify, mark dirty.
func (v *Viewer) scannerLoop() {
	defer v.wg.Done()
	ctx := context.Background()
	for !v.cancelled.Load() {
		task, ok := v.scanQueue.Pop(ctx, dequeueTimeout)
		if !ok {
			continue
		}
		v.processScanTask(task)
	}
}

func (v *Viewer) processScanTask(task difftree.ScanTask) {
	scanner := v.scanner.Load()
	var leftEntries, rightEntries []difftree.FileInfo
	if task.LeftPath != nil {
		entries, err := scanner.ScanSingleLevel(context.Background(), *task.LeftPath, task.RelativePath)
		if err != nil {
			v.recordWorkerError(fmt.Errorf("scan left %s: %w", *task.LeftPath, err))
		} else {
			leftEntries = entries
		}
	}
	if task.RightPath != nil {
		entries, err := scanner.ScanSingleLevel(context.Background(), *task.RightPath, task.RelativePath)
		if err != nil {
			v.recordWorkerError(fmt.Errorf("scan right %s: %w", *task.RightPath, err))
		} else {
			rightEntries = entries
		}
	}

	for _, e := range leftEntries {
		v.fileMaps.Left.Store(e.RelativePath, e)
	}
	for _, e := range rightEntries {
		v.fileMaps.Right.Store(e.RelativePath, e)
	}

	var newScanTasks []difftree.ScanTask
	var newCompareTasks []difftree.ComparisonTask

	v.tree.WithLock(func(root *difftree.TreeNode) {
		node := difftree.FindByRelativePath(root, task.RelativePath)
		if node == nil {
			return
		}
		newScanTasks, newCompareTasks = mergeChildren(node, leftEntries, rightEntries, task.Priority)
		node.ChildrenScanned = true
		node.ScanInProgress = false
		difftree.PropagateUp(node)
	})

	for _, t := range newScanTasks {
		v.scanQueue.Push(t)
	}
	for _, t := range newCompareTasks {
		v.comparisonQueue.Push(t)
	}

	v.dirty.Store(true)
}

// mergeChildren merges newly-scanned entries into node's existing children,
// preserving each existing child's classification/content_compared/
// is_expanded, adding new children (Pending when present on both sides,
// OnlyLeft/OnlyRight otherwise), and re-sorting. The caller
// must already hold the tree lock.
func mergeChildren(node *difftree.TreeNode, leftEntries, rightEntries []difftree.FileInfo, parentPriority int) (scanTasks []difftree.ScanTask, compareTasks []difftree.ComparisonTask) {
	existing := map[string]*difftree.TreeNode{}
	for _, c := range node.Children {
		existing[c.Name] = c
	}

	leftByName := map[string]*difftree.FileInfo{}
	for i := range leftEntries {
		leftByName[baseName(leftEntries[i].RelativePath)] = &leftEntries[i]
	}
	rightByName := map[string]*difftree.FileInfo{}
	for i := range rightEntries {
		rightByName[baseName(rightEntries[i].RelativePath)] = &rightEntries[i]
	}

	names := map[string]bool{}
	for n := range leftByName {
		names[n] = true
	}
	for n := range rightByName {
		names[n] = true
	}

	var merged []*difftree.TreeNode
	for name := range names {
		left := leftByName[name]
		right := rightByName[name]

		if child, ok := existing[name]; ok {
			if left != nil {
				p := left.Path
				child.LeftPath = &p
			} else {
				child.LeftPath = nil
			}
			if right != nil {
				p := right.Path
				child.RightPath = &p
			} else {
				child.RightPath = nil
			}
			merged = append(merged, child)
			continue
		}

		relPath := name
		if node.RelativePath != "" {
			relPath = node.RelativePath + "/" + name
		}
		child := &difftree.TreeNode{Name: name, Parent: node, Depth: node.Depth + 1, RelativePath: relPath}
		if left != nil {
			p := left.Path
			child.LeftPath = &p
			child.IsDirectory = left.IsDirectory
		}
		if right != nil {
			p := right.Path
			child.RightPath = &p
			child.IsDirectory = right.IsDirectory
		}

		switch {
		case left == nil:
			child.DifferenceType = difftree.OnlyRight
			child.ContentCompared = true
		case right == nil:
			child.DifferenceType = difftree.OnlyLeft
			child.ContentCompared = true
		case child.IsDirectory:
			child.DifferenceType = difftree.Pending
			scanTasks = append(scanTasks, difftree.ScanTask{
				LeftPath: child.LeftPath, RightPath: child.RightPath,
				RelativePath: relPath, Priority: parentPriority,
			})
		default:
			child.DifferenceType = difftree.Pending
			compareTasks = append(compareTasks, difftree.ComparisonTask{
				LeftPath: *child.LeftPath, RightPath: *child.RightPath,
				RelativePath: relPath, Priority: parentPriority,
			})
		}
		merged = append(merged, child)
	}

	difftree.SortChildren(merged)
	node.Children = merged
	return scanTasks, compareTasks
}

func baseName(relativePath string) string {
	for i := len(relativePath) - 1; i >= 0; i-- {
		if relativePath[i] == '/' {
			return relativePath[i+1:]
		}
	}
	return relativePath
}

// comparatorLoop implements §4.F.5.
func (v *Viewer) comparatorLoop() {
	defer v.wg.Done()
	ctx := context.Background()
	for !v.cancelled.Load() {
		task, ok := v.comparisonQueue.Pop(ctx, dequeueTimeout)
		if !ok {
			continue
		}
		v.processComparisonTask(ctx, task)
	}
}

func (v *Viewer) processComparisonTask(ctx context.Context, task difftree.ComparisonTask) {
	classification, err := v.engine.CompareFiles(ctx, task.LeftPath, task.RightPath)
	if err != nil {
		v.fileMaps.ComparisonErrors.Store(task.LeftPath+"|"+task.RightPath, err.Error())
		classification = difftree.ContentDifferent
	}

	v.tree.WithLock(func(root *difftree.TreeNode) {
		node := difftree.FindByRelativePath(root, task.RelativePath)
		if node == nil {
			return
		}
		node.DifferenceType = classification
		node.ContentCompared = true
		difftree.PropagateUp(node)
	})

	v.dirty.Store(true)
}

// priorityLoop continuously moves tasks from the priority queue to the
// front of the FIFO scan queue, giving visible items eventual (not strict
// real-time) precedence.
func (v *Viewer) priorityLoop() {
	defer v.wg.Done()
	ctx := context.Background()
	for !v.cancelled.Load() {
		task, ok := v.priorityQueue.Pop(ctx, dequeueTimeout)
		if !ok {
			continue
		}
		v.scanQueue.PushFront(task)
	}
}

func (v *Viewer) recordWorkerError(err error) {
	msg := err.Error()
	v.workerErr.Store(&msg)
	v.logger.Warn("worker error", slog.String("error", msg))
	v.dirty.Store(true)
}

// ErrorCount reports the number of recorded scan/comparison errors for the
// status bar's "Errors: N" indicator.
func (v *Viewer) ErrorCount() int {
	count := 0
	v.fileMaps.ComparisonErrors.Range(func(string, string) bool {
		count++
		return true
	})
	v.fileMaps.Left.Range(func(_ string, fi difftree.FileInfo) bool {
		if !fi.IsAccessible {
			count++
		}
		return true
	})
	v.fileMaps.Right.Range(func(_ string, fi difftree.FileInfo) bool {
		if !fi.IsAccessible {
			count++
		}
		return true
	})
	return count
}

var _ uilayer.UILayer = (*Viewer)(nil)
