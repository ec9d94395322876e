package difftree

import "github.com/puzpuzpuz/xsync/v3"

// SideMap is a concurrency-safe map of relative path to the FileInfo
// discovered for that side, the Go analogue of data_lock-guarded
// left_files/right_files: inserts race safely against concurrent readers
// without taking an explicit mutex around every lookup.
type SideMap = xsync.MapOf[string, FileInfo]

func newSideMap() *SideMap {
	return xsync.NewMapOf[string, FileInfo]()
}

// FileMaps bundles the two sides' maps plus the append-only comparison
// error map, keyed "left|right" per the comparator worker's contract.
type FileMaps struct {
	Left             *SideMap
	Right            *SideMap
	ComparisonErrors *xsync.MapOf[string, string]
}

// NewFileMaps allocates empty side maps and an empty error map.
func NewFileMaps() *FileMaps {
	return &FileMaps{
		Left:             newSideMap(),
		Right:            newSideMap(),
		ComparisonErrors: xsync.NewMapOf[string, string](),
	}
}
