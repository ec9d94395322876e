// Package diffscan performs the blocking, single-level directory reads that
// back both the progressive scanner worker and the synchronous expand-time
// scan, plus the whole-tree builder and file-content comparator used by the
// DiffEngine.
package diffscan

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tfm-go/tfm/internal/difftree"
)

// dirReadTimeout bounds a single-level os.ReadDir so a stuck network mount
// cannot wedge a worker goroutine forever.
const dirReadTimeout = 5 * time.Second

// ShowHidden, when false, drops entries whose name starts with ".". Cloud
// placeholder files and cloud-synced directory trees are always skipped
// regardless of ShowHidden: a diff against an iCloud/Dropbox-backed tree
// would otherwise report spurious differences for files the provider
// hasn't finished materializing locally.
type Scanner struct {
	ShowHidden bool
}

// NewScanner returns a scanner with the given hidden-file visibility.
func NewScanner(showHidden bool) *Scanner {
	return &Scanner{ShowHidden: showHidden}
}

// isCloudPlaceholder reports whether name is a cloud-provider placeholder
// for a file that hasn't been downloaded locally yet (iCloud's on-demand
// download markers being the common case on macOS).
func isCloudPlaceholder(name string) bool {
	return len(name) > 0 && name[0] == '.' && strings.HasSuffix(name, ".icloud")
}

// isCloudSyncRoot reports whether a directory entry is the root of a
// cloud-synced tree whose contents are driven by an external sync daemon
// rather than purely local edits.
func isCloudSyncRoot(name string) bool {
	switch name {
	case "Dropbox", "Google Drive", "OneDrive", "Box", "CloudStorage", "Mobile Documents":
		return true
	default:
		return false
	}
}

// ScanSingleLevel lists one directory's immediate entries, without
// recursing. Per-entry stat failures are recorded on that entry's
// FileInfo.IsAccessible/ErrorMessage and scanning continues; a failure to
// read the directory itself is returned as the function's error.
func (s *Scanner) ScanSingleLevel(ctx context.Context, absPath, relativeBase string) ([]difftree.FileInfo, error) {
	entries, err := readDirWithTimeout(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", absPath, err)
	}

	out := make([]difftree.FileInfo, 0, len(entries))
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		name := entry.Name()
		if !s.ShowHidden && len(name) > 0 && name[0] == '.' {
			continue
		}
		if isCloudPlaceholder(name) || isCloudSyncRoot(name) {
			continue
		}

		fullPath := path.Join(absPath, name)
		relPath := name
		if relativeBase != "" {
			relPath = relativeBase + "/" + name
		}

		info, statErr := os.Stat(fullPath)
		if statErr != nil {
			out = append(out, difftree.FileInfo{
				Path:         fullPath,
				RelativePath: relPath,
				IsAccessible: false,
				ErrorMessage: statErr.Error(),
			})
			continue
		}

		out = append(out, difftree.FileInfo{
			Path:         fullPath,
			RelativePath: relPath,
			IsDirectory:  info.IsDir(),
			Size:         info.Size(),
			MTime:        float64(info.ModTime().UnixNano()) / 1e9,
			IsAccessible: true,
		})
	}
	return out, nil
}

// readDirWithTimeout wraps os.ReadDir with a timeout so a directory on a
// stuck network volume cannot block the caller indefinitely.
func readDirWithTimeout(absPath string) ([]os.DirEntry, error) {
	type result struct {
		entries []os.DirEntry
		err     error
	}
	resultChan := make(chan result, 1)

	go func() {
		entries, err := os.ReadDir(absPath)
		resultChan <- result{entries: entries, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.entries, res.err
	case <-time.After(dirReadTimeout):
		return nil, fmt.Errorf("timeout reading directory (>%v): %s", dirReadTimeout, absPath)
	}
}

// DeviceAndInode reports the filesystem device id and inode number for a
// path. ScanSingleLevel does not call it: scans do no mount-boundary or
// hardlink detection.
func DeviceAndInode(absPath string) (dev uint64, ino uint64, err error) {
	var st unix.Stat_t
	if err := unix.Stat(absPath, &st); err != nil {
		return 0, 0, err
	}
	return uint64(st.Dev), uint64(st.Ino), nil
}
