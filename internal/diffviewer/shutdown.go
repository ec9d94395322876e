package diffviewer

import (
	"time"
)

// Shutdown implements the orderly-stop sequence: flip the cancelled flag so
// every worker loop exits on its next dequeue-timeout check, wait up to
// workerJoinTimeout for the three workers to exit (logging a warning if they
// do not), then drain the queues so no unprocessed task is left behind.
// It is safe to call even if StartScan was never called (all three worker
// goroutines will simply not be running, and Wait returns immediately).
func (v *Viewer) Shutdown() {
	v.status.Store(int32(statusCancelling))
	v.cancelled.Store(true)

	done := make(chan struct{})
	go func() {
		v.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(workerJoinTimeout):
		v.logger.Warn("diff viewer workers did not exit within the shutdown timeout")
	}

	v.scanQueue.Drain()
	v.priorityQueue.Drain()
	v.comparisonQueue.Drain()
}
