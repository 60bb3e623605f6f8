//go:build !linux && !windows

package cpu

import (
	"runtime"
)

func usableCPUs() int { return runtime.NumCPU() }

// PinWorker locks the goroutine to an OS thread.
// CPU pinning is not available on this platform.
func PinWorker(workerID int) (cleanup func(), err error) {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}, nil
}
