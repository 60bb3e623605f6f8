//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// cpuSetSize is CPU_SETSIZE, the number of cores a unix.CPUSet can describe.
const cpuSetSize = 1024

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	return unix.SchedSetaffinity(0, &mask) // 0 = current thread
}

// allowedCore maps workerID onto the cores present in mask, wrapping
// around when there are more workers than cores.
func allowedCore(mask *unix.CPUSet, workerID int) int {
	allowed := make([]int, 0, mask.Count())
	for i := range cpuSetSize {
		if mask.IsSet(i) {
			allowed = append(allowed, i)
		}
	}
	if len(allowed) == 0 {
		return 0
	}
	return allowed[((workerID%len(allowed))+len(allowed))%len(allowed)]
}

func usableCPUs() int {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return 0
	}
	return mask.Count()
}

// PinWorker locks the calling goroutine to its OS thread and pins that
// thread to one of the cores the process may use, chosen by workerID. The returned cleanup
// restores the thread's previous affinity and unlocks it; it must run on
// the same goroutine.
func PinWorker(workerID int) (cleanup func(), err error) {
	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return func() {}, err
	}

	if err := pinToCore(allowedCore(&prev, workerID)); err != nil {
		runtime.UnlockOSThread()
		return func() {}, err
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
		runtime.UnlockOSThread()
	}, nil
}
