//go:build windows

package cpu

import (
	"fmt"
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (uintptr, error) {
	numCPU := runtime.NumCPU()
	if cpuID < 0 || cpuID >= numCPU {
		cpuID = ((cpuID % numCPU) + numCPU) % numCPU
	}

	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N
	mask := uintptr(1) << uint(cpuID)

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, fmt.Errorf("SetThreadAffinityMask(cpu %d): %w", cpuID, err)
	}
	return prevMask, nil
}

func usableCPUs() int { return runtime.NumCPU() }

// PinWorker locks the calling goroutine to its OS thread and pins that
// thread to core workerID (modulo the core count). The cleanup restores
// the previous mask before unlocking.
func PinWorker(workerID int) (cleanup func(), err error) {
	runtime.LockOSThread()
	prevMask, err := pinToCore(workerID)
	if err != nil {
		runtime.UnlockOSThread()
		return func() {}, err
	}

	return func() {
		handle, _, _ := getCurrentThread.Call()
		_, _, _ = setThreadAffinityMask.Call(handle, prevMask)
		runtime.UnlockOSThread()
	}, nil
}
