// Package cpu reports how many processors the process may run on and pins
// benchmark workers to individual cores.
package cpu

import "runtime"

// Topology is a snapshot of the processors visible to the process.
type Topology struct {
	// NumCPU is the number of logical CPUs on the machine.
	NumCPU int
	// Usable is the number of CPUs the scheduler affinity mask allows.
	// It equals NumCPU where the mask cannot be read.
	Usable int
	// MaxProcs is the current GOMAXPROCS setting.
	MaxProcs int
}

// Probe reads the current topology. It never changes any setting.
func Probe() Topology {
	n := runtime.NumCPU()
	usable := usableCPUs()
	if usable <= 0 || usable > n {
		usable = n
	}
	return Topology{
		NumCPU:   n,
		Usable:   usable,
		MaxProcs: runtime.GOMAXPROCS(0),
	}
}

// Parallel is the number of goroutines that can make progress at the same
// instant: the smaller of GOMAXPROCS and the usable CPUs.
func (t Topology) Parallel() int {
	return max(min(t.MaxProcs, t.Usable), 1)
}
