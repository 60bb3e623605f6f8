package bench

import (
	"fmt"

	"github.com/utkarsh5026/parbench/internal/cpu"
)

// Parallelism is a tri-state answer to "can goroutines run at the same
// instant here".
type Parallelism int

const (
	ParallelismUnknown Parallelism = iota
	ParallelismAvailable
	ParallelismUnavailable
)

func (p Parallelism) String() string {
	switch p {
	case ParallelismAvailable:
		return "available"
	case ParallelismUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Capability describes what the execution environment can actually do.
// It is probed once at startup and handed to the Harness and Analyzer.
type Capability struct {
	Parallelism Parallelism
	NumCPU      int
	UsableCPUs  int
	MaxProcs    int
}

// DetectCapability probes the processors available to this process.
func DetectCapability() Capability {
	return capabilityFrom(cpu.Probe())
}

func capabilityFrom(topo cpu.Topology) Capability {
	c := Capability{
		Parallelism: ParallelismUnavailable,
		NumCPU:      topo.NumCPU,
		UsableCPUs:  topo.Usable,
		MaxProcs:    topo.MaxProcs,
	}
	if topo.Parallel() > 1 {
		c.Parallelism = ParallelismAvailable
	}
	return c
}

// Slots is the number of goroutines that can execute simultaneously, or
// 0 when the capability was never probed.
func (c Capability) Slots() int {
	if c.Parallelism == ParallelismUnknown {
		return 0
	}
	return cpu.Topology{NumCPU: c.NumCPU, Usable: c.UsableCPUs, MaxProcs: c.MaxProcs}.Parallel()
}

func (c Capability) String() string {
	if c.Parallelism == ParallelismUnknown {
		return "parallelism unknown"
	}
	return fmt.Sprintf("parallelism %s (%d slots: GOMAXPROCS=%d, usable CPUs=%d of %d)",
		c.Parallelism, c.Slots(), c.MaxProcs, c.UsableCPUs, c.NumCPU)
}
