package cpu

import (
	"runtime"
	"testing"
)

func TestProbe(t *testing.T) {
	topo := Probe()

	if topo.NumCPU != runtime.NumCPU() {
		t.Errorf("expected NumCPU %d, got %d", runtime.NumCPU(), topo.NumCPU)
	}
	if topo.Usable < 1 || topo.Usable > topo.NumCPU {
		t.Errorf("usable CPUs %d outside [1, %d]", topo.Usable, topo.NumCPU)
	}
	if topo.MaxProcs != runtime.GOMAXPROCS(0) {
		t.Errorf("expected MaxProcs %d, got %d", runtime.GOMAXPROCS(0), topo.MaxProcs)
	}
}

func TestTopology_Parallel(t *testing.T) {
	tests := []struct {
		name string
		topo Topology
		want int
	}{
		{name: "maxprocs bound", topo: Topology{NumCPU: 8, Usable: 8, MaxProcs: 2}, want: 2},
		{name: "affinity bound", topo: Topology{NumCPU: 8, Usable: 3, MaxProcs: 8}, want: 3},
		{name: "never zero", topo: Topology{}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.topo.Parallel(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPinWorker_ReturnsCleanup(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		cleanup, err := PinWorker(0)
		defer cleanup()
		if err != nil {
			t.Logf("pinning unavailable here: %v", err)
		}
	}()
	<-done
}
