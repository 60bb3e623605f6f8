//go:build linux

package cpu

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestAllowedCore(t *testing.T) {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(1)
	mask.Set(3)

	tests := []struct {
		workerID int
		want     int
	}{
		{0, 1},
		{1, 3},
		{2, 1},
		{-1, 3},
	}
	for _, tt := range tests {
		if got := allowedCore(&mask, tt.workerID); got != tt.want {
			t.Errorf("worker %d: expected core %d, got %d", tt.workerID, tt.want, got)
		}
	}

	var empty unix.CPUSet
	if got := allowedCore(&empty, 5); got != 0 {
		t.Errorf("empty mask: expected core 0, got %d", got)
	}
}
