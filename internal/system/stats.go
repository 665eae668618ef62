package system

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MemoryReport describes host memory against an estimated working set.
type MemoryReport struct {
	Available uint64
	Required  uint64
}

func (r MemoryReport) Fits() bool { return r.Available == 0 || r.Required <= r.Available }

func (r MemoryReport) String() string {
	return fmt.Sprintf("need ~%s, available %s", FormatBytes(r.Required), FormatBytes(r.Available))
}

// CheckMemory estimates the RAM needed to hold buffers RGBA surfaces of w×h
// and compares it with what the host has available.
func CheckMemory(ctx context.Context, buffers, w, h int) (MemoryReport, error) {
	r := MemoryReport{Required: uint64(buffers) * uint64(w) * uint64(h) * 4}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return r, err
	}
	r.Available = vm.Available
	return r, nil
}

// ProcessRSS returns the resident set size of the current process.
func ProcessRSS(ctx context.Context) (uint64, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}

func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
