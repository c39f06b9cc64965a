package sampler

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// cpuSource reads per-core and aggregate utilization plus load averages.
// Percentages are deltas against the previous read held by gopsutil, so the
// very first cycle after Prime reports real numbers.
type cpuSource struct{}

// NewCPUSource returns the CPU probe.
func NewCPUSource() Source { return cpuSource{} }

func (cpuSource) Kind() Kind { return KindCPU }

func (cpuSource) Sample(ctx context.Context) (any, error) {
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, sourceErr(KindCPU, err)
	}
	agg, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, sourceErr(KindCPU, err)
	}

	reading := model.CPUReading{PerCore: make([]float64, len(perCore))}
	for i, p := range perCore {
		reading.PerCore[i] = clampPercent(p)
	}
	if len(agg) > 0 {
		reading.Aggregate = clampPercent(agg[0])
	}

	// Load averages are decoration on the CPU panel; losing them is not a
	// reason to abort the cycle.
	if avg, lerr := load.AvgWithContext(ctx); lerr == nil {
		reading.Load1, reading.Load5, reading.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	return reading, nil
}

// Prime performs a throwaway utilization read so the first scheduled cycle
// has a delta baseline instead of reporting zeros.
func (cpuSource) Prime(ctx context.Context) {
	_, _ = cpu.PercentWithContext(ctx, 0, true)
	_, _ = cpu.PercentWithContext(ctx, 0, false)
}

type memSource struct{}

// NewMemorySource returns the RAM/swap probe.
func NewMemorySource() Source { return memSource{} }

func (memSource) Kind() Kind { return KindMemory }

func (memSource) Sample(ctx context.Context) (any, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, sourceErr(KindMemory, err)
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return nil, sourceErr(KindMemory, err)
	}
	return model.MemoryReading{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		SwapTotalBytes: swap.Total,
		SwapUsedBytes:  swap.Used,
		SwapFreeBytes:  swap.Free,
	}, nil
}

type diskSource struct{}

// NewDiskSource returns the per-mount filesystem usage probe.
func NewDiskSource() Source { return diskSource{} }

func (diskSource) Kind() Kind { return KindDisk }

func (diskSource) Sample(ctx context.Context) (any, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, sourceErr(KindDisk, err)
	}

	seen := make(map[string]bool, len(parts))
	readings := make([]model.DiskReading, 0, len(parts))
	for _, part := range parts {
		if seen[part.Mountpoint] {
			continue
		}
		usage, uerr := disk.UsageWithContext(ctx, part.Mountpoint)
		if uerr != nil {
			// Unreadable mounts (permission denied, stale NFS) are skipped,
			// matching df-style tools.
			continue
		}
		seen[part.Mountpoint] = true
		readings = append(readings, model.DiskReading{
			MountPoint:  part.Mountpoint,
			TotalBytes:  usage.Total,
			UsedBytes:   usage.Used,
			FreeBytes:   usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}
	return readings, nil
}

type netSource struct{}

// NewNetworkSource returns the per-interface traffic counter probe.
func NewNetworkSource() Source { return netSource{} }

func (netSource) Kind() Kind { return KindNetwork }

func (netSource) Sample(ctx context.Context) (any, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, sourceErr(KindNetwork, err)
	}

	readings := make([]model.NetIfReading, 0, len(counters))
	for _, c := range counters {
		// Interfaces that never moved a byte are noise.
		if c.BytesSent == 0 && c.BytesRecv == 0 {
			continue
		}
		readings = append(readings, model.NetIfReading{
			Name:           c.Name,
			BytesSentTotal: c.BytesSent,
			BytesRecvTotal: c.BytesRecv,
		})
	}
	sort.Slice(readings, func(i, j int) bool { return readings[i].Name < readings[j].Name })
	return readings, nil
}

type procSource struct{}

// NewProcessSource returns the process table probe. The result is unranked;
// the builder sorts and truncates it.
func NewProcessSource() Source { return procSource{} }

func (procSource) Kind() Kind { return KindProcesses }

func (procSource) Sample(ctx context.Context) (any, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, sourceErr(KindProcesses, err)
	}

	readings := make([]model.ProcessReading, 0, len(procs))
	for _, p := range procs {
		name, nerr := p.NameWithContext(ctx)
		if nerr != nil || name == "" {
			// Kernel threads and processes that exited mid-scan.
			continue
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)
		readings = append(readings, model.ProcessReading{
			PID:        p.Pid,
			Name:       name,
			CPUPercent: cpuPct,
			MemPercent: float64(memPct),
		})
	}
	return readings, nil
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
