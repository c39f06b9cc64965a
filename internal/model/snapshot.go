package model

import "time"

// CPUReading aggregates instantaneous CPU usage.
type CPUReading struct {
	Aggregate float64   // percent 0-100
	PerCore   []float64 // per-core percent, clamped to 0-100
	Load1     float64
	Load5     float64
	Load15    float64
}

// MemoryReading captures RAM and swap usage in bytes for precision.
type MemoryReading struct {
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
	SwapTotalBytes uint64
	SwapUsedBytes  uint64
	SwapFreeBytes  uint64
}

// SwapUsedPercent returns swap utilization, or 0 when no swap is configured.
func (m MemoryReading) SwapUsedPercent() float64 {
	if m.SwapTotalBytes == 0 {
		return 0
	}
	return float64(m.SwapUsedBytes) * 100 / float64(m.SwapTotalBytes)
}

// UsedPercent returns RAM utilization.
func (m MemoryReading) UsedPercent() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) * 100 / float64(m.TotalBytes)
}

// DiskReading is the usage of one mounted filesystem. The mount point is the
// natural key; a snapshot never holds two readings for the same mount.
type DiskReading struct {
	MountPoint  string
	TotalBytes  uint64
	UsedBytes   uint64
	FreeBytes   uint64
	UsedPercent float64
}

// NetIfReading holds cumulative per-interface traffic counters since boot.
// Rates are not computed here.
type NetIfReading struct {
	Name           string
	BytesSentTotal uint64
	BytesRecvTotal uint64
}

// ProcessReading is a lightweight top entry. PIDs are unique within one
// snapshot only; no identity is preserved across cycles.
type ProcessReading struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
}

// GPUReading is one device row from the GPU probe.
type GPUReading struct {
	Index              int
	Name               string
	UtilizationPercent float64
	VRAMUsedBytes      uint64
	VRAMTotalBytes     uint64
	TemperatureCelsius float64
}

// ContainerReading is one running container as reported by the container
// runtime probe.
type ContainerReading struct {
	Name   string
	Image  string
	Status string
	Ports  string
}

// Snapshot is one immutable, point-in-time bundle of all metric readings.
// It is created once per cycle, handed to the renderer, and discarded.
//
// CPU and Memory are always populated; Disks, Network, Processes, GPUs, and
// Containers may be empty when their source is unavailable or failed. An
// empty GPUs slice means no GPU data, which is distinct from a device
// reporting zero utilization.
type Snapshot struct {
	Timestamp     time.Time
	UptimeSeconds uint64
	CPU           CPUReading
	Memory        MemoryReading
	Disks         []DiskReading
	Network       []NetIfReading
	Processes     []ProcessReading
	GPUs          []GPUReading
	Containers    []ContainerReading
}

// HasGPU reports whether the snapshot carries any GPU data.
func (s *Snapshot) HasGPU() bool { return len(s.GPUs) > 0 }
