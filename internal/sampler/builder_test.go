package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// fakeSource is a scriptable probe for builder and scheduler tests.
type fakeSource struct {
	kind  Kind
	value any
	err   error
	delay time.Duration
}

func (f *fakeSource) Kind() Kind { return f.kind }

func (f *fakeSource) Sample(ctx context.Context) (any, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, sourceErr(f.kind, ctx.Err())
		}
	}
	return f.value, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func goodCPU() *fakeSource {
	return &fakeSource{kind: KindCPU, value: model.CPUReading{
		Aggregate: 42.0,
		PerCore:   []float64{40.0, 44.0},
	}}
}

func goodMemory() *fakeSource {
	return &fakeSource{kind: KindMemory, value: model.MemoryReading{
		TotalBytes: 16 << 30,
		UsedBytes:  8 << 30,
	}}
}

func TestBuildAssemblesFullSnapshot(t *testing.T) {
	sources := []Source{
		goodCPU(),
		goodMemory(),
		&fakeSource{kind: KindDisk, value: []model.DiskReading{{MountPoint: "/", UsedPercent: 40}}},
		&fakeSource{kind: KindNetwork, value: []model.NetIfReading{{Name: "eth0", BytesSentTotal: 1}}},
		&fakeSource{kind: KindProcesses, value: []model.ProcessReading{
			{PID: 1, Name: "init", CPUPercent: 0.1},
			{PID: 2, Name: "busy", CPUPercent: 90},
		}},
		&fakeSource{kind: KindGPU, value: []model.GPUReading{{Index: 0, Name: "RTX 4090", UtilizationPercent: 45}}},
	}
	b := NewBuilder(sources, time.Second, 5, testLogger())

	snap, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 42.0, snap.CPU.Aggregate, 0.001)
	assert.Equal(t, uint64(16<<30), snap.Memory.TotalBytes)
	assert.Len(t, snap.Disks, 1)
	assert.Len(t, snap.Network, 1)
	assert.True(t, snap.HasGPU())
	assert.False(t, snap.Timestamp.IsZero())

	// Processes come out ranked.
	require.Len(t, snap.Processes, 2)
	assert.Equal(t, int32(2), snap.Processes[0].PID)
}

func TestBuildDegradesNonCriticalSources(t *testing.T) {
	sources := []Source{
		goodCPU(),
		goodMemory(),
		&fakeSource{kind: KindGPU, err: ErrAbsent},
		&fakeSource{kind: KindNetwork, err: sourceErr(KindNetwork, errors.New("permission denied"))},
		&fakeSource{kind: KindDisk, value: []model.DiskReading{{MountPoint: "/"}}},
	}
	b := NewBuilder(sources, time.Second, 5, testLogger())

	snap, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.False(t, snap.HasGPU())
	assert.Empty(t, snap.Network)
	assert.Len(t, snap.Disks, 1)
	assert.InDelta(t, 42.0, snap.CPU.Aggregate, 0.001)
}

func TestBuildCPUFailureIsFatal(t *testing.T) {
	sources := []Source{
		&fakeSource{kind: KindCPU, err: sourceErr(KindCPU, errors.New("boom"))},
		goodMemory(),
		&fakeSource{kind: KindDisk, value: []model.DiskReading{{MountPoint: "/"}}},
	}
	b := NewBuilder(sources, time.Second, 5, testLogger())

	snap, err := b.Build(context.Background())

	assert.Nil(t, snap)
	var fatal *FatalCycleError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, KindCPU, fatal.Kind)
}

func TestBuildMemoryFailureIsFatal(t *testing.T) {
	sources := []Source{
		goodCPU(),
		&fakeSource{kind: KindMemory, err: sourceErr(KindMemory, errors.New("boom"))},
	}
	b := NewBuilder(sources, time.Second, 5, testLogger())

	snap, err := b.Build(context.Background())

	assert.Nil(t, snap)
	var fatal *FatalCycleError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, KindMemory, fatal.Kind)
}

func TestBuildMissingCriticalSourceIsFatal(t *testing.T) {
	b := NewBuilder([]Source{goodCPU()}, time.Second, 5, testLogger())

	snap, err := b.Build(context.Background())

	assert.Nil(t, snap)
	var fatal *FatalCycleError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, KindMemory, fatal.Kind)
}

func TestBuildTimesOutSlowNonCriticalSource(t *testing.T) {
	sources := []Source{
		goodCPU(),
		goodMemory(),
		&fakeSource{kind: KindGPU, delay: time.Second, value: []model.GPUReading{{Index: 0}}},
	}
	b := NewBuilder(sources, 20*time.Millisecond, 5, testLogger())

	start := time.Now()
	snap, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.False(t, snap.HasGPU())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestBuildTimesOutSlowCriticalSource(t *testing.T) {
	sources := []Source{
		&fakeSource{kind: KindCPU, delay: time.Second, value: model.CPUReading{}},
		goodMemory(),
	}
	b := NewBuilder(sources, 20*time.Millisecond, 5, testLogger())

	snap, err := b.Build(context.Background())

	assert.Nil(t, snap)
	var fatal *FatalCycleError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, KindCPU, fatal.Kind)
}

func TestBuildTruncatesProcessTable(t *testing.T) {
	procs := make([]model.ProcessReading, 0, 12)
	for i := 0; i < 12; i++ {
		procs = append(procs, model.ProcessReading{PID: int32(i + 1), CPUPercent: float64(i)})
	}
	sources := []Source{
		goodCPU(),
		goodMemory(),
		&fakeSource{kind: KindProcesses, value: procs},
	}
	b := NewBuilder(sources, time.Second, 3, testLogger())

	snap, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.Len(t, snap.Processes, 3)
	assert.Equal(t, float64(11), snap.Processes[0].CPUPercent)
}
