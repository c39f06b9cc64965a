package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// Builder invokes every source once per cycle and assembles one immutable
// Snapshot. CPU and Memory failures abort the cycle; every other source
// degrades its own section to empty and the snapshot is still produced.
type Builder struct {
	sources []Source
	timeout time.Duration
	topN    int
	logger  *slog.Logger
}

// NewBuilder wires a builder over the given sources. timeout bounds each
// individual source invocation; topN is the process table cutoff.
func NewBuilder(sources []Source, timeout time.Duration, topN int, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if topN <= 0 {
		topN = model.DefaultTopProcesses
	}
	return &Builder{
		sources: sources,
		timeout: timeout,
		topN:    topN,
		logger:  logger.With("component", "builder"),
	}
}

// Prime gives sources that measure deltas a baseline read. Called once
// before the first cycle.
func (b *Builder) Prime(ctx context.Context) {
	type primer interface{ Prime(ctx context.Context) }
	for _, src := range b.sources {
		if p, ok := src.(primer); ok {
			p.Prime(ctx)
		}
	}
}

type sourceResult struct {
	kind  Kind
	value any
	err   error
}

// Build runs one cycle: all sources sampled concurrently, each under its own
// timeout, results merged once every source has returned or timed out.
// Returns a *FatalCycleError when the CPU or Memory source fails; the caller
// keeps the previous snapshot and marks it stale.
func (b *Builder) Build(ctx context.Context) (*model.Snapshot, error) {
	results := make(chan sourceResult, len(b.sources))

	var wg sync.WaitGroup
	for _, src := range b.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()
			value, err := src.Sample(sctx)
			if err == nil && sctx.Err() != nil {
				err = sourceErr(src.Kind(), sctx.Err())
			}
			results <- sourceResult{kind: src.Kind(), value: value, err: err}
		}(src)
	}
	wg.Wait()
	close(results)

	snap := &model.Snapshot{Timestamp: time.Now()}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		snap.UptimeSeconds = up
	}

	var haveCPU, haveMem bool
	for res := range results {
		if err := b.merge(snap, res); err != nil {
			return nil, err
		}
		switch res.kind {
		case KindCPU:
			haveCPU = res.err == nil
		case KindMemory:
			haveMem = res.err == nil
		}
	}

	// A builder wired without CPU or Memory sources cannot produce a valid
	// snapshot either.
	if !haveCPU {
		return nil, &FatalCycleError{Kind: KindCPU, Err: errors.New("no reading produced")}
	}
	if !haveMem {
		return nil, &FatalCycleError{Kind: KindMemory, Err: errors.New("no reading produced")}
	}
	return snap, nil
}

// merge folds one source result into the snapshot, applying the escalation
// asymmetry: CPU/Memory errors are fatal, everything else degrades in place.
func (b *Builder) merge(snap *model.Snapshot, res sourceResult) error {
	if res.err != nil {
		switch res.kind {
		case KindCPU, KindMemory:
			return &FatalCycleError{Kind: res.kind, Err: res.err}
		default:
			if errors.Is(res.err, ErrAbsent) {
				b.logger.Debug("source absent", "source", string(res.kind))
			} else {
				b.logger.Warn("source failed, section degraded",
					"source", string(res.kind), "error", res.err)
			}
			return nil
		}
	}

	switch res.kind {
	case KindCPU:
		snap.CPU = res.value.(model.CPUReading)
	case KindMemory:
		snap.Memory = res.value.(model.MemoryReading)
	case KindDisk:
		snap.Disks = res.value.([]model.DiskReading)
	case KindNetwork:
		snap.Network = res.value.([]model.NetIfReading)
	case KindProcesses:
		snap.Processes = model.RankProcesses(res.value.([]model.ProcessReading), b.topN)
	case KindGPU:
		snap.GPUs = res.value.([]model.GPUReading)
	case KindContainers:
		snap.Containers = res.value.([]model.ContainerReading)
	default:
		return fmt.Errorf("unknown source kind %q", res.kind)
	}
	return nil
}
