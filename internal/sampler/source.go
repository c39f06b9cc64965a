// Package sampler captures host telemetry on a fixed cadence. Independent
// sources probe one metric category each; the Builder fans them out, isolates
// per-source failures, and assembles immutable snapshots; the Scheduler
// drives the sample/render cycle with drift compensation.
package sampler

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies a metric category.
type Kind string

const (
	KindCPU        Kind = "cpu"
	KindMemory     Kind = "memory"
	KindDisk       Kind = "disk"
	KindNetwork    Kind = "network"
	KindProcesses  Kind = "processes"
	KindGPU        Kind = "gpu"
	KindContainers Kind = "containers"
)

// ErrAbsent marks structural non-availability of a metric: no GPU on the
// host, nvidia-smi or docker missing from PATH, nothing to report. It is
// expected steady state, not a fault, and renders as a placeholder.
var ErrAbsent = errors.New("metric not available")

// SourceError is an unexpected fault while sampling. For non-critical
// sources it degrades that snapshot section to empty; for CPU and Memory the
// builder escalates it to a FatalCycleError.
type SourceError struct {
	Kind Kind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// FatalCycleError is a failure of an always-available source (CPU or
// Memory). The cycle produces no snapshot; the caller keeps the previous one
// and marks it stale.
type FatalCycleError struct {
	Kind Kind
	Err  error
}

func (e *FatalCycleError) Error() string {
	return fmt.Sprintf("cycle aborted, %s source failed: %v", e.Kind, e.Err)
}

func (e *FatalCycleError) Unwrap() error { return e.Err }

// Source is one independent metric probe. Sample returns the reading typed
// per kind (see Builder.merge), ErrAbsent, or a *SourceError. Sources hold no
// shared mutable state; any cached handle is exclusively owned by its source.
// Sample must honor ctx so one hung probe cannot stall the cycle.
type Source interface {
	Kind() Kind
	Sample(ctx context.Context) (any, error)
}

func sourceErr(kind Kind, err error) error {
	return &SourceError{Kind: kind, Err: err}
}
