package sampler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// Renderer consumes one snapshot per cycle. stale is true when the snapshot
// is a left-over from an earlier cycle because the current one failed.
type Renderer interface {
	Render(snap *model.Snapshot, stale bool) error
}

// State is the scheduler's position in its cycle.
type State int

const (
	StateIdle State = iota
	StateSampling
	StateRendering
	StateWaiting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateSampling:
		return "sampling"
	case StateRendering:
		return "rendering"
	case StateWaiting:
		return "waiting"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// minCycleGap is the floor on the inter-cycle wait. Without it a
// persistently slow cycle would spin with zero sleep, so an overdue cycle
// starts after this gap rather than immediately.
const minCycleGap = 50 * time.Millisecond

// Scheduler drives the sample -> build -> render cycle. Each cycle measures
// its own wall-clock duration and the wait before the next one is the
// configured interval minus that duration, so slow sampling does not
// compound drift. Overdue cycles never queue up.
type Scheduler struct {
	builder  *Builder
	renderer Renderer
	interval time.Duration
	once     bool
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// NewScheduler builds a scheduler. With once set, Run performs exactly one
// cycle and returns without entering the wait state.
func NewScheduler(builder *Builder, renderer Renderer, interval time.Duration, once bool, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		builder:  builder,
		renderer: renderer,
		interval: interval,
		once:     once,
		logger:   logger.With("component", "scheduler"),
		state:    StateIdle,
	}
}

// State reports the current cycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run loops until ctx is canceled or, in once mode, after the first cycle.
// A fatal cycle keeps the previous snapshot on screen flagged stale and the
// loop running; in once mode it is returned to the caller instead.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.setState(StateTerminated)

	s.builder.Prime(ctx)

	var latest *model.Snapshot
	stale := false

	for {
		s.setState(StateSampling)
		start := time.Now()

		snap, err := s.builder.Build(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			var fatal *FatalCycleError
			if !errors.As(err, &fatal) {
				return err
			}
			if s.once {
				return err
			}
			stale = true
			s.logger.Error("cycle failed, keeping previous snapshot",
				"source", string(fatal.Kind), "error", fatal.Err)
		} else {
			latest = snap
			stale = false
		}

		s.setState(StateRendering)
		if latest != nil {
			if rerr := s.renderer.Render(latest, stale); rerr != nil {
				return rerr
			}
		}

		if s.once {
			return nil
		}

		wait := s.interval - time.Since(start)
		if wait < minCycleGap {
			wait = minCycleGap
		}

		s.setState(StateWaiting)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
