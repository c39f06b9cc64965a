// Package ui renders snapshots as a multi-panel terminal dashboard. The live
// mode runs a Bubble Tea program in the alt screen; once mode prints one
// composed frame to a writer.
package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// Frame is one renderable unit handed from the scheduler to the dashboard.
type Frame struct {
	Snap  *model.Snapshot
	Stale bool
}

// StreamRenderer adapts the scheduler's Renderer contract onto a channel the
// dashboard polls. Only the latest frame is kept: if the UI lags, the older
// frame is replaced rather than queued.
type StreamRenderer struct {
	frames chan Frame
}

// NewStreamRenderer returns a renderer feeding the live dashboard.
func NewStreamRenderer() *StreamRenderer {
	return &StreamRenderer{frames: make(chan Frame, 1)}
}

// Frames exposes the channel the dashboard model reads from.
func (r *StreamRenderer) Frames() <-chan Frame { return r.frames }

// Render implements sampler.Renderer.
func (r *StreamRenderer) Render(snap *model.Snapshot, stale bool) error {
	frame := Frame{Snap: snap, Stale: stale}
	select {
	case r.frames <- frame:
	default:
		// Drop the unconsumed frame to make room for the new one.
		select {
		case <-r.frames:
		default:
		}
		select {
		case r.frames <- frame:
		default:
		}
	}
	return nil
}

// PrintRenderer writes one composed frame to a writer; used by --once.
type PrintRenderer struct {
	Out io.Writer
}

// Render implements sampler.Renderer.
func (r PrintRenderer) Render(snap *model.Snapshot, stale bool) error {
	_, err := fmt.Fprintln(r.Out, RenderDashboard(snap, stale))
	return err
}

// Model renders live frames from the scheduler's stream.
type Model struct {
	frames <-chan Frame
	latest *model.Snapshot
	stale  bool
	cancel context.CancelFunc
	width  int
	height int
}

// New builds the dashboard model. cancel stops the scheduler when the user
// quits.
func New(frames <-chan Frame, cancel context.CancelFunc) *Model {
	return &Model{
		frames: frames,
		cancel: cancel,
		width:  120,
		height: 40,
	}
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tickMsg:
		select {
		case frame, ok := <-m.frames:
			if ok {
				m.latest = frame.Snap
				m.stale = frame.Stale
			}
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) View() string {
	if m.latest == nil {
		return subtleStyle.Render("collecting first snapshot...")
	}
	return RenderDashboard(m.latest, m.stale)
}

// RunDashboard runs the Bubble Tea program until the user quits or ctx is
// canceled.
func RunDashboard(ctx context.Context, frames <-chan Frame, cancel context.CancelFunc) error {
	prog := tea.NewProgram(New(frames, cancel), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
