package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

func testSnapshot(agg float64) *model.Snapshot {
	return &model.Snapshot{
		Timestamp: time.Now(),
		CPU:       model.CPUReading{Aggregate: agg, PerCore: []float64{agg}},
		Memory:    model.MemoryReading{TotalBytes: 1 << 30, UsedBytes: 1 << 29},
	}
}

func TestStreamRendererKeepsLatestFrame(t *testing.T) {
	r := NewStreamRenderer()

	require.NoError(t, r.Render(testSnapshot(10), false))
	require.NoError(t, r.Render(testSnapshot(20), false))
	require.NoError(t, r.Render(testSnapshot(30), true))

	frame := <-r.Frames()
	assert.InDelta(t, 30.0, frame.Snap.CPU.Aggregate, 0.001)
	assert.True(t, frame.Stale)

	select {
	case extra := <-r.Frames():
		t.Fatalf("expected a single buffered frame, got another: %+v", extra)
	default:
	}
}

func TestPrintRendererWritesDashboard(t *testing.T) {
	var buf bytes.Buffer
	r := PrintRenderer{Out: &buf}

	require.NoError(t, r.Render(testSnapshot(42), false))

	out := buf.String()
	assert.Contains(t, out, "CPU Usage")
	assert.Contains(t, out, "sysglance")
}

func TestModelPicksUpFramesOnTick(t *testing.T) {
	r := NewStreamRenderer()
	_ = r.Render(testSnapshot(77), false)

	m := New(r.Frames(), func() {})
	assert.Contains(t, m.View(), "collecting")

	updated, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd)

	view := updated.View()
	assert.Contains(t, view, "77.0%")
	assert.NotContains(t, view, "collecting")
}

func TestModelQuitCancelsScheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(make(chan Frame), cancel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	select {
	case <-ctx.Done():
	default:
		t.Fatal("quit key should cancel the scheduler context")
	}
}
