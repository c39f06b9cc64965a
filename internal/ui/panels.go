package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	staleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)

	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	gaugeFill  = "█"
	gaugeEmpty = "░"
	gaugeWidth = 28
)

// severityStyle maps a utilization percentage to its tier color.
func severityStyle(pct float64) lipgloss.Style {
	switch model.Classify(pct) {
	case model.SeverityCritical:
		return criticalStyle
	case model.SeverityWarning:
		return warningStyle
	default:
		return normalStyle
	}
}

// gaugeBar renders a labeled, severity-colored bar like:
// Core 0  [████████░░░░]  62.0%
func gaugeBar(label string, pct float64, width int) string {
	shown := pct
	if shown < 0 {
		shown = 0
	}
	if shown > 100 {
		shown = 100
	}
	filled := int((shown / 100) * float64(width))
	if filled > width {
		filled = width
	}
	bar := severityStyle(pct).Render(
		strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled))
	return fmt.Sprintf("%-10s [%s] %5.1f%%", label, bar, pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

// HeaderLine renders the clock/uptime banner, with a stale marker when the
// displayed snapshot is a left-over from a failed cycle.
func HeaderLine(snap *model.Snapshot, stale bool) string {
	line := titleStyle.Render("sysglance") + "  " +
		subtleStyle.Render(snap.Timestamp.Format("2006-01-02 15:04:05")) + "  " +
		subtleStyle.Render("up "+formatUptime(snap.UptimeSeconds))
	if stale {
		line += "  " + staleStyle.Render("[STALE]")
	}
	return line
}

// CPUPanel renders one gauge per core plus the aggregate.
func CPUPanel(cpu model.CPUReading) string {
	lines := make([]string, 0, len(cpu.PerCore)+2)
	for i, pct := range cpu.PerCore {
		lines = append(lines, gaugeBar(fmt.Sprintf("Core %d", i), pct, gaugeWidth))
	}
	lines = append(lines, "")
	avg := gaugeBar("Average", cpu.Aggregate, gaugeWidth)
	if cpu.Load1 > 0 || cpu.Load5 > 0 || cpu.Load15 > 0 {
		avg += subtleStyle.Render(fmt.Sprintf("  load %.2f %.2f %.2f", cpu.Load1, cpu.Load5, cpu.Load15))
	}
	lines = append(lines, avg)
	return card("CPU Usage", strings.Join(lines, "\n"))
}

// MemPanel renders RAM and swap gauges with GiB detail lines.
func MemPanel(m model.MemoryReading) string {
	lines := []string{
		gaugeBar("RAM", m.UsedPercent(), gaugeWidth),
		subtleStyle.Render(fmt.Sprintf("           %.1f / %.1f GiB",
			bytesToGiB(m.UsedBytes), bytesToGiB(m.TotalBytes))),
		"",
		gaugeBar("Swap", m.SwapUsedPercent(), gaugeWidth),
		subtleStyle.Render(fmt.Sprintf("           %.1f / %.1f GiB",
			bytesToGiB(m.SwapUsedBytes), bytesToGiB(m.SwapTotalBytes))),
	}
	return card("Memory", strings.Join(lines, "\n"))
}

// DiskPanel renders one row per mount with a severity-colored percent.
func DiskPanel(disks []model.DiskReading) string {
	if len(disks) == 0 {
		return card("Disk Usage", dimStyle.Render("no disk data"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %8s %8s %8s %5s\n", "Mount", "Size", "Used", "Free", "%")
	for _, d := range disks {
		pctCell := severityStyle(d.UsedPercent).Render(fmt.Sprintf("%4.0f%%", d.UsedPercent))
		fmt.Fprintf(&b, "%-16s %7.1fG %7.1fG %7.1fG %s\n",
			truncate(d.MountPoint, 16),
			bytesToGiB(d.TotalBytes), bytesToGiB(d.UsedBytes), bytesToGiB(d.FreeBytes),
			pctCell)
	}
	return card("Disk Usage", strings.TrimRight(b.String(), "\n"))
}

// NetPanel renders cumulative per-interface traffic in MiB.
func NetPanel(ifaces []model.NetIfReading) string {
	if len(ifaces) == 0 {
		return card("Network I/O", dimStyle.Render("no network data"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %12s\n", "Interface", "Sent", "Recv")
	for _, nic := range ifaces {
		fmt.Fprintf(&b, "%-12s %8.1f MiB %8.1f MiB\n",
			truncate(nic.Name, 12),
			bytesToMiB(nic.BytesSentTotal), bytesToMiB(nic.BytesRecvTotal))
	}
	return card("Network I/O", strings.TrimRight(b.String(), "\n"))
}

// ProcPanel renders the pre-ranked top processes.
func ProcPanel(procs []model.ProcessReading) string {
	if len(procs) == 0 {
		return card("Top Processes (CPU)", dimStyle.Render("no process data"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%7s %-25s %6s %6s\n", "PID", "Name", "CPU%", "MEM%")
	for _, p := range procs {
		fmt.Fprintf(&b, "%7d %-25s %6.1f %6.1f\n",
			p.PID, truncate(p.Name, 25), p.CPUPercent, p.MemPercent)
	}
	return card("Top Processes (CPU)", strings.TrimRight(b.String(), "\n"))
}

// DockerPanel renders running containers, or a placeholder when the runtime
// is unavailable.
func DockerPanel(containers []model.ContainerReading) string {
	if len(containers) == 0 {
		return card("Docker Containers", dimStyle.Render("no running containers"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-25s %-25s %s\n", "Name", "Image", "Status", "Ports")
	for _, c := range containers {
		ports := c.Ports
		if len(ports) > 40 {
			ports = ports[:37] + "..."
		}
		fmt.Fprintf(&b, "%-20s %-25s %-25s %s\n",
			truncate(c.Name, 20), truncate(c.Image, 25), truncate(c.Status, 25), ports)
	}
	return card("Docker Containers", strings.TrimRight(b.String(), "\n"))
}

// GPUPanel renders per-device gauges, or the no-GPU placeholder.
func GPUPanel(gpus []model.GPUReading) string {
	if len(gpus) == 0 {
		return card("GPU Usage", dimStyle.Render("No GPU detected"))
	}
	lines := make([]string, 0, len(gpus)*2)
	for _, g := range gpus {
		lines = append(lines, gaugeBar(fmt.Sprintf("GPU %d", g.Index), g.UtilizationPercent, gaugeWidth))
		lines = append(lines, subtleStyle.Render(fmt.Sprintf("           %s  |  %.0f/%.0f MiB  |  %.0f°C",
			g.Name, bytesToMiB(g.VRAMUsedBytes), bytesToMiB(g.VRAMTotalBytes), g.TemperatureCelsius)))
	}
	return card("GPU Usage", strings.Join(lines, "\n"))
}

// RenderDashboard composes the full multi-panel view for one snapshot.
func RenderDashboard(snap *model.Snapshot, stale bool) string {
	upper := lipgloss.JoinHorizontal(lipgloss.Top,
		CPUPanel(snap.CPU), MemPanel(snap.Memory))
	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		DiskPanel(snap.Disks), NetPanel(snap.Network))
	lower := lipgloss.JoinHorizontal(lipgloss.Top,
		ProcPanel(snap.Processes), GPUPanel(snap.GPUs))
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderLine(snap, stale), upper, middle, lower, DockerPanel(snap.Containers))
}

// formatUptime renders seconds as "2d 3h 15m".
func formatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	mins := seconds % 3600 / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func bytesToGiB(b uint64) float64 { return float64(b) / (1 << 30) }
func bytesToMiB(b uint64) float64 { return float64(b) / (1 << 20) }
