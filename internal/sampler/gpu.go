package sampler

import (
	"bufio"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

const gpuQueryFields = "index,name,utilization.gpu,memory.used,memory.total,temperature.gpu"

// gpuSource shells out to nvidia-smi. This is a process-boundary call:
// a missing binary, non-zero exit, timeout, or unparseable output all mean
// ErrAbsent, never a fault for the rest of the cycle.
type gpuSource struct {
	command string
}

// NewGPUSource returns the NVIDIA GPU probe.
func NewGPUSource() Source { return gpuSource{command: "nvidia-smi"} }

func (gpuSource) Kind() Kind { return KindGPU }

func (g gpuSource) Sample(ctx context.Context) (any, error) {
	if _, err := exec.LookPath(g.command); err != nil {
		return nil, ErrAbsent
	}

	out, err := exec.CommandContext(ctx, g.command,
		"--query-gpu="+gpuQueryFields,
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		// Covers non-zero exit and the process being killed on ctx deadline.
		return nil, ErrAbsent
	}

	gpus := parseGPUCSV(string(out))
	if len(gpus) == 0 {
		return nil, ErrAbsent
	}
	return gpus, nil
}

// parseGPUCSV parses nvidia-smi query output, one device per line. Rows with
// fewer than 6 fields are skipped.
func parseGPUCSV(out string) []model.GPUReading {
	var gpus []model.GPUReading
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ",")
		if len(parts) < 6 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		// memory.used/memory.total arrive in MiB with nounits.
		gpus = append(gpus, model.GPUReading{
			Index:              idx,
			Name:               strings.TrimSpace(parts[1]),
			UtilizationPercent: parseFloat(parts[2]),
			VRAMUsedBytes:      uint64(parseFloat(parts[3])) << 20,
			VRAMTotalBytes:     uint64(parseFloat(parts[4])) << 20,
			TemperatureCelsius: parseFloat(parts[5]),
		})
	}
	return gpus
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
