package sampler

import (
	"bufio"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/Dicklesworthstone/sysglance/internal/model"
)

// dockerSource lists running containers via `docker ps`. Like the GPU probe
// it is a process-boundary call, so every failure mode maps to ErrAbsent.
type dockerSource struct {
	command string
}

// NewDockerSource returns the container runtime probe.
func NewDockerSource() Source { return dockerSource{command: "docker"} }

func (dockerSource) Kind() Kind { return KindContainers }

func (d dockerSource) Sample(ctx context.Context) (any, error) {
	if _, err := exec.LookPath(d.command); err != nil {
		return nil, ErrAbsent
	}

	out, err := exec.CommandContext(ctx, d.command, "ps", "--format", "json").Output()
	if err != nil {
		return nil, ErrAbsent
	}

	containers := parseContainerLines(string(out))
	if len(containers) == 0 {
		return nil, ErrAbsent
	}
	return containers, nil
}

// dockerPSLine is the subset of `docker ps --format json` output we render.
// Older docker versions emit "State" instead of "Status".
type dockerPSLine struct {
	Names  string `json:"Names"`
	Image  string `json:"Image"`
	Status string `json:"Status"`
	State  string `json:"State"`
	Ports  string `json:"Ports"`
}

// parseContainerLines parses one JSON object per line, skipping lines that
// do not decode.
func parseContainerLines(out string) []model.ContainerReading {
	var containers []model.ContainerReading
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var row dockerPSLine
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			continue
		}
		status := row.Status
		if status == "" {
			status = row.State
		}
		containers = append(containers, model.ContainerReading{
			Name:   row.Names,
			Image:  row.Image,
			Status: status,
			Ports:  row.Ports,
		})
	}
	return containers
}
