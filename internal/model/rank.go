package model

import "sort"

// DefaultTopProcesses is how many ranked processes a snapshot keeps when the
// caller does not override the limit.
const DefaultTopProcesses = 5

// RankProcesses orders process readings by descending CPU usage and returns
// at most limit entries. Ties are broken by descending memory usage, then by
// ascending PID, so the result is fully deterministic for identical input.
// The input slice is not modified.
func RankProcesses(procs []ProcessReading, limit int) []ProcessReading {
	if limit <= 0 {
		limit = DefaultTopProcesses
	}

	ranked := make([]ProcessReading, len(procs))
	copy(ranked, procs)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.CPUPercent != b.CPUPercent {
			return a.CPUPercent > b.CPUPercent
		}
		if a.MemPercent != b.MemPercent {
			return a.MemPercent > b.MemPercent
		}
		return a.PID < b.PID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
