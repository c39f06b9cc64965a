package model

// Severity is the tier a utilization percentage falls into. It drives the
// color of every rendered gauge and percent cell.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// Tier boundaries. Each boundary value belongs to the higher tier.
const (
	warningFloor  = 60.0
	criticalFloor = 85.0
)

// Classify maps a utilization percentage to a severity tier:
// below 60 is Normal, 60 up to but excluding 85 is Warning, 85 and above is
// Critical.
func Classify(percent float64) Severity {
	switch {
	case percent >= criticalFloor:
		return SeverityCritical
	case percent >= warningFloor:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "normal"
	}
}
