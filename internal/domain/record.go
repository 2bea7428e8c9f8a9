package domain

// Status classifies the assessed state of a feature for this run.
// Every status is terminal for the run; no resource is re-evaluated.
type Status string

const (
	// StatusCompliant means the feature is present and configured.
	StatusCompliant Status = "Compliant"

	// StatusWarning means the feature is present but partially or
	// sub-optimally configured.
	StatusWarning Status = "Warning"

	// StatusNotConfigured means the feature is absent, disabled, or its
	// state could not be determined from the collected data.
	StatusNotConfigured Status = "NotConfigured"

	// StatusPendingInput means a one-time manual external action (a
	// portal activation, a consent grant) is required before API-based
	// assessment is meaningful.
	StatusPendingInput Status = "PendingInput"
)

// Priority ranks how urgently a recommendation should be acted on.
// PriorityNone marks purely informational records that carry no
// recommendation; they sort after everything else and export as an
// empty priority cell.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
	PriorityNone
)

// String returns the report label for the priority.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return ""
	}
}

// Record is one output row of the assessment: an observation about a
// feature paired with a prioritized recommendation and a reference link.
// The ordered record list is the sole output artifact of the core.
type Record struct {
	Area           Area
	Feature        string
	Status         Status
	Priority       Priority
	Observation    string
	Recommendation string
	LinkText       string
	LinkURL        string
}
